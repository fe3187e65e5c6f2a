// Package memory implements store.Store with process-local maps.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"wellnest/internal/models"
	"wellnest/internal/store"
)

// Option configures a Store
type Option func(*Store)

// WithClock overrides the source of server-assigned timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

type pairKey struct {
	userID        int64
	achievementID int64
}

// Store keeps every collection in memory. Records are copied on the way in
// and out so callers never share state with the store.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users            map[int64]models.User
	sessions         map[string]models.Session
	moods            map[int64]models.Mood
	activities       map[int64]models.Activity
	userActivities   map[int64]models.UserActivity
	achievements     map[int64]models.Achievement
	userAchievements map[int64]models.UserAchievement
	unlocked         map[pairKey]struct{}
	chatMessages     map[int64]models.ChatMessage

	userID            int64
	moodID            int64
	activityID        int64
	userActivityID    int64
	achievementID     int64
	userAchievementID int64
	chatMessageID     int64
}

var _ store.Store = (*Store)(nil)

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		now:              time.Now,
		users:            make(map[int64]models.User),
		sessions:         make(map[string]models.Session),
		moods:            make(map[int64]models.Mood),
		activities:       make(map[int64]models.Activity),
		userActivities:   make(map[int64]models.UserActivity),
		achievements:     make(map[int64]models.Achievement),
		userAchievements: make(map[int64]models.UserAchievement),
		unlocked:         make(map[pairKey]struct{}),
		chatMessages:     make(map[int64]models.ChatMessage),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, store.ErrNotFound)
}

func copyUser(u models.User) *models.User {
	if u.LastLogin != nil {
		t := *u.LastLogin
		u.LastLogin = &t
	}
	return &u
}

// CreateUser stores a new user. Usernames are unique, compared case-insensitively.
func (s *Store) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return nil, fmt.Errorf("username %q: %w", user.Username, store.ErrDuplicate)
		}
	}

	s.userID++
	stored := *copyUser(*user)
	stored.ID = s.userID
	stored.CreatedAt = s.now()
	if stored.Level < 1 {
		stored.Level = 1
	}
	s.users[stored.ID] = stored
	return copyUser(stored), nil
}

// GetUser retrieves a user by ID
func (s *Store) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return copyUser(user), nil
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Username, username) {
			return copyUser(user), nil
		}
	}
	return nil, notFound("user", username)
}

// UpdateProgress writes the mutable progression fields of a user
func (s *Store) UpdateProgress(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok {
		return notFound("user", user.ID)
	}
	updated := copyUser(*user)
	stored.Level = updated.Level
	stored.Points = updated.Points
	stored.StreakDays = updated.StreakDays
	stored.BestStreak = updated.BestStreak
	stored.LastLogin = updated.LastLogin
	s.users[user.ID] = stored
	return nil
}

// CreateSession stores a session
func (s *Store) CreateSession(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *session
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now()
	}
	s.sessions[stored.ID] = stored
	return nil
}

// GetSession retrieves a session by ID
func (s *Store) GetSession(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, notFound("session", id)
	}
	return &session, nil
}

// DeleteSession removes a session
func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// DeleteExpiredSessions removes sessions that expired before now
func (s *Store) DeleteExpiredSessions(_ context.Context, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if session.ExpiresAt.Before(now) {
			delete(s.sessions, id)
		}
	}
	return nil
}

// CreateMood stores a mood entry
func (s *Store) CreateMood(_ context.Context, mood *models.Mood) (*models.Mood, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.moodID++
	stored := *mood
	stored.ID = s.moodID
	stored.Timestamp = s.now()
	s.moods[stored.ID] = stored
	return &stored, nil
}

// GetMood retrieves a mood entry by ID
func (s *Store) GetMood(_ context.Context, id int64) (*models.Mood, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mood, ok := s.moods[id]
	if !ok {
		return nil, notFound("mood", id)
	}
	return &mood, nil
}

// ListMoods returns the user's moods newest-first
func (s *Store) ListMoods(_ context.Context, userID int64) ([]models.Mood, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	moods := make([]models.Mood, 0)
	for _, mood := range s.moods {
		if mood.UserID == userID {
			moods = append(moods, mood)
		}
	}
	sort.Slice(moods, func(i, j int) bool {
		return newerFirst(moods[i].Timestamp, moods[i].ID, moods[j].Timestamp, moods[j].ID)
	})
	return moods, nil
}

// ListMoodsSince returns moods at or after since, oldest-first
func (s *Store) ListMoodsSince(_ context.Context, userID int64, since time.Time) ([]models.Mood, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	moods := make([]models.Mood, 0)
	for _, mood := range s.moods {
		if mood.UserID == userID && !mood.Timestamp.Before(since) {
			moods = append(moods, mood)
		}
	}
	sort.Slice(moods, func(i, j int) bool {
		return newerFirst(moods[j].Timestamp, moods[j].ID, moods[i].Timestamp, moods[i].ID)
	})
	return moods, nil
}

// CreateActivity adds an activity to the catalog
func (s *Store) CreateActivity(_ context.Context, activity *models.Activity) (*models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activityID++
	stored := *activity
	stored.ID = s.activityID
	stored.CreatedAt = s.now()
	s.activities[stored.ID] = stored
	return &stored, nil
}

// GetActivity retrieves a catalog activity by ID
func (s *Store) GetActivity(_ context.Context, id int64) (*models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	activity, ok := s.activities[id]
	if !ok {
		return nil, notFound("activity", id)
	}
	return &activity, nil
}

// ListActivities returns the catalog in ID order
func (s *Store) ListActivities(_ context.Context) ([]models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	activities := make([]models.Activity, 0, len(s.activities))
	for _, activity := range s.activities {
		activities = append(activities, activity)
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].ID < activities[j].ID })
	return activities, nil
}

// CreateUserActivity stores a completion record
func (s *Store) CreateUserActivity(_ context.Context, ua *models.UserActivity) (*models.UserActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userActivityID++
	stored := *ua
	stored.ID = s.userActivityID
	stored.CompletedAt = s.now()
	s.userActivities[stored.ID] = stored
	return &stored, nil
}

// GetUserActivity retrieves a completion record by ID
func (s *Store) GetUserActivity(_ context.Context, id int64) (*models.UserActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ua, ok := s.userActivities[id]
	if !ok {
		return nil, notFound("user activity", id)
	}
	return &ua, nil
}

// ListUserActivities returns the user's completions newest-first
func (s *Store) ListUserActivities(_ context.Context, userID int64) ([]models.UserActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.UserActivity, 0)
	for _, ua := range s.userActivities {
		if ua.UserID == userID {
			records = append(records, ua)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return newerFirst(records[i].CompletedAt, records[i].ID, records[j].CompletedAt, records[j].ID)
	})
	return records, nil
}

// CreateAchievement adds an achievement to the catalog
func (s *Store) CreateAchievement(_ context.Context, achievement *models.Achievement) (*models.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.achievementID++
	stored := *achievement
	stored.ID = s.achievementID
	stored.CreatedAt = s.now()
	s.achievements[stored.ID] = stored
	return &stored, nil
}

// GetAchievement retrieves a catalog achievement by ID
func (s *Store) GetAchievement(_ context.Context, id int64) (*models.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	achievement, ok := s.achievements[id]
	if !ok {
		return nil, notFound("achievement", id)
	}
	return &achievement, nil
}

// ListAchievements returns the catalog in ID order
func (s *Store) ListAchievements(_ context.Context) ([]models.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	achievements := make([]models.Achievement, 0, len(s.achievements))
	for _, achievement := range s.achievements {
		achievements = append(achievements, achievement)
	}
	sort.Slice(achievements, func(i, j int) bool { return achievements[i].ID < achievements[j].ID })
	return achievements, nil
}

// CreateUserAchievement stores an unlock record, at most one per pair
func (s *Store) CreateUserAchievement(_ context.Context, ua *models.UserAchievement) (*models.UserAchievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{userID: ua.UserID, achievementID: ua.AchievementID}
	if _, exists := s.unlocked[key]; exists {
		return nil, fmt.Errorf("user %d achievement %d: %w", ua.UserID, ua.AchievementID, store.ErrDuplicate)
	}

	s.userAchievementID++
	stored := *ua
	stored.ID = s.userAchievementID
	stored.UnlockedAt = s.now()
	s.userAchievements[stored.ID] = stored
	s.unlocked[key] = struct{}{}
	return &stored, nil
}

// ListUserAchievements returns the user's unlocks newest-first
func (s *Store) ListUserAchievements(_ context.Context, userID int64) ([]models.UserAchievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.UserAchievement, 0)
	for _, ua := range s.userAchievements {
		if ua.UserID == userID {
			records = append(records, ua)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return newerFirst(records[i].UnlockedAt, records[i].ID, records[j].UnlockedAt, records[j].ID)
	})
	return records, nil
}

// CreateChatMessage stores a chat turn
func (s *Store) CreateChatMessage(_ context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chatMessageID++
	stored := *msg
	stored.ID = s.chatMessageID
	stored.Timestamp = s.now()
	s.chatMessages[stored.ID] = stored
	return &stored, nil
}

// GetChatMessage retrieves a chat turn by ID
func (s *Store) GetChatMessage(_ context.Context, id int64) (*models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.chatMessages[id]
	if !ok {
		return nil, notFound("chat message", id)
	}
	return &msg, nil
}

// ListChatMessages returns the user's conversation oldest-first
func (s *Store) ListChatMessages(_ context.Context, userID int64) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]models.ChatMessage, 0)
	for _, msg := range s.chatMessages {
		if msg.UserID == userID {
			messages = append(messages, msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return newerFirst(messages[j].Timestamp, messages[j].ID, messages[i].Timestamp, messages[i].ID)
	})
	return messages, nil
}

// newerFirst orders by timestamp descending, breaking ties by ID descending
func newerFirst(ta time.Time, ida int64, tb time.Time, idb int64) bool {
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return ida > idb
}
