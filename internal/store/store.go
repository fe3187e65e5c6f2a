// Package store defines the persistence contract shared by the in-memory
// and SQL-backed implementations.
//
// Create methods assign a collection-local, strictly increasing identifier
// and, where the entity has one, a server timestamp. Get methods return an
// error wrapping ErrNotFound when the record is absent.
package store

import (
	"context"
	"errors"
	"time"

	"wellnest/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint would be violated
	ErrDuplicate = errors.New("duplicate record")
)

// Users persists accounts. UpdateProgress is the only mutation path and
// writes Level, Points, StreakDays, BestStreak and LastLogin.
type Users interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProgress(ctx context.Context, user *models.User) error
}

// Sessions persists authenticated sessions
type Sessions interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

// Moods persists mood log entries
type Moods interface {
	CreateMood(ctx context.Context, mood *models.Mood) (*models.Mood, error)
	GetMood(ctx context.Context, id int64) (*models.Mood, error)
	// ListMoods returns the user's moods newest-first
	ListMoods(ctx context.Context, userID int64) ([]models.Mood, error)
	// ListMoodsSince returns moods at or after since, oldest-first
	ListMoodsSince(ctx context.Context, userID int64, since time.Time) ([]models.Mood, error)
}

// Activities persists the activity catalog
type Activities interface {
	CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	GetActivity(ctx context.Context, id int64) (*models.Activity, error)
	ListActivities(ctx context.Context) ([]models.Activity, error)
}

// UserActivities persists completion records
type UserActivities interface {
	CreateUserActivity(ctx context.Context, ua *models.UserActivity) (*models.UserActivity, error)
	GetUserActivity(ctx context.Context, id int64) (*models.UserActivity, error)
	// ListUserActivities returns the user's completions newest-first
	ListUserActivities(ctx context.Context, userID int64) ([]models.UserActivity, error)
}

// Achievements persists the achievement catalog
type Achievements interface {
	CreateAchievement(ctx context.Context, achievement *models.Achievement) (*models.Achievement, error)
	GetAchievement(ctx context.Context, id int64) (*models.Achievement, error)
	ListAchievements(ctx context.Context) ([]models.Achievement, error)
}

// UserAchievements persists unlock records. CreateUserAchievement returns
// ErrDuplicate when the (user, achievement) pair already exists.
type UserAchievements interface {
	CreateUserAchievement(ctx context.Context, ua *models.UserAchievement) (*models.UserAchievement, error)
	// ListUserAchievements returns the user's unlocks newest-first
	ListUserAchievements(ctx context.Context, userID int64) ([]models.UserAchievement, error)
}

// ChatMessages persists chat turns
type ChatMessages interface {
	CreateChatMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error)
	GetChatMessage(ctx context.Context, id int64) (*models.ChatMessage, error)
	// ListChatMessages returns the user's conversation oldest-first
	ListChatMessages(ctx context.Context, userID int64) ([]models.ChatMessage, error)
}

// Store aggregates every collection
type Store interface {
	Users
	Sessions
	Moods
	Activities
	UserActivities
	Achievements
	UserAchievements
	ChatMessages
}
