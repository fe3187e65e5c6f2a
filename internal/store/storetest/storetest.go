// Package storetest holds the behavioral tests every store.Store
// implementation must pass.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellnest/internal/models"
	"wellnest/internal/store"
)

// Factory returns a fresh, empty store for one subtest
type Factory func(t *testing.T) store.Store

// Run executes the contract suite against stores built by newStore
func Run(t *testing.T, newStore Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("sessions", func(t *testing.T) { testSessions(t, newStore(t)) })
	t.Run("moods", func(t *testing.T) { testMoods(t, newStore(t)) })
	t.Run("activities", func(t *testing.T) { testActivities(t, newStore(t)) })
	t.Run("user achievements", func(t *testing.T) { testUserAchievements(t, newStore(t)) })
	t.Run("chat messages", func(t *testing.T) { testChatMessages(t, newStore(t)) })
}

func mustUser(t *testing.T, s store.Store, username string) *models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), models.NewUser(username, "hash", "Name "+username, ""))
	require.NoError(t, err)
	return user
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	first := mustUser(t, s, "alice")
	second := mustUser(t, s, "bob")
	assert.Greater(t, second.ID, first.ID, "ids must be strictly increasing")
	assert.Equal(t, 1, first.Level)

	_, err := s.CreateUser(ctx, models.NewUser("alice", "hash", "Other", ""))
	assert.True(t, errors.Is(err, store.ErrDuplicate), "duplicate username should fail, got %v", err)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byName.ID)

	_, err = s.GetUser(ctx, 9999)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	login := time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC)
	first.Points = 40
	first.StreakDays = 3
	first.BestStreak = 5
	first.LastLogin = &login
	require.NoError(t, s.UpdateProgress(ctx, first))

	reloaded, err := s.GetUser(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, reloaded.Points)
	assert.Equal(t, 3, reloaded.StreakDays)
	assert.Equal(t, 5, reloaded.BestStreak)
	require.NotNil(t, reloaded.LastLogin)
	assert.True(t, login.Equal(*reloaded.LastLogin))
	assert.Equal(t, "alice", reloaded.Username)

	err = s.UpdateProgress(ctx, &models.User{ID: 9999})
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func testSessions(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := mustUser(t, s, "carol")

	live := &models.Session{ID: "live", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	stale := &models.Session{ID: "stale", UserID: user.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, s.CreateSession(ctx, live))
	require.NoError(t, s.CreateSession(ctx, stale))

	got, err := s.GetSession(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)

	require.NoError(t, s.DeleteExpiredSessions(ctx, time.Now()))
	_, err = s.GetSession(ctx, "stale")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	require.NoError(t, s.DeleteSession(ctx, "live"))
	_, err = s.GetSession(ctx, "live")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func testMoods(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := mustUser(t, s, "dana")
	other := mustUser(t, s, "erin")

	var created []*models.Mood
	for _, label := range []models.MoodLabel{models.MoodSad, models.MoodCalm, models.MoodHappy} {
		mood, err := s.CreateMood(ctx, &models.Mood{UserID: user.ID, Mood: label, Note: "note " + string(label)})
		require.NoError(t, err)
		created = append(created, mood)
	}
	_, err := s.CreateMood(ctx, &models.Mood{UserID: other.ID, Mood: models.MoodAnxious})
	require.NoError(t, err)

	got, err := s.GetMood(ctx, created[1].ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, models.MoodCalm, got.Mood)
	assert.Equal(t, "note calm", got.Note)
	assert.True(t, created[1].Timestamp.Equal(got.Timestamp))

	list, err := s.ListMoods(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, created[2].ID, list[0].ID, "moods are newest-first")
	assert.Equal(t, created[0].ID, list[2].ID)

	weekly, err := s.ListMoodsSince(ctx, user.ID, time.Now().Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, weekly, 3)
	assert.Equal(t, created[0].ID, weekly[0].ID, "weekly moods are oldest-first")

	none, err := s.ListMoodsSince(ctx, user.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = s.GetMood(ctx, 9999)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func testActivities(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := mustUser(t, s, "frank")

	breathing, err := s.CreateActivity(ctx, &models.Activity{
		Name: "Breathing Exercise", Description: "breathe", Type: models.ActivityBreathing,
		Points: 15, Icon: "fa-wind", ColorScheme: "secondary", Duration: 5,
	})
	require.NoError(t, err)
	journal, err := s.CreateActivity(ctx, &models.Activity{
		Name: "Gratitude Journal", Description: "write", Type: models.ActivityJournal,
		Points: 20, Icon: "fa-pen-to-square", ColorScheme: "accent", Duration: 0,
	})
	require.NoError(t, err)

	catalog, err := s.ListActivities(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	assert.Equal(t, breathing.ID, catalog[0].ID)
	assert.Equal(t, 0, catalog[1].Duration)

	first, err := s.CreateUserActivity(ctx, &models.UserActivity{UserID: user.ID, ActivityID: breathing.ID})
	require.NoError(t, err)
	second, err := s.CreateUserActivity(ctx, &models.UserActivity{UserID: user.ID, ActivityID: journal.ID})
	require.NoError(t, err)
	repeat, err := s.CreateUserActivity(ctx, &models.UserActivity{UserID: user.ID, ActivityID: breathing.ID})
	require.NoError(t, err)
	assert.Greater(t, repeat.ID, second.ID)

	got, err := s.GetUserActivity(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, journal.ID, got.ActivityID)
	assert.Equal(t, user.ID, got.UserID)
	assert.True(t, second.CompletedAt.Equal(got.CompletedAt))

	history, err := s.ListUserActivities(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, repeat.ID, history[0].ID, "completions are newest-first")
	assert.Equal(t, first.ID, history[2].ID)

	_, err = s.GetActivity(ctx, 9999)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func testUserAchievements(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := mustUser(t, s, "gina")

	achievement, err := s.CreateAchievement(ctx, &models.Achievement{
		Name: "Breathing Expert", Description: "Complete 10 breathing exercises",
		Icon: "fa-wind", ColorScheme: "info", BonusPoints: 150, Condition: "breathing_10_sessions",
	})
	require.NoError(t, err)

	got, err := s.GetAchievement(ctx, achievement.ID)
	require.NoError(t, err)
	assert.Equal(t, "breathing_10_sessions", got.Condition)
	assert.Equal(t, 150, got.BonusPoints)

	unlock, err := s.CreateUserAchievement(ctx, &models.UserAchievement{UserID: user.ID, AchievementID: achievement.ID})
	require.NoError(t, err)
	assert.False(t, unlock.UnlockedAt.IsZero())

	_, err = s.CreateUserAchievement(ctx, &models.UserAchievement{UserID: user.ID, AchievementID: achievement.ID})
	assert.True(t, errors.Is(err, store.ErrDuplicate), "second unlock should be rejected, got %v", err)

	unlocks, err := s.ListUserAchievements(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, unlocks, 1)
	assert.Equal(t, achievement.ID, unlocks[0].AchievementID)
}

func testChatMessages(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := mustUser(t, s, "hank")

	question, err := s.CreateChatMessage(ctx, &models.ChatMessage{UserID: user.ID, Role: models.ChatRoleUser, Content: "hello"})
	require.NoError(t, err)
	answer, err := s.CreateChatMessage(ctx, &models.ChatMessage{UserID: user.ID, Role: models.ChatRoleAssistant, Content: "hi there"})
	require.NoError(t, err)

	got, err := s.GetChatMessage(ctx, answer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChatRoleAssistant, got.Role)
	assert.Equal(t, "hi there", got.Content)
	assert.True(t, answer.Timestamp.Equal(got.Timestamp))

	history, err := s.ListChatMessages(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, question.ID, history[0].ID, "chat history is oldest-first")
	assert.Equal(t, answer.ID, history[1].ID)
}
