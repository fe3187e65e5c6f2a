package progression

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellnest/internal/logger"
	"wellnest/internal/models"
)

func TestBreathingAchievementUnlocksOnFifthCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	breathing := f.activity(t, models.ActivityBreathing, 15)
	expert := f.achievement(t, "Breathing Pro", "breathing_5_sessions", 150)

	for i := 1; i <= 4; i++ {
		_, err := f.service.CompleteActivity(ctx, f.user.ID, breathing.ID)
		require.NoError(t, err)
	}
	unlocks, err := f.store.ListUserAchievements(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, unlocks, "four completions must not unlock")

	_, err = f.service.CompleteActivity(ctx, f.user.ID, breathing.ID)
	require.NoError(t, err)
	unlocks, err = f.store.ListUserAchievements(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, unlocks, 1)
	assert.Equal(t, expert.ID, unlocks[0].AchievementID)

	_, err = f.service.CompleteActivity(ctx, f.user.ID, breathing.ID)
	require.NoError(t, err)
	unlocks, err = f.store.ListUserAchievements(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, unlocks, 1, "sixth completion must not re-trigger")

	assert.Equal(t, 6*15, f.reload(t).Points, "bonus points are not credited by default")
}

func TestEvaluateReturnsNewlyUnlocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	breathing := f.activity(t, models.ActivityBreathing, 15)
	expert := f.achievement(t, "Breathing Pro", "breathing_2_sessions", 150)

	for i := 0; i < 2; i++ {
		_, err := f.store.CreateUserActivity(ctx, &models.UserActivity{UserID: f.user.ID, ActivityID: breathing.ID})
		require.NoError(t, err)
	}

	unlocked, err := f.service.EvaluateAfterCompletion(ctx, f.user.ID, breathing)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, expert.ID, unlocked[0].ID)

	again, err := f.service.EvaluateAfterCompletion(ctx, f.user.ID, breathing)
	require.NoError(t, err)
	assert.Empty(t, again, "re-evaluation without new completions is a no-op")

	unlocks, err := f.store.ListUserAchievements(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, unlocks, 1)
}

func TestEvaluateCountsByActivityType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	boxBreathing := f.activity(t, models.ActivityBreathing, 10)
	deepBreathing := f.activity(t, models.ActivityBreathing, 20)
	journal := f.activity(t, models.ActivityJournal, 20)
	f.achievement(t, "Breather", "breathing_3_sessions", 0)

	_, err := f.service.CompleteActivity(ctx, f.user.ID, boxBreathing.ID)
	require.NoError(t, err)
	_, err = f.service.CompleteActivity(ctx, f.user.ID, journal.ID)
	require.NoError(t, err)
	_, err = f.service.CompleteActivity(ctx, f.user.ID, deepBreathing.ID)
	require.NoError(t, err)

	unlocks, err := f.store.ListUserAchievements(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, unlocks, "journal completion must not count toward breathing")

	_, err = f.service.CompleteActivity(ctx, f.user.ID, deepBreathing.ID)
	require.NoError(t, err)
	unlocks, err = f.store.ListUserAchievements(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, unlocks, 1, "both breathing activities count toward the type")
}

func TestDaysConditionCountsCompletions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	meditation := f.activity(t, models.ActivityMeditation, 25)
	master := f.achievement(t, "Mindfulness Master", "meditation_5_days", 175)

	// all five completions happen on the same calendar day
	for i := 0; i < 5; i++ {
		_, err := f.store.CreateUserActivity(ctx, &models.UserActivity{UserID: f.user.ID, ActivityID: meditation.ID})
		require.NoError(t, err)
	}
	unlocked, err := f.service.EvaluateAfterCompletion(ctx, f.user.ID, meditation)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, master.ID, unlocked[0].ID)
}

func TestAnyAndStreakConditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	walking := f.activity(t, models.ActivityWalking, 25)
	firstSteps := f.achievement(t, "First Steps", "any_1_sessions", 50)
	champion := f.achievement(t, "Consistency Champion", "login_3_streak", 200)

	completion, err := f.service.CompleteActivity(ctx, f.user.ID, walking.ID)
	require.NoError(t, err)
	require.NotNil(t, completion)

	unlocks, err := f.store.ListUserAchievements(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, unlocks, 1)
	assert.Equal(t, firstSteps.ID, unlocks[0].AchievementID)

	user := f.reload(t)
	user.BestStreak = 3
	user.StreakDays = 3
	require.NoError(t, f.store.UpdateProgress(ctx, user))

	unlocked, err := f.service.EvaluateAfterCompletion(ctx, f.user.ID, walking)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, champion.ID, unlocked[0].ID)
}

func TestMalformedConditionNeverUnlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	breathing := f.activity(t, models.ActivityBreathing, 15)
	f.achievement(t, "Broken", "breathing_lots", 10)
	f.achievement(t, "Unconditioned", "", 10)
	require.NoError(t, f.service.Preload(ctx))

	for i := 0; i < 3; i++ {
		_, err := f.service.CompleteActivity(ctx, f.user.ID, breathing.ID)
		require.NoError(t, err)
	}

	unlocks, err := f.store.ListUserAchievements(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, unlocks)
}

func TestAchievementBonusCreditedWhenEnabled(t *testing.T) {
	f := newFixture(t, WithAchievementBonus(true))
	ctx := context.Background()

	journal := f.activity(t, models.ActivityJournal, 20)
	f.achievement(t, "First Steps", "any_1_sessions", 50)

	_, err := f.service.CompleteActivity(ctx, f.user.ID, journal.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, f.reload(t).Points)

	_, err = f.service.CompleteActivity(ctx, f.user.ID, journal.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, f.reload(t).Points, "bonus is credited once")
}

func TestRuleCacheReparsesChangedCondition(t *testing.T) {
	cache := newRuleCache(logger.NewNop())

	achievement := models.Achievement{ID: 1, Condition: "breathing_5_sessions"}
	rule, ok := cache.get(achievement)
	require.True(t, ok)
	assert.Equal(t, 5, rule.Threshold)

	achievement.Condition = "breathing_7_sessions"
	rule, ok = cache.get(achievement)
	require.True(t, ok)
	assert.Equal(t, 7, rule.Threshold)
}
