package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellnest/internal/logger"
	"wellnest/internal/models"
	"wellnest/internal/progression"
	"wellnest/internal/store/memory"
)

func TestSeedInstallsDefaultsOnce(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	catalog := NewCatalogService(st, logger.NewNop())

	require.NoError(t, catalog.Seed(ctx))
	require.NoError(t, catalog.Seed(ctx))

	activities, err := catalog.ListActivities(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 6)
	assert.Equal(t, "Breathing Exercise", activities[0].Name)
	assert.Equal(t, models.ActivityBreathing, activities[0].Type)
	assert.Equal(t, 15, activities[0].Points)
	assert.Equal(t, "Mindful Walking", activities[5].Name)

	achievements, err := catalog.ListAchievements(ctx)
	require.NoError(t, err)
	require.Len(t, achievements, 5)
	assert.Equal(t, "First Steps", achievements[0].Name)
	assert.Equal(t, 50, achievements[0].BonusPoints)
}

func TestSeedConditionsParse(t *testing.T) {
	for _, a := range DefaultAchievements {
		t.Run(a.Name, func(t *testing.T) {
			_, err := progression.ParseCondition(a.Condition)
			assert.NoError(t, err)
		})
	}
}

func TestSeedSkipsPopulatedCatalog(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	_, err := st.CreateActivity(ctx, &models.Activity{Name: "Stretching", Type: "stretch", Points: 5})
	require.NoError(t, err)

	require.NoError(t, NewCatalogService(st, logger.NewNop()).Seed(ctx))

	activities, err := st.ListActivities(ctx)
	require.NoError(t, err)
	assert.Len(t, activities, 1)

	achievements, err := st.ListAchievements(ctx)
	require.NoError(t, err)
	assert.Len(t, achievements, len(DefaultAchievements), "achievements seed independently")
}

func TestFirstCompletionUnlocksFirstSteps(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	catalog := NewCatalogService(st, logger.NewNop())
	require.NoError(t, catalog.Seed(ctx))

	user, err := st.CreateUser(ctx, models.NewUser("river", "hash", "River", ""))
	require.NoError(t, err)

	prog := progression.NewService(st, logger.NewNop())
	activities, err := catalog.ListActivities(ctx)
	require.NoError(t, err)
	_, err = prog.CompleteActivity(ctx, user.ID, activities[2].ID)
	require.NoError(t, err)

	history, err := catalog.ListUserActivities(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, activities[2].ID, history[0].ActivityID)

	unlocks, err := catalog.ListUserAchievements(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, unlocks, 1)
	require.NotNil(t, unlocks[0].Achievement)
	assert.Equal(t, "First Steps", unlocks[0].Achievement.Name)
	assert.Equal(t, unlocks[0].AchievementID, unlocks[0].Achievement.ID)
}
