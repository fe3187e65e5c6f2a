package progression

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wellnest/internal/logger"
	"wellnest/internal/models"
	"wellnest/internal/store/memory"
)

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	store   *memory.Store
	service *Service
	clock   *fakeClock
	user    *models.User
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	clock := &fakeClock{now: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)}
	st := memory.New()
	opts = append([]Option{WithClock(clock.Now), WithLocation(time.UTC)}, opts...)
	svc := NewService(st, logger.NewNop(), opts...)

	user, err := st.CreateUser(context.Background(), models.NewUser("river", "hash", "River", ""))
	require.NoError(t, err)

	return &fixture{store: st, service: svc, clock: clock, user: user}
}

func (f *fixture) activity(t *testing.T, activityType models.ActivityType, points int) *models.Activity {
	t.Helper()
	activity, err := f.store.CreateActivity(context.Background(), &models.Activity{
		Name:   string(activityType) + " activity",
		Type:   activityType,
		Points: points,
	})
	require.NoError(t, err)
	return activity
}

func (f *fixture) achievement(t *testing.T, name, condition string, bonus int) *models.Achievement {
	t.Helper()
	achievement, err := f.store.CreateAchievement(context.Background(), &models.Achievement{
		Name:        name,
		BonusPoints: bonus,
		Condition:   condition,
	})
	require.NoError(t, err)
	return achievement
}

func (f *fixture) reload(t *testing.T) *models.User {
	t.Helper()
	user, err := f.store.GetUser(context.Background(), f.user.ID)
	require.NoError(t, err)
	return user
}

// recordingNotifier captures unlock notifications
type recordingNotifier struct {
	mu    sync.Mutex
	calls [][]models.Achievement
	err   error
}

func (n *recordingNotifier) AchievementsUnlocked(_ context.Context, _ *models.User, achievements []models.Achievement) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, achievements)
	return n.err
}
