// Package progression turns user actions into derived progression state:
// point balances, login streaks and unlocked achievements.
package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wellnest/internal/logger"
	"wellnest/internal/models"
	"wellnest/internal/store"
)

var (
	// ErrInvalidAmount is returned when a spend amount is not positive
	ErrInvalidAmount = errors.New("invalid points amount")
	// ErrInsufficientPoints is returned when a spend exceeds the balance
	ErrInsufficientPoints = errors.New("not enough points available")
)

// Notifier is told about achievements right after they unlock
type Notifier interface {
	AchievementsUnlocked(ctx context.Context, user *models.User, achievements []models.Achievement) error
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source used for streak calculation
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone whose midnight separates calendar days
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithNotifier registers a receiver for unlock events
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithAchievementBonus credits each unlocked achievement's bonus points to
// the user's balance when enabled
func WithAchievementBonus(enabled bool) Option {
	return func(s *Service) { s.awardBonus = enabled }
}

// Service is the entry point for every progression state change. Mutations
// for a single user are serialized.
type Service struct {
	store      store.Store
	log        *logger.Logger
	locks      *userLocks
	rules      *ruleCache
	now        func() time.Time
	loc        *time.Location
	notifier   Notifier
	awardBonus bool
}

// NewService creates a progression service over the given store
func NewService(st store.Store, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		store: st,
		log:   log,
		locks: newUserLocks(),
		now:   time.Now,
		loc:   time.Local,
	}
	s.rules = newRuleCache(log)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompleteActivity records that userID finished activityID, credits the
// activity's points and unlocks any achievements the completion qualifies
// for. It returns the completion record.
//
// The steps are not transactional: if crediting or evaluation fails, the
// completion record remains and a retry records a second completion.
func (s *Service) CompleteActivity(ctx context.Context, userID, activityID int64) (*models.UserActivity, error) {
	activity, err := s.store.GetActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}

	completion, user, unlocked, err := s.completeLocked(ctx, userID, activity)
	if err != nil {
		return completion, err
	}

	s.log.Info("activity completed",
		"user_id", userID,
		"activity_id", activity.ID,
		"points", activity.Points,
		"balance", user.Points,
		"unlocked", len(unlocked),
	)
	s.notify(ctx, user, unlocked)

	return completion, nil
}

func (s *Service) completeLocked(ctx context.Context, userID int64, activity *models.Activity) (*models.UserActivity, *models.User, []models.Achievement, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, nil, nil, fmt.Errorf("get user: %w", err)
	}

	completion, err := s.store.CreateUserActivity(ctx, &models.UserActivity{
		UserID:     userID,
		ActivityID: activity.ID,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("record completion: %w", err)
	}

	user, err := s.applyPointsDelta(ctx, userID, activity.Points)
	if err != nil {
		return completion, nil, nil, err
	}

	unlocked, err := s.evaluate(ctx, userID, activity)
	if err != nil {
		return completion, nil, nil, err
	}

	if len(unlocked) > 0 && s.awardBonus {
		// evaluate may have credited bonus points
		if user, err = s.store.GetUser(ctx, userID); err != nil {
			return completion, nil, nil, fmt.Errorf("reload user: %w", err)
		}
	}

	return completion, user, unlocked, nil
}

// SpendPoints deducts amount from the user's balance after checking that
// the balance covers it. The check and the deduction happen atomically
// with respect to other progression updates for the same user.
func (s *Service) SpendPoints(ctx context.Context, userID int64, amount int) (*models.User, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.Points < amount {
		return nil, ErrInsufficientPoints
	}

	return s.applyPointsDelta(ctx, userID, -amount)
}

func (s *Service) notify(ctx context.Context, user *models.User, unlocked []models.Achievement) {
	if s.notifier == nil || len(unlocked) == 0 {
		return
	}
	if err := s.notifier.AchievementsUnlocked(ctx, user, unlocked); err != nil {
		s.log.Warn("achievement notification failed", "user_id", user.ID, "error", err)
	}
}
