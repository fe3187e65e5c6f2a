package progression

import (
	"context"
	"fmt"
	"time"

	"wellnest/internal/models"
)

// TouchLogin records a login event and advances the user's streak.
//
// A login on the calendar day after the previous one extends the streak, a
// second login on the same day leaves it alone, and anything else (a gap of
// two or more days, or no previous login) restarts it at 1. Days are split
// at midnight in the service's location.
func (s *Service) TouchLogin(ctx context.Context, userID int64) (*models.User, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	now := s.now().In(s.loc)
	user.StreakDays = nextStreak(user.StreakDays, user.LastLogin, now)
	if user.StreakDays > user.BestStreak {
		user.BestStreak = user.StreakDays
	}
	user.LastLogin = &now

	if err := s.store.UpdateProgress(ctx, user); err != nil {
		return nil, fmt.Errorf("update streak: %w", err)
	}

	return user, nil
}

// nextStreak computes the streak after a login at now, whose location
// defines the day boundaries
func nextStreak(current int, lastLogin *time.Time, now time.Time) int {
	if lastLogin == nil {
		return 1
	}

	last := lastLogin.In(now.Location())
	switch {
	case sameDay(last, now.AddDate(0, 0, -1)):
		return current + 1
	case sameDay(last, now):
		return current
	default:
		return 1
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
