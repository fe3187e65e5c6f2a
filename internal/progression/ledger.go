package progression

import (
	"context"
	"fmt"

	"wellnest/internal/models"
)

// ApplyPointsDelta adds delta to the user's balance and returns the updated
// user. Negative deltas are not bounds checked: a delta larger than the
// balance drives it below zero, so callers spending points must check first
// (see SpendPoints).
func (s *Service) ApplyPointsDelta(ctx context.Context, userID int64, delta int) (*models.User, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	return s.applyPointsDelta(ctx, userID, delta)
}

func (s *Service) applyPointsDelta(ctx context.Context, userID int64, delta int) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.Points += delta
	if err := s.store.UpdateProgress(ctx, user); err != nil {
		return nil, fmt.Errorf("update points: %w", err)
	}

	return user, nil
}
