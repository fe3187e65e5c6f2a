package service

import (
	"context"

	"wellnest/internal/logger"
	"wellnest/internal/models"
)

// PointsPerToken is the conversion rate from points to wellness tokens
const PointsPerToken = 100

// PointsSpender deducts points after checking the balance covers them
type PointsSpender interface {
	SpendPoints(ctx context.Context, userID int64, amount int) (*models.User, error)
}

// Conversion is the outcome of turning points into tokens
type Conversion struct {
	User            *models.User `json:"user"`
	PointsConverted int          `json:"pointsConverted"`
	Tokens          float64      `json:"tokens"`
}

// RewardsService converts points into tokens. No tokens are issued on any
// ledger: the conversion is a points spend plus the computed token amount.
type RewardsService struct {
	spender PointsSpender
	log     *logger.Logger
}

// NewRewardsService creates a new rewards service
func NewRewardsService(spender PointsSpender, log *logger.Logger) *RewardsService {
	return &RewardsService{spender: spender, log: log}
}

// Convert spends points from the user's balance. It fails with
// progression.ErrInvalidAmount for non-positive amounts and
// progression.ErrInsufficientPoints when the balance is short.
func (s *RewardsService) Convert(ctx context.Context, userID int64, points int) (*Conversion, error) {
	user, err := s.spender.SpendPoints(ctx, userID, points)
	if err != nil {
		return nil, err
	}

	tokens := float64(points) / PointsPerToken
	s.log.Info("points converted", "user_id", userID, "points", points, "balance", user.Points)

	return &Conversion{
		User:            user,
		PointsConverted: points,
		Tokens:          tokens,
	}, nil
}
