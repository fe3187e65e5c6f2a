package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wellnest/internal/models"
	"wellnest/internal/store"
	"wellnest/internal/validation"
)

// weeklyWindow is how far back the weekly mood view reaches
const weeklyWindow = 7 * 24 * time.Hour

// MoodService records and reads mood log entries
type MoodService struct {
	store store.Store
	now   func() time.Time
}

// NewMoodService creates a new mood service
func NewMoodService(st store.Store) *MoodService {
	return &MoodService{store: st, now: time.Now}
}

// Create logs a mood for the user. The timestamp is assigned by the store.
func (s *MoodService) Create(ctx context.Context, userID int64, label models.MoodLabel, note string) (*models.Mood, error) {
	note = strings.TrimSpace(note)
	if err := validation.ValidateMood(label, note); err != nil {
		return nil, err
	}

	mood, err := s.store.CreateMood(ctx, &models.Mood{
		UserID: userID,
		Mood:   label,
		Note:   note,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mood: %w", err)
	}
	return mood, nil
}

// List returns every mood the user has logged, newest first
func (s *MoodService) List(ctx context.Context, userID int64) ([]models.Mood, error) {
	moods, err := s.store.ListMoods(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list moods: %w", err)
	}
	return moods, nil
}

// Weekly returns the moods logged in the last seven days, oldest first
func (s *MoodService) Weekly(ctx context.Context, userID int64) ([]models.Mood, error) {
	moods, err := s.store.ListMoodsSince(ctx, userID, s.now().Add(-weeklyWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly moods: %w", err)
	}
	return moods, nil
}
