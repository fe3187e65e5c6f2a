package service

import (
	"context"
	"fmt"

	"wellnest/internal/logger"
	"wellnest/internal/models"
	"wellnest/internal/store"
)

// DefaultActivities is the activity catalog installed into an empty store
var DefaultActivities = []models.Activity{
	{Name: "Breathing Exercise", Description: "5-minute guided breathing to reduce anxiety", Type: models.ActivityBreathing, Points: 15, Icon: "fa-wind", ColorScheme: "secondary", Duration: 5},
	{Name: "Quick Meditation", Description: "10-minute guided meditation for focus", Type: models.ActivityMeditation, Points: 25, Icon: "fa-spa", ColorScheme: "primary", Duration: 10},
	{Name: "Gratitude Journal", Description: "Write 3 things you're grateful for today", Type: models.ActivityJournal, Points: 20, Icon: "fa-pen-to-square", ColorScheme: "accent", Duration: 5},
	{Name: "Morning Affirmations", Description: "Start your day with positive self-talk", Type: models.ActivityAffirmation, Points: 10, Icon: "fa-sun", ColorScheme: "warning", Duration: 3},
	{Name: "Progressive Muscle Relaxation", Description: "Release tension from head to toe", Type: models.ActivityRelaxation, Points: 30, Icon: "fa-dumbbell", ColorScheme: "success", Duration: 15},
	{Name: "Mindful Walking", Description: "10-minute walking meditation outdoors", Type: models.ActivityWalking, Points: 25, Icon: "fa-walking", ColorScheme: "info", Duration: 10},
}

// DefaultAchievements is the achievement catalog installed into an empty store
var DefaultAchievements = []models.Achievement{
	{Name: "First Steps", Description: "Complete your first activity", Icon: "fa-baby", ColorScheme: "primary", BonusPoints: 50, Condition: "any_1_sessions"},
	{Name: "Weekly Warrior", Description: "Complete 7 activities in one week", Icon: "fa-calendar-week", ColorScheme: "success", BonusPoints: 100, Condition: "any_7_days"},
	{Name: "Consistency Champion", Description: "Maintain a 14-day streak", Icon: "fa-trophy", ColorScheme: "warning", BonusPoints: 200, Condition: "login_14_streak"},
	{Name: "Breathing Expert", Description: "Complete 10 breathing exercises", Icon: "fa-wind", ColorScheme: "info", BonusPoints: 150, Condition: "breathing_10_sessions"},
	{Name: "Mindfulness Master", Description: "Complete 5 meditation sessions", Icon: "fa-spa", ColorScheme: "secondary", BonusPoints: 175, Condition: "meditation_5_days"},
}

// CatalogService serves and seeds the activity and achievement catalogs
type CatalogService struct {
	store store.Store
	log   *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(st store.Store, log *logger.Logger) *CatalogService {
	return &CatalogService{store: st, log: log}
}

// Seed installs the default catalogs. Each catalog is seeded only when it
// is empty, so restarting against a populated store changes nothing.
func (s *CatalogService) Seed(ctx context.Context) error {
	activities, err := s.store.ListActivities(ctx)
	if err != nil {
		return fmt.Errorf("failed to list activities: %w", err)
	}
	if len(activities) == 0 {
		for i := range DefaultActivities {
			activity := DefaultActivities[i]
			if _, err := s.store.CreateActivity(ctx, &activity); err != nil {
				return fmt.Errorf("failed to seed activity %q: %w", activity.Name, err)
			}
		}
		s.log.Info("seeded activities", "count", len(DefaultActivities))
	}

	achievements, err := s.store.ListAchievements(ctx)
	if err != nil {
		return fmt.Errorf("failed to list achievements: %w", err)
	}
	if len(achievements) == 0 {
		for i := range DefaultAchievements {
			achievement := DefaultAchievements[i]
			if _, err := s.store.CreateAchievement(ctx, &achievement); err != nil {
				return fmt.Errorf("failed to seed achievement %q: %w", achievement.Name, err)
			}
		}
		s.log.Info("seeded achievements", "count", len(DefaultAchievements))
	}

	return nil
}

// ListActivities returns the activity catalog
func (s *CatalogService) ListActivities(ctx context.Context) ([]models.Activity, error) {
	activities, err := s.store.ListActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// ListAchievements returns the achievement catalog
func (s *CatalogService) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	achievements, err := s.store.ListAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return achievements, nil
}

// ListUserAchievements returns the user's unlocks, newest first, each joined
// to its catalog entry
func (s *CatalogService) ListUserAchievements(ctx context.Context, userID int64) ([]models.UserAchievementWithDetails, error) {
	unlocks, err := s.store.ListUserAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user achievements: %w", err)
	}

	details := make([]models.UserAchievementWithDetails, 0, len(unlocks))
	for _, ua := range unlocks {
		achievement, err := s.store.GetAchievement(ctx, ua.AchievementID)
		if err != nil {
			return nil, fmt.Errorf("failed to get achievement %d: %w", ua.AchievementID, err)
		}
		details = append(details, models.UserAchievementWithDetails{
			UserAchievement: ua,
			Achievement:     achievement,
		})
	}
	return details, nil
}

// ListUserActivities returns the user's completions, newest first
func (s *CatalogService) ListUserActivities(ctx context.Context, userID int64) ([]models.UserActivity, error) {
	history, err := s.store.ListUserActivities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user activities: %w", err)
	}
	return history, nil
}
