package repository

import (
	"context"
	"fmt"

	"wellnest/internal/database"
	"wellnest/internal/models"
)

// AchievementRepository handles the achievement catalog and unlock records
type AchievementRepository struct {
	db    *database.DB
	clock *clock
}

const achievementColumns = `id, name, description, icon, color_scheme, bonus_points, unlock_condition, created_at`

// CreateAchievement adds an achievement to the catalog
func (r *AchievementRepository) CreateAchievement(ctx context.Context, achievement *models.Achievement) (*models.Achievement, error) {
	stored := *achievement
	stored.CreatedAt = r.clock.stamp()

	query := `
		INSERT INTO achievements (name, description, icon, color_scheme, bonus_points, unlock_condition, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		stored.Name,
		stored.Description,
		stored.Icon,
		stored.ColorScheme,
		stored.BonusPoints,
		stored.Condition,
		stored.CreatedAt,
	)
	if err != nil {
		return nil, mapError(r.db, err, "create achievement %q", stored.Name)
	}

	stored.ID = id
	return &stored, nil
}

// GetAchievement retrieves a catalog achievement by ID
func (r *AchievementRepository) GetAchievement(ctx context.Context, id int64) (*models.Achievement, error) {
	var achievement models.Achievement
	row := r.db.QueryRowContext(ctx, `SELECT `+achievementColumns+` FROM achievements WHERE id = ?`, id)
	if err := scanAchievement(row, &achievement); err != nil {
		return nil, mapError(r.db, err, "achievement %d", id)
	}
	return &achievement, nil
}

// ListAchievements returns the catalog in ID order
func (r *AchievementRepository) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+achievementColumns+` FROM achievements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	achievements := make([]models.Achievement, 0)
	for rows.Next() {
		var achievement models.Achievement
		if err := scanAchievement(rows, &achievement); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, achievement)
	}
	return achievements, rows.Err()
}

// CreateUserAchievement stores an unlock record. The UNIQUE (user_id,
// achievement_id) constraint turns a second unlock into store.ErrDuplicate.
func (r *AchievementRepository) CreateUserAchievement(ctx context.Context, ua *models.UserAchievement) (*models.UserAchievement, error) {
	stored := *ua
	stored.UnlockedAt = r.clock.stamp()

	query := `
		INSERT INTO user_achievements (user_id, achievement_id, unlocked_at)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, stored.UserID, stored.AchievementID, stored.UnlockedAt)
	if err != nil {
		return nil, mapError(r.db, err, "user %d achievement %d", stored.UserID, stored.AchievementID)
	}

	stored.ID = id
	return &stored, nil
}

// ListUserAchievements returns the user's unlocks newest-first
func (r *AchievementRepository) ListUserAchievements(ctx context.Context, userID int64) ([]models.UserAchievement, error) {
	query := `
		SELECT id, user_id, achievement_id, unlocked_at
		FROM user_achievements
		WHERE user_id = ?
		ORDER BY unlocked_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlocks: %w", err)
	}
	defer rows.Close()

	records := make([]models.UserAchievement, 0)
	for rows.Next() {
		var ua models.UserAchievement
		if err := rows.Scan(&ua.ID, &ua.UserID, &ua.AchievementID, &ua.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unlock: %w", err)
		}
		records = append(records, ua)
	}
	return records, rows.Err()
}

func scanAchievement(s scanner, achievement *models.Achievement) error {
	return s.Scan(
		&achievement.ID,
		&achievement.Name,
		&achievement.Description,
		&achievement.Icon,
		&achievement.ColorScheme,
		&achievement.BonusPoints,
		&achievement.Condition,
		&achievement.CreatedAt,
	)
}
