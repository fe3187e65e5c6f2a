package repository

import (
	"context"
	"fmt"

	"wellnest/internal/database"
	"wellnest/internal/models"
)

// ActivityRepository handles the activity catalog and completion records
type ActivityRepository struct {
	db    *database.DB
	clock *clock
}

const activityColumns = `id, name, description, type, points, icon, color_scheme, duration, created_at`

// CreateActivity adds an activity to the catalog
func (r *ActivityRepository) CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	stored := *activity
	stored.CreatedAt = r.clock.stamp()

	query := `
		INSERT INTO activities (name, description, type, points, icon, color_scheme, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		stored.Name,
		stored.Description,
		string(stored.Type),
		stored.Points,
		stored.Icon,
		stored.ColorScheme,
		stored.Duration,
		stored.CreatedAt,
	)
	if err != nil {
		return nil, mapError(r.db, err, "create activity %q", stored.Name)
	}

	stored.ID = id
	return &stored, nil
}

// GetActivity retrieves a catalog activity by ID
func (r *ActivityRepository) GetActivity(ctx context.Context, id int64) (*models.Activity, error) {
	var activity models.Activity
	row := r.db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	if err := scanActivity(row, &activity); err != nil {
		return nil, mapError(r.db, err, "activity %d", id)
	}
	return &activity, nil
}

// ListActivities returns the catalog in ID order
func (r *ActivityRepository) ListActivities(ctx context.Context) ([]models.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+activityColumns+` FROM activities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := make([]models.Activity, 0)
	for rows.Next() {
		var activity models.Activity
		if err := scanActivity(rows, &activity); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

// CreateUserActivity stores a completion record
func (r *ActivityRepository) CreateUserActivity(ctx context.Context, ua *models.UserActivity) (*models.UserActivity, error) {
	stored := *ua
	stored.CompletedAt = r.clock.stamp()

	query := `
		INSERT INTO user_activities (user_id, activity_id, completed_at)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, stored.UserID, stored.ActivityID, stored.CompletedAt)
	if err != nil {
		return nil, mapError(r.db, err, "record completion of activity %d", stored.ActivityID)
	}

	stored.ID = id
	return &stored, nil
}

// GetUserActivity retrieves a completion record by ID
func (r *ActivityRepository) GetUserActivity(ctx context.Context, id int64) (*models.UserActivity, error) {
	query := `SELECT id, user_id, activity_id, completed_at FROM user_activities WHERE id = ?`

	var ua models.UserActivity
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ua.ID, &ua.UserID, &ua.ActivityID, &ua.CompletedAt)
	if err != nil {
		return nil, mapError(r.db, err, "user activity %d", id)
	}
	return &ua, nil
}

// ListUserActivities returns the user's completions newest-first
func (r *ActivityRepository) ListUserActivities(ctx context.Context, userID int64) ([]models.UserActivity, error) {
	query := `
		SELECT id, user_id, activity_id, completed_at
		FROM user_activities
		WHERE user_id = ?
		ORDER BY completed_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer rows.Close()

	records := make([]models.UserActivity, 0)
	for rows.Next() {
		var ua models.UserActivity
		if err := rows.Scan(&ua.ID, &ua.UserID, &ua.ActivityID, &ua.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		records = append(records, ua)
	}
	return records, rows.Err()
}

func scanActivity(s scanner, activity *models.Activity) error {
	var activityType string
	err := s.Scan(
		&activity.ID,
		&activity.Name,
		&activity.Description,
		&activityType,
		&activity.Points,
		&activity.Icon,
		&activity.ColorScheme,
		&activity.Duration,
		&activity.CreatedAt,
	)
	if err != nil {
		return err
	}
	activity.Type = models.ActivityType(activityType)
	return nil
}
