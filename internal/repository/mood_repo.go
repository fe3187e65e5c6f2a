package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wellnest/internal/database"
	"wellnest/internal/models"
)

// MoodRepository handles database operations for mood entries
type MoodRepository struct {
	db    *database.DB
	clock *clock
}

// CreateMood inserts a mood entry stamped with the current time
func (r *MoodRepository) CreateMood(ctx context.Context, mood *models.Mood) (*models.Mood, error) {
	stored := *mood
	stored.Timestamp = r.clock.stamp()

	query := `
		INSERT INTO moods (user_id, mood, note, logged_at)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, stored.UserID, string(stored.Mood), stored.Note, stored.Timestamp)
	if err != nil {
		return nil, mapError(r.db, err, "create mood")
	}

	stored.ID = id
	return &stored, nil
}

// GetMood retrieves a mood entry by ID
func (r *MoodRepository) GetMood(ctx context.Context, id int64) (*models.Mood, error) {
	query := `SELECT id, user_id, mood, note, logged_at FROM moods WHERE id = ?`

	var mood models.Mood
	if err := scanMood(r.db.QueryRowContext(ctx, query, id), &mood); err != nil {
		return nil, mapError(r.db, err, "mood %d", id)
	}
	return &mood, nil
}

// ListMoods returns the user's moods newest-first
func (r *MoodRepository) ListMoods(ctx context.Context, userID int64) ([]models.Mood, error) {
	query := `
		SELECT id, user_id, mood, note, logged_at
		FROM moods
		WHERE user_id = ?
		ORDER BY logged_at DESC, id DESC
	`
	return r.list(ctx, query, userID)
}

// ListMoodsSince returns moods at or after since, oldest-first
func (r *MoodRepository) ListMoodsSince(ctx context.Context, userID int64, since time.Time) ([]models.Mood, error) {
	query := `
		SELECT id, user_id, mood, note, logged_at
		FROM moods
		WHERE user_id = ? AND logged_at >= ?
		ORDER BY logged_at ASC, id ASC
	`
	return r.list(ctx, query, userID, utc(since))
}

func (r *MoodRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Mood, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list moods: %w", err)
	}
	defer rows.Close()

	moods := make([]models.Mood, 0)
	for rows.Next() {
		var mood models.Mood
		if err := scanMood(rows, &mood); err != nil {
			return nil, fmt.Errorf("failed to scan mood: %w", err)
		}
		moods = append(moods, mood)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list moods: %w", err)
	}
	return moods, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

var _ scanner = (*sql.Row)(nil)

func scanMood(s scanner, mood *models.Mood) error {
	var label string
	if err := s.Scan(&mood.ID, &mood.UserID, &label, &mood.Note, &mood.Timestamp); err != nil {
		return err
	}
	mood.Mood = models.MoodLabel(label)
	return nil
}
