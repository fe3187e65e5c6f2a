package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"wellnest/internal/database"
	"wellnest/internal/logger"
	"wellnest/internal/models"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupService handles database backup and restore operations
type BackupService struct {
	db  *database.DB
	log *logger.Logger
	now func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, log *logger.Logger) *BackupService {
	return &BackupService{db: db, log: log, now: time.Now}
}

// BackupData represents the complete database backup. Sessions are not
// exported, and neither is the downloaded bad-word list.
type BackupData struct {
	Version          string                   `json:"version"`
	ExportedAt       time.Time                `json:"exportedAt"`
	DatabaseType     string                   `json:"databaseType"`
	Users            []UserBackup             `json:"users"`
	Activities       []models.Activity        `json:"activities"`
	Achievements     []models.Achievement     `json:"achievements"`
	Moods            []models.Mood            `json:"moods"`
	UserActivities   []models.UserActivity    `json:"userActivities"`
	UserAchievements []models.UserAchievement `json:"userAchievements"`
	ChatMessages     []models.ChatMessage     `json:"chatMessages"`
}

// UserBackup carries the password hash, which models.User keeps out of JSON
type UserBackup struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

// tablesInDeleteOrder lists tables children first
var tablesInDeleteOrder = []string{
	"chat_messages",
	"user_achievements",
	"user_activities",
	"moods",
	"sessions",
	"achievements",
	"activities",
	"users",
}

// Export writes the database to a JSON file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}
	return file.Close()
}

// ExportToWriter writes the database as JSON to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	backup := &BackupData{
		Version:      BackupVersion,
		ExportedAt:   s.now().UTC(),
		DatabaseType: s.db.Dialect.DriverName(),
	}

	steps := []struct {
		name string
		fn   func(context.Context, *BackupData) error
	}{
		{"users", s.exportUsers},
		{"activities", s.exportActivities},
		{"achievements", s.exportAchievements},
		{"moods", s.exportMoods},
		{"user activities", s.exportUserActivities},
		{"user achievements", s.exportUserAchievements},
		{"chat messages", s.exportChatMessages},
	}
	for _, step := range steps {
		if err := step.fn(ctx, backup); err != nil {
			return fmt.Errorf("failed to export %s: %w", step.name, err)
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.log.Info("database exported",
		"users", len(backup.Users),
		"activities", len(backup.Activities),
		"achievements", len(backup.Achievements),
		"moods", len(backup.Moods),
		"user_activities", len(backup.UserActivities),
		"user_achievements", len(backup.UserAchievements),
		"chat_messages", len(backup.ChatMessages),
	)
	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string, clear bool) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file, clear)
}

// ImportFromReader restores a database from a JSON backup. With clear set,
// existing rows are deleted first. The restore runs in one transaction.
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader, clear bool) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	s.log.Info("importing backup", "version", backup.Version, "exported_at", backup.ExportedAt, "source", backup.DatabaseType)

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if clear {
			if err := clearTables(ctx, tx); err != nil {
				return err
			}
		}
		return importAll(ctx, tx, &backup)
	})
	if err != nil {
		return err
	}

	if err := s.resetSequences(ctx); err != nil {
		return fmt.Errorf("failed to reset id sequences: %w", err)
	}

	s.log.Info("database import completed")
	return nil
}

// Clear deletes every row the backup covers, plus sessions
func (s *BackupService) Clear(ctx context.Context) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		return clearTables(ctx, tx)
	})
}

func clearTables(ctx context.Context, q database.DBTX) error {
	for _, table := range tablesInDeleteOrder {
		if _, err := q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// resetSequences moves id counters past the imported ids on engines whose
// counters ignore explicit ids.
func (s *BackupService) resetSequences(ctx context.Context) error {
	for _, table := range tablesInDeleteOrder {
		if table == "sessions" {
			continue
		}
		query := s.db.Dialect.ResetSequenceQuery(table)
		if query == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
	}
	return nil
}

func importAll(ctx context.Context, q database.DBTX, backup *BackupData) error {
	for _, u := range backup.Users {
		_, err := q.ExecContext(ctx, `
			INSERT INTO users (id, username, username_key, password_hash, name, email, level, points, streak_days, best_streak, last_login, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			u.ID, u.Username, models.UsernameKey(u.Username), u.PasswordHash, u.Name, u.Email,
			u.Level, u.Points, u.StreakDays, u.BestStreak, nullableTime(u.LastLogin), u.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to import user %d: %w", u.ID, err)
		}
	}

	for _, a := range backup.Activities {
		_, err := q.ExecContext(ctx, `
			INSERT INTO activities (id, name, description, type, points, icon, color_scheme, duration, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.Description, string(a.Type), a.Points, a.Icon, a.ColorScheme, a.Duration, a.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to import activity %d: %w", a.ID, err)
		}
	}

	for _, a := range backup.Achievements {
		_, err := q.ExecContext(ctx, `
			INSERT INTO achievements (id, name, description, icon, color_scheme, bonus_points, unlock_condition, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.Description, a.Icon, a.ColorScheme, a.BonusPoints, a.Condition, a.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to import achievement %d: %w", a.ID, err)
		}
	}

	for _, m := range backup.Moods {
		_, err := q.ExecContext(ctx,
			`INSERT INTO moods (id, user_id, mood, note, logged_at) VALUES (?, ?, ?, ?, ?)`,
			m.ID, m.UserID, string(m.Mood), m.Note, m.Timestamp.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to import mood %d: %w", m.ID, err)
		}
	}

	for _, ua := range backup.UserActivities {
		_, err := q.ExecContext(ctx,
			`INSERT INTO user_activities (id, user_id, activity_id, completed_at) VALUES (?, ?, ?, ?)`,
			ua.ID, ua.UserID, ua.ActivityID, ua.CompletedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to import user activity %d: %w", ua.ID, err)
		}
	}

	for _, ua := range backup.UserAchievements {
		_, err := q.ExecContext(ctx,
			`INSERT INTO user_achievements (id, user_id, achievement_id, unlocked_at) VALUES (?, ?, ?, ?)`,
			ua.ID, ua.UserID, ua.AchievementID, ua.UnlockedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to import user achievement %d: %w", ua.ID, err)
		}
	}

	for _, m := range backup.ChatMessages {
		_, err := q.ExecContext(ctx,
			`INSERT INTO chat_messages (id, user_id, role, content, sent_at) VALUES (?, ?, ?, ?, ?)`,
			m.ID, m.UserID, string(m.Role), m.Content, m.Timestamp.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to import chat message %d: %w", m.ID, err)
		}
	}

	return nil
}

func (s *BackupService) exportUsers(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, password_hash, name, email, level, points, streak_days, best_streak, last_login, created_at
		FROM users ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		var lastLogin sql.NullTime
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Email, &u.Level, &u.Points,
			&u.StreakDays, &u.BestStreak, &lastLogin, &u.CreatedAt); err != nil {
			return err
		}
		if lastLogin.Valid {
			t := lastLogin.Time.UTC()
			u.LastLogin = &t
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportActivities(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, type, points, icon, color_scheme, duration, created_at
		FROM activities ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Type, &a.Points, &a.Icon, &a.ColorScheme, &a.Duration, &a.CreatedAt); err != nil {
			return err
		}
		backup.Activities = append(backup.Activities, a)
	}
	return rows.Err()
}

func (s *BackupService) exportAchievements(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, icon, color_scheme, bonus_points, unlock_condition, created_at
		FROM achievements ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.ColorScheme, &a.BonusPoints, &a.Condition, &a.CreatedAt); err != nil {
			return err
		}
		backup.Achievements = append(backup.Achievements, a)
	}
	return rows.Err()
}

func (s *BackupService) exportMoods(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, mood, note, logged_at FROM moods ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Mood
		if err := rows.Scan(&m.ID, &m.UserID, &m.Mood, &m.Note, &m.Timestamp); err != nil {
			return err
		}
		backup.Moods = append(backup.Moods, m)
	}
	return rows.Err()
}

func (s *BackupService) exportUserActivities(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, activity_id, completed_at FROM user_activities ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ua models.UserActivity
		if err := rows.Scan(&ua.ID, &ua.UserID, &ua.ActivityID, &ua.CompletedAt); err != nil {
			return err
		}
		backup.UserActivities = append(backup.UserActivities, ua)
	}
	return rows.Err()
}

func (s *BackupService) exportUserAchievements(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, achievement_id, unlocked_at FROM user_achievements ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ua models.UserAchievement
		if err := rows.Scan(&ua.ID, &ua.UserID, &ua.AchievementID, &ua.UnlockedAt); err != nil {
			return err
		}
		backup.UserAchievements = append(backup.UserAchievements, ua)
	}
	return rows.Err()
}

func (s *BackupService) exportChatMessages(ctx context.Context, backup *BackupData) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, user_id, role, content, sent_at FROM chat_messages ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return err
		}
		backup.ChatMessages = append(backup.ChatMessages, m)
	}
	return rows.Err()
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
