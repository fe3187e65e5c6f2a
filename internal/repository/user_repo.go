package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wellnest/internal/database"
	"wellnest/internal/models"
	"wellnest/internal/store"
)

// UserRepository handles database operations for users and sessions
type UserRepository struct {
	db    *database.DB
	clock *clock
}

const userColumns = `id, username, password_hash, name, email, level, points, streak_days, best_streak, last_login, created_at`

// CreateUser inserts a new user. Usernames are unique, compared case-insensitively.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	stored := *user
	stored.CreatedAt = r.clock.stamp()
	if stored.Level < 1 {
		stored.Level = 1
	}

	query := `
		INSERT INTO users (username, username_key, password_hash, name, email, level, points, streak_days, best_streak, last_login, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		stored.Username,
		models.UsernameKey(stored.Username),
		stored.PasswordHash,
		stored.Name,
		stored.Email,
		stored.Level,
		stored.Points,
		stored.StreakDays,
		stored.BestStreak,
		nullTime(stored.LastLogin),
		stored.CreatedAt,
	)
	if err != nil {
		return nil, mapError(r.db, err, "create user %q", stored.Username)
	}

	stored.ID = id
	return &stored, nil
}

// GetUser retrieves a user by ID
func (r *UserRepository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapError(r.db, err, "user %d", id)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username, ignoring case
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username_key = ?`, models.UsernameKey(username))
	user, err := scanUser(row)
	if err != nil {
		return nil, mapError(r.db, err, "user %q", username)
	}
	return user, nil
}

// UpdateProgress writes the mutable progression fields of a user
func (r *UserRepository) UpdateProgress(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET level = ?, points = ?, streak_days = ?, best_streak = ?, last_login = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		user.Level,
		user.Points,
		user.StreakDays,
		user.BestStreak,
		nullTime(user.LastLogin),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d: %w", user.ID, store.ErrNotFound)
	}
	return nil
}

// CreateSession creates a new session for a user
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.clock.stamp()
	}

	query := `
		INSERT INTO sessions (id, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, session.ID, session.UserID, utc(session.ExpiresAt), utc(createdAt)); err != nil {
		return mapError(r.db, err, "create session")
	}
	return nil
}

// GetSession retrieves a session by ID
func (r *UserRepository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	query := `SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?`

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, mapError(r.db, err, "session")
	}
	return session, nil
}

// DeleteSession removes a session
func (r *UserRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired before now
func (r *UserRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, utc(now)); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Name,
		&user.Email,
		&user.Level,
		&user.Points,
		&user.StreakDays,
		&user.BestStreak,
		&lastLogin,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	return user, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: utc(*t), Valid: true}
}
