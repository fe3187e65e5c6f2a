// Package repository implements store.Store on top of the dialect-aware
// SQL layer in internal/database.
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wellnest/internal/database"
	"wellnest/internal/store"
)

// Store bundles the per-entity repositories into a store.Store
type Store struct {
	*UserRepository
	*MoodRepository
	*ActivityRepository
	*AchievementRepository
	*ChatRepository
}

var _ store.Store = (*Store)(nil)

// Option configures the repositories created by NewStore
type Option func(*clock)

// WithClock overrides the source of server-assigned timestamps
func WithClock(now func() time.Time) Option {
	return func(c *clock) { c.now = now }
}

// NewStore creates every repository over one database handle
func NewStore(db *database.DB, opts ...Option) *Store {
	c := &clock{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return &Store{
		UserRepository:        &UserRepository{db: db, clock: c},
		MoodRepository:        &MoodRepository{db: db, clock: c},
		ActivityRepository:    &ActivityRepository{db: db, clock: c},
		AchievementRepository: &AchievementRepository{db: db, clock: c},
		ChatRepository:        &ChatRepository{db: db, clock: c},
	}
}

// clock hands out timestamps in UTC at microsecond precision, the finest
// resolution every supported database keeps
type clock struct {
	now func() time.Time
}

func (c *clock) stamp() time.Time {
	return utc(c.now())
}

func utc(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// mapError translates driver errors into store sentinels
func mapError(db *database.DB, err error, format string, args ...interface{}) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf(format+": %w", append(args, store.ErrNotFound)...)
	case db.Dialect.IsUniqueViolation(err):
		return fmt.Errorf(format+": %w", append(args, store.ErrDuplicate)...)
	default:
		return fmt.Errorf(format+": %w", append(args, err)...)
	}
}
