package models

import (
	"strings"
	"time"
)

// User represents a registered account and its progression state
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Level        int        `json:"level"`
	Points       int        `json:"points"`
	StreakDays   int        `json:"streakDays"`
	BestStreak   int        `json:"bestStreak"`
	LastLogin    *time.Time `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// NewUser returns a user with the starting progression values
func NewUser(username, passwordHash, name, email string) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Name:         name,
		Email:        email,
		Level:        1,
	}
}

// UsernameKey folds a username for uniqueness checks and lookups
func UsernameKey(username string) string {
	return strings.ToLower(username)
}

// Session represents an authenticated session
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
