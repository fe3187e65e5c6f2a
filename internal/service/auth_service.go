package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wellnest/internal/logger"
	"wellnest/internal/models"
	"wellnest/internal/security"
	"wellnest/internal/store"
	"wellnest/internal/validation"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrBadUsername        = errors.New("username contains a disallowed word")
)

// WordFilter reports whether text contains a disallowed word
type WordFilter interface {
	ContainsBadWord(ctx context.Context, text string) (bool, error)
}

// StreakToucher records a login against the user's streak
type StreakToucher interface {
	TouchLogin(ctx context.Context, userID int64) (*models.User, error)
}

// WelcomeSender greets newly registered users
type WelcomeSender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
}

// RegisterInput carries the fields accepted at sign-up
type RegisterInput struct {
	Username string
	Password string
	Name     string
	Email    string
}

// AuthService handles authentication business logic
type AuthService struct {
	store           store.Store
	streaks         StreakToucher
	log             *logger.Logger
	sessionDuration time.Duration
	filter          WordFilter
	welcome         WelcomeSender
	now             func() time.Time
}

// AuthOption configures an AuthService
type AuthOption func(*AuthService)

// WithWordFilter rejects usernames the filter flags
func WithWordFilter(f WordFilter) AuthOption {
	return func(s *AuthService) { s.filter = f }
}

// WithWelcomeSender sends a welcome email after registration
func WithWelcomeSender(w WelcomeSender) AuthOption {
	return func(s *AuthService) { s.welcome = w }
}

// WithAuthClock overrides the time source used for session expiry
func WithAuthClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// NewAuthService creates a new auth service
func NewAuthService(st store.Store, streaks StreakToucher, log *logger.Logger, sessionDuration time.Duration, opts ...AuthOption) *AuthService {
	s := &AuthService{
		store:           st,
		streaks:         streaks,
		log:             log,
		sessionDuration: sessionDuration,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account, signs it in and counts the sign-in toward
// the login streak
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.Session, *models.User, error) {
	username := strings.TrimSpace(input.Username)
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)

	if err := validation.ValidateUsername(username); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateOptionalEmail(email); err != nil {
		return nil, nil, err
	}

	if s.filter != nil {
		bad, err := s.filter.ContainsBadWord(ctx, username)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check username: %w", err)
		}
		if bad {
			return nil, nil, ErrBadUsername
		}
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, models.NewUser(username, passwordHash, name, email))
	if errors.Is(err, store.ErrDuplicate) {
		return nil, nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, user, err := s.startSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if s.welcome != nil && user.Email != "" {
		if err := s.welcome.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
			s.log.Warn("welcome email failed", "user_id", user.ID, "error", err)
		}
	}

	s.log.Info("user registered", "user_id", user.ID)
	return session, user, nil
}

// Login authenticates a user, creates a session and advances the login streak
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, *models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := security.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*models.Session, *models.User, error) {
	now := s.now()
	session := &models.Session{
		ID:        security.GenerateSessionID(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionDuration),
		CreatedAt: now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	touched, err := s.streaks.TouchLogin(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record login: %w", err)
	}

	return session, touched, nil
}

// ValidateSession checks if a session is valid and returns the associated user
func (s *AuthService) ValidateSession(ctx context.Context, sessionID string) (*models.User, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.store.GetSession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		_ = s.store.DeleteSession(ctx, sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the store
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) error {
	if err := s.store.DeleteExpiredSessions(ctx, s.now()); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}
