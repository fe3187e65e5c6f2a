// Package validation checks user-supplied input before it reaches services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"wellnest/internal/models"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
	MinPasswordLength = 6
	MaxNameLength     = 100
	MaxNoteLength     = 500
	MaxMessageLength  = 2000
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateUsername checks length and the allowed character set
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ValidationError{Field: "username", Message: "username is required"}
	}
	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		return ValidationError{Field: "username", Message: fmt.Sprintf("username must be %d-%d characters", MinUsernameLength, MaxUsernameLength)}
	}
	if !usernameRegex.MatchString(username) {
		return ValidationError{Field: "username", Message: "username may contain only letters, digits, '.', '_' and '-'"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < MinPasswordLength {
		return ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	}
	return nil
}

// ValidateName checks the display name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", MaxNameLength)}
	}
	return nil
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateOptionalEmail accepts an empty address
func ValidateOptionalEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	return ValidateEmail(email)
}

// ValidateMood checks the label and the optional note
func ValidateMood(label models.MoodLabel, note string) error {
	if !label.IsValid() {
		return ValidationError{Field: "mood", Message: fmt.Sprintf("mood must be one of %v", models.MoodLabels)}
	}
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return ValidationError{Field: "note", Message: fmt.Sprintf("note must be at most %d characters", MaxNoteLength)}
	}
	return nil
}

// ValidateChatMessage rejects blank or oversized messages
func ValidateChatMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return ValidationError{Field: "message", Message: "message is required"}
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return ValidationError{Field: "message", Message: fmt.Sprintf("message must be at most %d characters", MaxMessageLength)}
	}
	return nil
}
