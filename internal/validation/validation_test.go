package validation

import (
	"errors"
	"strings"
	"testing"

	"wellnest/internal/models"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid", email: "river@example.com", wantErr: false},
		{name: "subdomain", email: "river@mail.example.com", wantErr: false},
		{name: "plus tag", email: "river+wellnest@example.com", wantErr: false},
		{name: "missing @", email: "riverexample.com", wantErr: true},
		{name: "missing domain", email: "river@", wantErr: true},
		{name: "missing local part", email: "@example.com", wantErr: true},
		{name: "empty", email: "", wantErr: true},
		{name: "space inside", email: "river @example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "full name", input: "River Song", wantErr: false},
		{name: "single letter", input: "R", wantErr: false},
		{name: "hyphen and apostrophe", input: "Mary-Jane O'Brien", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "too long", input: strings.Repeat("n", MaxNameLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword(strings.Repeat("p", MinPasswordLength)); err != nil {
		t.Errorf("minimum length password rejected: %v", err)
	}

	err := ValidatePassword(strings.Repeat("p", MinPasswordLength-1))
	var verr ValidationError
	if !errors.As(err, &verr) || verr.Field != "password" {
		t.Errorf("short password error = %v, want a password ValidationError", err)
	}

	if err := ValidatePassword(""); err == nil {
		t.Error("empty password accepted")
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "valid", username: "river", wantErr: false},
		{name: "minimum length", username: "abc", wantErr: false},
		{name: "too short", username: "ab", wantErr: true},
		{name: "too long", username: strings.Repeat("a", 33), wantErr: true},
		{name: "punctuation allowed", username: "sky.walker_99-x", wantErr: false},
		{name: "space inside", username: "sky walker", wantErr: true},
		{name: "empty", username: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOptionalEmail(t *testing.T) {
	if err := ValidateOptionalEmail(""); err != nil {
		t.Errorf("empty email should be accepted, got %v", err)
	}
	if err := ValidateOptionalEmail("not-an-email"); err == nil {
		t.Error("malformed email should be rejected")
	}
}

func TestValidateMood(t *testing.T) {
	tests := []struct {
		name    string
		label   models.MoodLabel
		note    string
		wantErr bool
	}{
		{name: "valid without note", label: models.MoodCalm, wantErr: false},
		{name: "valid with note", label: models.MoodSad, note: "long day", wantErr: false},
		{name: "unknown label", label: "ecstatic", wantErr: true},
		{name: "note too long", label: models.MoodHappy, note: strings.Repeat("x", MaxNoteLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMood(tt.label, tt.note)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMood() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChatMessage(t *testing.T) {
	if err := ValidateChatMessage("hello"); err != nil {
		t.Errorf("ValidateChatMessage() error = %v", err)
	}

	err := ValidateChatMessage("   ")
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "message" {
		t.Errorf("Field = %q, want message", verr.Field)
	}

	if err := ValidateChatMessage(strings.Repeat("x", MaxMessageLength+1)); err == nil {
		t.Error("oversized message should be rejected")
	}
}
