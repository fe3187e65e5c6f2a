package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// CSRFHeader carries the token on mutating requests
const CSRFHeader = "X-CSRF-Token"

// CSRFGenerator derives CSRF tokens from session IDs with HMAC-SHA256.
// No token state is kept, so any replica sharing the secret can validate.
type CSRFGenerator struct {
	secret []byte
}

// NewCSRFGenerator creates a generator keyed by secret. An empty secret
// gets a random per-process key, which invalidates tokens on restart.
func NewCSRFGenerator(secret string) (*CSRFGenerator, error) {
	if secret != "" {
		return &CSRFGenerator{secret: []byte(secret)}, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	return &CSRFGenerator{secret: key}, nil
}

// GenerateToken returns the CSRF token bound to sessionID
func (g *CSRFGenerator) GenerateToken(sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("session ID is required")
	}
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(sessionID))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// ValidateToken reports whether token is the valid CSRF token for sessionID
func (g *CSRFGenerator) ValidateToken(sessionID, token string) bool {
	if sessionID == "" || token == "" {
		return false
	}
	expected, err := g.GenerateToken(sessionID)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(token))
}
