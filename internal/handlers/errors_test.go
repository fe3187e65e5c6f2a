package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"wellnest/internal/logger"
	"wellnest/internal/progression"
	"wellnest/internal/service"
	"wellnest/internal/store"
	"wellnest/internal/validation"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, logger.NewNop(), 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
	if body := decodeError(t, recorder); body.Message != "Teapot" {
		t.Fatalf("expected message 'Teapot', got %q", body.Message)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	log := logger.FromZap(zap.New(core))

	recorder := httptest.NewRecorder()
	respondWithError(recorder, log, 500, ErrInternalServerError, "", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	if entries[0].Message != ErrInternalServerError {
		t.Fatalf("expected log to use the user message, got %q", entries[0].Message)
	}
	if got := entries[0].ContextMap()["error"]; got != "boom" {
		t.Fatalf("expected log to include error, got %v", got)
	}
}

func TestRespondWithServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		field   string
	}{
		{"validation", validation.ValidationError{Field: "mood", Message: "bad mood"}, http.StatusBadRequest, "bad mood", "mood"},
		{"not found", fmt.Errorf("get activity: %w", store.ErrNotFound), http.StatusNotFound, ErrNotFound, ""},
		{"invalid amount", progression.ErrInvalidAmount, http.StatusBadRequest, ErrInvalidPoints, ""},
		{"insufficient points", progression.ErrInsufficientPoints, http.StatusBadRequest, ErrNotEnoughPoints, ""},
		{"username taken", service.ErrUsernameTaken, http.StatusConflict, ErrUsernameTaken, ""},
		{"bad username", service.ErrBadUsername, http.StatusBadRequest, ErrBadUsername, "username"},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, ErrInvalidCredentials, ""},
		{"expired session", service.ErrSessionExpired, http.StatusUnauthorized, ErrUnauthorized, ""},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, ErrInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondWithServiceError(rec, logger.NewNop(), "", tt.err)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.field, body.Field)
		})
	}
}
