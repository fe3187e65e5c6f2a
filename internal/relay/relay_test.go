package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellnest/internal/models"
)

func TestReplyPostsMessageAndHistory(t *testing.T) {
	var got request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"response":"Take a slow breath."}`))
	}))
	defer server.Close()

	history := []models.ChatMessage{{ID: 1, UserID: 7, Role: models.ChatRoleUser, Content: "hi"}}
	reply, err := New(server.URL, "", time.Second).Reply(context.Background(), 7, "hi", history)
	require.NoError(t, err)

	assert.Equal(t, "Take a slow breath.", reply)
	assert.Equal(t, "hi", got.Message)
	require.Len(t, got.ChatHistory, 1)
	assert.Equal(t, models.ChatRoleUser, got.ChatHistory[0].Role)
}

func TestReplyTextSelection(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"response field", `{"response":"a","message":"b"}`, "a"},
		{"message field", `{"message":"b"}`, "b"},
		{"neither", `{"other":"c"}`, DefaultReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			reply, err := New(server.URL, "", time.Second).Reply(context.Background(), 1, "hello", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply)
		})
	}
}

func TestReplyFailuresAreUpstreamUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>oops</html>"))
		}},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{"response":"late"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := New(server.URL, "", 50*time.Millisecond).Reply(context.Background(), 1, "hello", nil)
			assert.True(t, errors.Is(err, ErrUpstreamUnavailable), "got %v", err)
		})
	}
}

func TestReplyUnconfigured(t *testing.T) {
	client := New("", "", time.Second)
	assert.False(t, client.Configured())

	_, err := client.Reply(context.Background(), 1, "hello", nil)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
}

func TestReplySignsRequests(t *testing.T) {
	const secret = "webhook-secret"
	now := time.Now()

	var claims jwt.RegisteredClaims
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		require.True(t, ok, "missing bearer token")

		_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		require.NoError(t, err)

		w.Write([]byte(`{"response":"ok"}`))
	}))
	defer server.Close()

	client := New(server.URL, secret, time.Second, WithClock(func() time.Time { return now }))
	_, err := client.Reply(context.Background(), 42, "hello", nil)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, now.Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
}
