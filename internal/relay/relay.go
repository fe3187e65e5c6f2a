// Package relay forwards chat messages to the externally hosted assistant
// webhook and extracts its reply.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wellnest/internal/models"
)

// ErrUpstreamUnavailable covers every way the webhook can fail to produce a reply
var ErrUpstreamUnavailable = errors.New("chat relay unavailable")

// DefaultReply is used when the webhook answers without any reply text
const DefaultReply = "I'm here to help with your mental health journey."

const (
	tokenIssuer  = "wellnest"
	tokenTTL     = time.Minute
	maxReplySize = 1 << 20
)

// Client posts messages to the chat webhook
type Client struct {
	url    string
	secret []byte
	http   *http.Client
	now    func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client; its timeout is left untouched
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock overrides the time source used for token claims
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a client for url. A non-empty secret signs each request
// with an HS256 bearer token.
func New(url, secret string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
		now:  time.Now,
	}
	if secret != "" {
		c.secret = []byte(secret)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a webhook URL is set
func (c *Client) Configured() bool {
	return c != nil && c.url != ""
}

type request struct {
	Message     string               `json:"message"`
	ChatHistory []models.ChatMessage `json:"chatHistory"`
}

type response struct {
	Response string `json:"response"`
	Message  string `json:"message"`
}

// Reply sends message with the user's history and returns the assistant's
// text. Any transport, status or decoding failure is reported as
// ErrUpstreamUnavailable.
func (c *Client) Reply(ctx context.Context, userID int64, message string, history []models.ChatMessage) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%w: webhook url not configured", ErrUpstreamUnavailable)
	}
	if history == nil {
		history = []models.ChatMessage{}
	}

	body, err := json.Marshal(request{Message: message, ChatHistory: history})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.secret != nil {
		token, err := c.sign(userID)
		if err != nil {
			return "", err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxReplySize))
		return "", fmt.Errorf("%w: webhook returned status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReplySize)).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode reply: %v", ErrUpstreamUnavailable, err)
	}

	switch {
	case decoded.Response != "":
		return decoded.Response, nil
	case decoded.Message != "":
		return decoded.Message, nil
	default:
		return DefaultReply, nil
	}
}

func (c *Client) sign(userID int64) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign relay token: %w", err)
	}
	return token, nil
}
