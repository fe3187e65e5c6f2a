package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellnest/internal/logger"
	"wellnest/internal/models"
	"wellnest/internal/relay"
	"wellnest/internal/store/memory"
	"wellnest/internal/validation"
)

type stubReplier struct {
	reply   string
	err     error
	history [][]models.ChatMessage
}

func (r *stubReplier) Reply(_ context.Context, _ int64, _ string, history []models.ChatMessage) (string, error) {
	r.history = append(r.history, history)
	return r.reply, r.err
}

func TestChatSendStoresBothTurns(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	replier := &stubReplier{reply: "Take a slow breath with me."}
	chat := NewChatService(st, replier, logger.NewNop())

	answer, err := chat.Send(ctx, 7, "I feel tense")
	require.NoError(t, err)
	assert.Equal(t, models.ChatRoleAssistant, answer.Role)
	assert.Equal(t, "Take a slow breath with me.", answer.Content)
	assert.Equal(t, int64(7), answer.UserID)

	require.Len(t, replier.history, 1)
	require.Len(t, replier.history[0], 1, "history includes the message just sent")
	assert.Equal(t, "I feel tense", replier.history[0][0].Content)

	history, err := chat.History(ctx, 7)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.ChatRoleUser, history[0].Role)
	assert.Equal(t, answer.ID, history[1].ID)
}

func TestChatSendFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		replier Replier
	}{
		{"upstream unavailable", &stubReplier{err: fmt.Errorf("%w: status 502", relay.ErrUpstreamUnavailable)}},
		{"unexpected error", &stubReplier{err: errors.New("boom")}},
		{"no replier", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := memory.New()
			chat := NewChatService(st, tt.replier, logger.NewNop())

			answer, err := chat.Send(ctx, 1, "hello")
			require.NoError(t, err)
			assert.Equal(t, FallbackReply, answer.Content)

			stored, err := st.GetChatMessage(ctx, answer.ID)
			require.NoError(t, err)
			assert.Equal(t, FallbackReply, stored.Content)
		})
	}
}

func TestChatSendRejectsBlank(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	replier := &stubReplier{reply: "hi"}
	chat := NewChatService(st, replier, logger.NewNop())

	_, err := chat.Send(ctx, 1, "   ")
	var verr validation.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "message", verr.Field)

	history, err := chat.History(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, replier.history)
}

func TestChatSendWithUnconfiguredRelay(t *testing.T) {
	chat := NewChatService(memory.New(), relay.New("", "", 0), logger.NewNop())

	answer, err := chat.Send(context.Background(), 1, "hello")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, answer.Content)
}
