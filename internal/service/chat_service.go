package service

import (
	"context"
	"fmt"

	"wellnest/internal/logger"
	"wellnest/internal/models"
	"wellnest/internal/store"
	"wellnest/internal/validation"
)

// FallbackReply is stored as the assistant's answer when the chat agent
// cannot be reached
const FallbackReply = "I'm having trouble connecting right now. Could you try sending your message again?"

// Replier produces the assistant's answer to a message given the prior turns
type Replier interface {
	Reply(ctx context.Context, userID int64, message string, history []models.ChatMessage) (string, error)
}

// ChatService stores the conversation and relays messages to the agent
type ChatService struct {
	store   store.Store
	replier Replier
	log     *logger.Logger
}

// NewChatService creates a new chat service. A nil replier answers every
// message with FallbackReply.
func NewChatService(st store.Store, replier Replier, log *logger.Logger) *ChatService {
	return &ChatService{store: st, replier: replier, log: log}
}

// Send stores the user's message, asks the agent for a reply and stores
// that reply. Agent failures are absorbed: the fallback text is stored and
// returned instead.
func (s *ChatService) Send(ctx context.Context, userID int64, message string) (*models.ChatMessage, error) {
	if err := validation.ValidateChatMessage(message); err != nil {
		return nil, err
	}

	if _, err := s.store.CreateChatMessage(ctx, &models.ChatMessage{
		UserID:  userID,
		Role:    models.ChatRoleUser,
		Content: message,
	}); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	history, err := s.store.ListChatMessages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	reply := FallbackReply
	if s.replier != nil {
		answer, err := s.replier.Reply(ctx, userID, message, history)
		if err != nil {
			s.log.Warn("chat relay failed", "user_id", userID, "error", err)
		} else {
			reply = answer
		}
	}

	assistant, err := s.store.CreateChatMessage(ctx, &models.ChatMessage{
		UserID:  userID,
		Role:    models.ChatRoleAssistant,
		Content: reply,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save reply: %w", err)
	}
	return assistant, nil
}

// History returns the user's conversation, oldest first
func (s *ChatService) History(ctx context.Context, userID int64) ([]models.ChatMessage, error) {
	history, err := s.store.ListChatMessages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	return history, nil
}
