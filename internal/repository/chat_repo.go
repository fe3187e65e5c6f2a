package repository

import (
	"context"
	"fmt"

	"wellnest/internal/database"
	"wellnest/internal/models"
)

// ChatRepository handles stored chat turns
type ChatRepository struct {
	db    *database.DB
	clock *clock
}

// CreateChatMessage stores a chat turn stamped with the current time
func (r *ChatRepository) CreateChatMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	stored := *msg
	stored.Timestamp = r.clock.stamp()

	query := `
		INSERT INTO chat_messages (user_id, role, content, sent_at)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, stored.UserID, string(stored.Role), stored.Content, stored.Timestamp)
	if err != nil {
		return nil, mapError(r.db, err, "create chat message")
	}

	stored.ID = id
	return &stored, nil
}

// GetChatMessage retrieves a chat turn by ID
func (r *ChatRepository) GetChatMessage(ctx context.Context, id int64) (*models.ChatMessage, error) {
	query := `SELECT id, user_id, role, content, sent_at FROM chat_messages WHERE id = ?`

	var msg models.ChatMessage
	if err := scanChatMessage(r.db.QueryRowContext(ctx, query, id), &msg); err != nil {
		return nil, mapError(r.db, err, "chat message %d", id)
	}
	return &msg, nil
}

// ListChatMessages returns the user's conversation oldest-first
func (r *ChatRepository) ListChatMessages(ctx context.Context, userID int64) ([]models.ChatMessage, error) {
	query := `
		SELECT id, user_id, role, content, sent_at
		FROM chat_messages
		WHERE user_id = ?
		ORDER BY sent_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.ChatMessage, 0)
	for rows.Next() {
		var msg models.ChatMessage
		if err := scanChatMessage(rows, &msg); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func scanChatMessage(s scanner, msg *models.ChatMessage) error {
	var role string
	if err := s.Scan(&msg.ID, &msg.UserID, &role, &msg.Content, &msg.Timestamp); err != nil {
		return err
	}
	msg.Role = models.ChatRole(role)
	return nil
}
