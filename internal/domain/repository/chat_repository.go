package repository

import (
	"context"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
)

// ChatRepository defines the operations for chat message persistence.
type ChatRepository interface {
	// Create persists a new chat message.
	Create(ctx context.Context, message *entity.ChatMessage) error

	// ListConversation returns the messages exchanged between two accounts, oldest first.
	ListConversation(ctx context.Context, a, b uuid.UUID) ([]*entity.ChatMessage, error)

	// MarkRead flags every message sent from sender to receiver as read.
	MarkRead(ctx context.Context, sender, receiver uuid.UUID) error

	// CountUnread counts the unread messages addressed to an account.
	CountUnread(ctx context.Context, receiver uuid.UUID) (int64, error)
}
