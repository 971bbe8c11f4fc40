package usecase

import (
	"context"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
)

// ChatUsecase defines the interface for buyer/seller messaging.
type ChatUsecase interface {
	// SendMessage persists a message and fans it out on the change feed.
	SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*entity.ChatMessage, error)

	// GetConversation returns the messages between two accounts, oldest first,
	// and marks the messages addressed to userID as read.
	GetConversation(ctx context.Context, userID, otherID uuid.UUID) ([]*entity.ChatMessage, error)

	// UnreadCount counts unread messages addressed to an account.
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}
