package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one message exchanged between two principals, typically a
// buyer asking a seller about a listing.
type ChatMessage struct {
	ID         uuid.UUID
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Content    string
	Read       bool
	CreatedAt  time.Time
}
