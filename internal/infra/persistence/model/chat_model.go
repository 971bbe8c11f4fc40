package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessageModel mirrors the 'chat_messages' table.
type ChatMessageModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_pair"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_pair"`
	Content    string    `gorm:"type:text;not null"`
	Read       bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (ChatMessageModel) TableName() string {
	return "chat_messages"
}
