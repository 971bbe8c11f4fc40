package postgres

import (
	"context"

	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/repository"
	"farmferia/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// chatRepository implements the domain.ChatRepository interface using GORM.
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository is the constructor for chatRepository.
func NewChatRepository(db *gorm.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

// Create persists a new chat message.
func (repo *chatRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	messageM := &model.ChatMessageModel{
		ID:         message.ID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Content:    message.Content,
		Read:       message.Read,
	}

	if err := repo.db.WithContext(ctx).Create(messageM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create chat message")
	}

	message.ID = messageM.ID
	message.CreatedAt = messageM.CreatedAt

	return nil
}

// ListConversation returns the messages exchanged between two accounts, oldest first.
func (repo *chatRepository) ListConversation(ctx context.Context, a, b uuid.UUID) ([]*entity.ChatMessage, error) {
	var messageMs []*model.ChatMessageModel
	if err := repo.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").
		Find(&messageMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list conversation")
	}

	messages := make([]*entity.ChatMessage, 0, len(messageMs))
	for _, messageM := range messageMs {
		messages = append(messages, &entity.ChatMessage{
			ID:         messageM.ID,
			SenderID:   messageM.SenderID,
			ReceiverID: messageM.ReceiverID,
			Content:    messageM.Content,
			Read:       messageM.Read,
			CreatedAt:  messageM.CreatedAt,
		})
	}

	return messages, nil
}

// MarkRead flags every message sent from sender to receiver as read.
func (repo *chatRepository) MarkRead(ctx context.Context, sender, receiver uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.ChatMessageModel{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", sender, receiver, false).
		Update("read", true).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to mark messages read")
	}

	return nil
}

// CountUnread counts the unread messages addressed to an account.
func (repo *chatRepository) CountUnread(ctx context.Context, receiver uuid.UUID) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ChatMessageModel{}).
		Where("receiver_id = ? AND read = ?", receiver, false).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count unread messages")
	}

	return count, nil
}
