package impl

import (
	"context"
	"strings"
	"time"

	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/repository"
	"farmferia/internal/domain/service"
	"farmferia/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const chatTable = "chat_messages"

// chatService implements the ChatUsecase interface.
type chatService struct {
	chatRepo repository.ChatRepository
	feed     service.ChangeFeed
	notifier service.Notifier
}

// ChatServiceParams holds dependencies for ChatService, injected by Fx.
type ChatServiceParams struct {
	fx.In

	ChatRepo repository.ChatRepository
	Feed     service.ChangeFeed
	Notifier service.Notifier
}

// NewChatService is the constructor for chatService.
func NewChatService(params ChatServiceParams) usecase.ChatUsecase {
	return &chatService{
		chatRepo: params.ChatRepo,
		feed:     params.Feed,
		notifier: params.Notifier,
	}
}

// SendMessage persists a message, fans it out, and pings the receiver.
func (srv *chatService) SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*entity.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("message content is empty")
	}
	if senderID == receiverID {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("cannot message yourself")
	}

	message := &entity.ChatMessage{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  time.Now(),
	}

	if err := srv.chatRepo.Create(ctx, message); err != nil {
		return nil, errors.Wrap(err, "failed to store chat message")
	}

	srv.feed.Publish(service.ChangeEvent{
		Table:    chatTable,
		Op:       service.ChangeInsert,
		RecordID: message.ID.String(),
		Payload: map[string]string{
			"sender_id":   senderID.String(),
			"receiver_id": receiverID.String(),
		},
	})
	srv.notifier.Notify(ctx, receiverID.String(), service.Notification{
		Severity: service.SeverityInfo,
		Title:    "New message",
		Message:  content,
		Data:     map[string]string{"sender_id": senderID.String()},
	})

	return message, nil
}

// GetConversation returns both directions of a conversation and marks the
// messages addressed to userID as read.
func (srv *chatService) GetConversation(ctx context.Context, userID, otherID uuid.UUID) ([]*entity.ChatMessage, error) {
	messages, err := srv.chatRepo.ListConversation(ctx, userID, otherID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load conversation")
	}

	if err := srv.chatRepo.MarkRead(ctx, otherID, userID); err != nil {
		return nil, errors.Wrap(err, "failed to mark conversation read")
	}

	return messages, nil
}

// UnreadCount counts unread messages addressed to an account.
func (srv *chatService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := srv.chatRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count unread messages")
	}

	return count, nil
}
