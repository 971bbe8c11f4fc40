package impl

import (
	"context"
	"testing"

	domainerrors "farmferia/internal/domain/errors"
	mockRepo "farmferia/internal/mocks/repository"
	mockSvc "farmferia/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newChatFixture(t *testing.T) (*chatService, *mockRepo.MockChatRepository, *mockSvc.RecordingChangeFeed, *mockSvc.RecordingNotifier) {
	chatRepo := mockRepo.NewMockChatRepository(t)
	feed := mockSvc.NewRecordingChangeFeed(t)
	notifier := mockSvc.NewRecordingNotifier(t)
	svc := &chatService{chatRepo: chatRepo, feed: feed, notifier: notifier}

	return svc, chatRepo, feed, notifier
}

func TestChatService_SendMessage(t *testing.T) {
	svc, chatRepo, feed, notifier := newChatFixture(t)
	ctx := context.Background()
	senderID := uuid.New()
	receiverID := uuid.New()

	chatRepo.On("Create", ctx, mock.AnythingOfType("*entity.ChatMessage")).Return(nil)

	message, err := svc.SendMessage(ctx, senderID, receiverID, "  Are the tomatoes still available?  ")
	require.NoError(t, err)
	assert.Equal(t, "Are the tomatoes still available?", message.Content)
	assert.False(t, message.Read)

	require.Len(t, feed.Published(), 1)
	assert.Equal(t, "chat_messages", feed.Published()[0].Table)
	require.Len(t, notifier.Sent(), 1)
	assert.Equal(t, receiverID.String(), notifier.Sent()[0].UserID)
}

func TestChatService_SendMessage_Validation(t *testing.T) {
	svc, _, _, _ := newChatFixture(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := svc.SendMessage(ctx, id, uuid.New(), "   ")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = svc.SendMessage(ctx, id, id, "hello me")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestChatService_GetConversation_MarksRead(t *testing.T) {
	svc, chatRepo, _, _ := newChatFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	otherID := uuid.New()

	chatRepo.On("ListConversation", ctx, userID, otherID).Return(nil, nil)
	chatRepo.On("MarkRead", ctx, otherID, userID).Return(nil)

	_, err := svc.GetConversation(ctx, userID, otherID)
	require.NoError(t, err)
}
