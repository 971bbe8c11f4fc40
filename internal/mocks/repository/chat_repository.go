package repository

import (
	"context"
	"testing"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockChatRepository is a mock implementation of repository.ChatRepository.
type MockChatRepository struct {
	mock.Mock
}

// NewMockChatRepository creates a mock tied to the test's lifecycle.
func NewMockChatRepository(t *testing.T) *MockChatRepository {
	m := &MockChatRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockChatRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockChatRepository) ListConversation(ctx context.Context, a, b uuid.UUID) ([]*entity.ChatMessage, error) {
	args := m.Called(ctx, a, b)
	messages, _ := args.Get(0).([]*entity.ChatMessage)

	return messages, args.Error(1)
}

func (m *MockChatRepository) MarkRead(ctx context.Context, sender, receiver uuid.UUID) error {
	return m.Called(ctx, sender, receiver).Error(0)
}

func (m *MockChatRepository) CountUnread(ctx context.Context, receiver uuid.UUID) (int64, error) {
	args := m.Called(ctx, receiver)

	return args.Get(0).(int64), args.Error(1)
}
