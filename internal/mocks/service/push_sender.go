package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockPushSender is a mock implementation of service.PushSender.
type MockPushSender struct {
	mock.Mock
}

// NewMockPushSender creates a mock tied to the test's lifecycle.
func NewMockPushSender(t *testing.T) *MockPushSender {
	m := &MockPushSender{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPushSender) SendBatch(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, int, []string, error) {
	args := m.Called(ctx, tokens, title, body, data)
	invalid, _ := args.Get(2).([]string)

	return args.Int(0), args.Int(1), invalid, args.Error(3)
}

func (m *MockPushSender) SendSingle(ctx context.Context, token, title, body string, data map[string]string) error {
	return m.Called(ctx, token, title, body, data).Error(0)
}
