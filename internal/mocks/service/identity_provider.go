// Package service provides hand-written testify mocks for the domain
// service interfaces.
package service

import (
	"context"
	"testing"

	"farmferia/internal/domain/entity"
	"farmferia/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockIdentityProvider is a mock implementation of service.IdentityProvider.
type MockIdentityProvider struct {
	mock.Mock
}

// NewMockIdentityProvider creates a mock tied to the test's lifecycle.
func NewMockIdentityProvider(t *testing.T) *MockIdentityProvider {
	m := &MockIdentityProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockIdentityProvider) Authenticate(ctx context.Context, email, password string) (*entity.Session, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(*entity.Session)

	return session, args.Error(1)
}

func (m *MockIdentityProvider) Register(ctx context.Context, input service.RegisterInput) (*entity.Session, error) {
	args := m.Called(ctx, input)
	session, _ := args.Get(0).(*entity.Session)

	return session, args.Error(1)
}

func (m *MockIdentityProvider) Refresh(ctx context.Context, refreshToken string) (*entity.Session, error) {
	args := m.Called(ctx, refreshToken)
	session, _ := args.Get(0).(*entity.Session)

	return session, args.Error(1)
}

func (m *MockIdentityProvider) Invalidate(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *MockIdentityProvider) OnSessionChange(fn func(service.SessionEvent)) func() {
	args := m.Called(fn)
	unsubscribe, _ := args.Get(0).(func())
	if unsubscribe == nil {
		unsubscribe = func() {}
	}

	return unsubscribe
}
