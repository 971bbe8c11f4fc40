package repository

import (
	"context"
	"testing"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCredentialRepository is a mock implementation of repository.CredentialRepository.
type MockCredentialRepository struct {
	mock.Mock
}

// NewMockCredentialRepository creates a mock tied to the test's lifecycle.
func NewMockCredentialRepository(t *testing.T) *MockCredentialRepository {
	m := &MockCredentialRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCredentialRepository) FindByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	args := m.Called(ctx, email)
	credential, _ := args.Get(0).(*entity.Credential)

	return credential, args.Error(1)
}

func (m *MockCredentialRepository) FindByPrincipalID(ctx context.Context, id uuid.UUID) (*entity.Credential, error) {
	args := m.Called(ctx, id)
	credential, _ := args.Get(0).(*entity.Credential)

	return credential, args.Error(1)
}

func (m *MockCredentialRepository) Create(ctx context.Context, credential *entity.Credential) error {
	return m.Called(ctx, credential).Error(0)
}

func (m *MockCredentialRepository) Update(ctx context.Context, credential *entity.Credential) error {
	return m.Called(ctx, credential).Error(0)
}
