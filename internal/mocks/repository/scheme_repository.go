package repository

import (
	"context"
	"testing"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSchemeRepository is a mock implementation of repository.SchemeRepository.
type MockSchemeRepository struct {
	mock.Mock
}

// NewMockSchemeRepository creates a mock tied to the test's lifecycle.
func NewMockSchemeRepository(t *testing.T) *MockSchemeRepository {
	m := &MockSchemeRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSchemeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.GovernmentScheme, error) {
	args := m.Called(ctx, id)
	scheme, _ := args.Get(0).(*entity.GovernmentScheme)

	return scheme, args.Error(1)
}

func (m *MockSchemeRepository) Create(ctx context.Context, scheme *entity.GovernmentScheme) error {
	return m.Called(ctx, scheme).Error(0)
}

func (m *MockSchemeRepository) Update(ctx context.Context, scheme *entity.GovernmentScheme) error {
	return m.Called(ctx, scheme).Error(0)
}

func (m *MockSchemeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSchemeRepository) List(ctx context.Context) ([]*entity.GovernmentScheme, error) {
	args := m.Called(ctx)
	schemes, _ := args.Get(0).([]*entity.GovernmentScheme)

	return schemes, args.Error(1)
}
