package repository

import (
	"context"
	"testing"

	"farmferia/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// MockTransactionManager is a mock implementation of repository.TransactionManager.
type MockTransactionManager struct {
	mock.Mock
}

// NewMockTransactionManager creates a mock tied to the test's lifecycle.
func NewMockTransactionManager(t *testing.T) *MockTransactionManager {
	m := &MockTransactionManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return m.Called(ctx, fn).Error(0)
}

// StubRepositoryFactory hands out preset repositories, standing in for a
// transaction-bound factory in tests.
type StubRepositoryFactory struct {
	ProfileRepository repository.ProfileRepository
	ProductRepository repository.ProductRepository
	OrderRepository   repository.OrderRepository
}

func (f *StubRepositoryFactory) NewProfileRepository() repository.ProfileRepository {
	return f.ProfileRepository
}

func (f *StubRepositoryFactory) NewProductRepository() repository.ProductRepository {
	return f.ProductRepository
}

func (f *StubRepositoryFactory) NewOrderRepository() repository.OrderRepository {
	return f.OrderRepository
}
