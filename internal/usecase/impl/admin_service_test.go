package impl

import (
	"context"
	"testing"

	"farmferia/internal/domain/entity"
	"farmferia/internal/domain/repository"
	mockRepo "farmferia/internal/mocks/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminService_Stats_ReadsInsideOneTransaction(t *testing.T) {
	txManager := mockRepo.NewMockTransactionManager(t)
	profileRepo := mockRepo.NewMockProfileRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	orderRepo := mockRepo.NewMockOrderRepository(t)
	svc := &adminService{txManager: txManager}

	ctx := context.Background()
	factory := &mockRepo.StubRepositoryFactory{
		ProfileRepository: profileRepo,
		ProductRepository: productRepo,
		OrderRepository:   orderRepo,
	}

	profileRepo.On("CountByRole", ctx, entity.RoleBuyer).Return(int64(12), nil)
	profileRepo.On("CountByRole", ctx, entity.RoleSeller).Return(int64(4), nil)
	productRepo.On("Count", ctx, repository.ProductFilter{}).Return(int64(30), nil)
	productRepo.On("Count", ctx, repository.ProductFilter{Status: entity.ProductPending}).Return(int64(3), nil)
	orderRepo.On("Count", ctx).Return(int64(50), nil)
	orderRepo.On("TotalRevenue", ctx).Return(1234.5, nil)

	txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(repository.RepositoryFactory) error)
			require.NoError(t, fn(factory))
		}).
		Return(nil)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.Buyers)
	assert.Equal(t, int64(4), stats.Sellers)
	assert.Equal(t, int64(30), stats.Products)
	assert.Equal(t, int64(3), stats.PendingProducts)
	assert.Equal(t, int64(50), stats.Orders)
	assert.Equal(t, 1234.5, stats.Revenue)
}

func TestAdminService_Stats_TransactionFailure(t *testing.T) {
	txManager := mockRepo.NewMockTransactionManager(t)
	svc := &adminService{txManager: txManager}
	ctx := context.Background()

	txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Return(errors.New("begin failed"))

	_, err := svc.Stats(ctx)
	assert.Error(t, err)
}
