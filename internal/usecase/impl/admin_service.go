package impl

import (
	"context"

	"farmferia/internal/domain/entity"
	"farmferia/internal/domain/repository"
	"farmferia/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// adminService implements the AdminUsecase interface.
type adminService struct {
	txManager repository.TransactionManager
}

// AdminServiceParams holds dependencies for AdminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
}

// NewAdminService is the constructor for adminService.
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{txManager: params.TxManager}
}

// Stats gathers the dashboard counters inside one transaction so a write
// landing between two counts cannot skew the snapshot.
func (srv *adminService) Stats(ctx context.Context) (*usecase.MarketplaceStats, error) {
	stats := &usecase.MarketplaceStats{}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.NewProfileRepository()
		productRepo := repoFactory.NewProductRepository()
		orderRepo := repoFactory.NewOrderRepository()

		var err error
		if stats.Buyers, err = profileRepo.CountByRole(ctx, entity.RoleBuyer); err != nil {
			return errors.Wrap(err, "failed to count buyers")
		}
		if stats.Sellers, err = profileRepo.CountByRole(ctx, entity.RoleSeller); err != nil {
			return errors.Wrap(err, "failed to count sellers")
		}
		if stats.Products, err = productRepo.Count(ctx, repository.ProductFilter{}); err != nil {
			return errors.Wrap(err, "failed to count products")
		}
		pendingFilter := repository.ProductFilter{Status: entity.ProductPending}
		if stats.PendingProducts, err = productRepo.Count(ctx, pendingFilter); err != nil {
			return errors.Wrap(err, "failed to count pending products")
		}
		if stats.Orders, err = orderRepo.Count(ctx); err != nil {
			return errors.Wrap(err, "failed to count orders")
		}
		if stats.Revenue, err = orderRepo.TotalRevenue(ctx); err != nil {
			return errors.Wrap(err, "failed to sum revenue")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect marketplace stats")
	}

	return stats, nil
}
