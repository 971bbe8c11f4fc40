package postgres

import (
	"context"

	"farmferia/internal/domain/entity"
	domainerrors "farmferia/internal/domain/errors"
	"farmferia/internal/domain/repository"
	"farmferia/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the domain.OrderRepository interface using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// CreateHeader persists the order row without its items.
func (repo *orderRepository) CreateHeader(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create order header")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// InsertItems persists the item rows for an already created order.
func (repo *orderRepository) InsertItems(ctx context.Context, orderID uuid.UUID, items []entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	itemMs := make([]model.OrderItemModel, 0, len(items))
	for _, item := range items {
		itemMs = append(itemMs, model.OrderItemModel{
			OrderID:     orderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	if err := repo.db.WithContext(ctx).Create(&itemMs).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to insert order items")
	}

	return nil
}

// FindByID retrieves an order together with its items.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// ListByBuyer returns the orders placed by a buyer, newest first.
func (repo *orderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.Order, error) {
	return repo.list(ctx, "buyer_id = ?", buyerID)
}

// ListBySeller returns the orders addressed to a seller, newest first.
func (repo *orderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Order, error) {
	return repo.list(ctx, "seller_id = ?", sellerID)
}

func (repo *orderRepository) list(ctx context.Context, cond string, arg any) ([]*entity.Order, error) {
	var orderMs []*model.OrderModel
	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where(cond, arg).
		Order("created_at DESC").
		Find(&orderMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderMs))
	for _, orderM := range orderMs {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

// UpdateStatus moves an order to a new status.
func (repo *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("status", status.String())
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// Count counts all orders.
func (repo *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count orders")
	}

	return count, nil
}

// TotalRevenue sums the total amount across delivered orders.
func (repo *orderRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	if err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("status = ?", entity.OrderDelivered.String()).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error; err != nil {
		return 0, errors.Wrap(err, "failed to sum order revenue")
	}

	return revenue, nil
}

// toOrderDomain maps the persistence model back to a pure domain entity.
func toOrderDomain(orderM *model.OrderModel) *entity.Order {
	items := make([]entity.OrderItem, 0, len(orderM.Items))
	for _, itemM := range orderM.Items {
		items = append(items, entity.OrderItem{
			ProductID:   itemM.ProductID,
			ProductName: itemM.ProductName,
			Quantity:    itemM.Quantity,
			Price:       itemM.Price,
		})
	}

	return &entity.Order{
		ID:                orderM.ID,
		BuyerID:           orderM.BuyerID,
		SellerID:          orderM.SellerID,
		Items:             items,
		TotalAmount:       orderM.TotalAmount,
		Status:            entity.OrderStatus(orderM.Status),
		ShippingAddress:   orderM.ShippingAddress,
		TrackingNumber:    orderM.TrackingNumber,
		EstimatedDelivery: orderM.EstimatedDelivery,
		CreatedAt:         orderM.CreatedAt,
		UpdatedAt:         orderM.UpdatedAt,
	}
}

// fromOrderDomain maps a pure domain entity to a GORM persistence model.
// Items are intentionally not mapped; InsertItems writes them separately.
func fromOrderDomain(order *entity.Order) *model.OrderModel {
	return &model.OrderModel{
		ID:                order.ID,
		BuyerID:           order.BuyerID,
		SellerID:          order.SellerID,
		TotalAmount:       order.TotalAmount,
		Status:            order.Status.String(),
		ShippingAddress:   order.ShippingAddress,
		TrackingNumber:    order.TrackingNumber,
		EstimatedDelivery: order.EstimatedDelivery,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}
