package repository

import (
	"context"
	"errors"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrOrderNotFound is returned when an order lookup matches no row.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the standard operations for order persistence.
//
// Order creation is deliberately split into CreateHeader and InsertItems so the
// caller controls whether the two writes share a transaction. The checkout path
// issues them as independent statements and surfaces a partial-failure error
// when the second write fails after the first succeeded.
type OrderRepository interface {
	// CreateHeader persists the order row without its items.
	CreateHeader(ctx context.Context, order *entity.Order) error

	// InsertItems persists the item rows for an already created order.
	InsertItems(ctx context.Context, orderID uuid.UUID, items []entity.OrderItem) error

	// FindByID retrieves an order together with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// ListByBuyer returns the orders placed by a buyer, newest first.
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.Order, error)

	// ListBySeller returns the orders addressed to a seller, newest first.
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Order, error)

	// UpdateStatus moves an order to a new status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error

	// Count counts all orders.
	Count(ctx context.Context) (int64, error)

	// TotalRevenue sums the total amount across delivered orders.
	TotalRevenue(ctx context.Context) (float64, error)
}
