package usecase

import (
	"context"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderUsecase defines the interface for order-related business operations.
type OrderUsecase interface {
	// CreateOrder places an order. Each line carries the unit price captured
	// when it entered the cart and the total is derived from those lines; the
	// header and item writes are issued as separate statements and an item
	// write failure after the header exists surfaces as a partial-failure
	// error.
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error)

	// GetOrder retrieves an order with its items.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error)

	// ListByBuyer returns the buyer's orders, newest first.
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*entity.Order, error)

	// ListBySeller returns the seller's incoming orders, newest first.
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Order, error)

	// UpdateStatus moves an order along its lifecycle. Illegal transitions are
	// rejected.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error)

	// TrackingQR renders the QR code image for an order's tracking number.
	TrackingQR(ctx context.Context, orderID uuid.UUID) ([]byte, error)
}

// --- Input DTOs ---

// OrderItemInput is a single requested line of a new order. Price is the
// unit price captured when the line was added to the cart, not the product's
// current price.
type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// CreateOrderInput defines the data required to place an order.
type CreateOrderInput struct {
	BuyerID         uuid.UUID        `json:"-"`
	SellerID        uuid.UUID        `json:"seller_id"`
	Items           []OrderItemInput `json:"items"`
	ShippingAddress string           `json:"shipping_address"`
}
