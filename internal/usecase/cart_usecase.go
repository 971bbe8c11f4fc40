package usecase

import (
	"context"

	"farmferia/internal/cart"
	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
)

// CartUsecase defines the interface for cart operations. Carts live in memory
// only; every mutation returns the resulting snapshot so callers can render it
// without a second read.
type CartUsecase interface {
	// AddItem puts a product into the buyer's cart, snapshotting its current
	// approved price. Adding the same product again increases the quantity.
	AddItem(ctx context.Context, buyerID, productID uuid.UUID, quantity int) (cart.Cart, error)

	// UpdateQuantity sets the quantity for a cart line. A quantity below one
	// removes the line.
	UpdateQuantity(ctx context.Context, buyerID, productID uuid.UUID, quantity int) (cart.Cart, error)

	// RemoveItem drops a cart line.
	RemoveItem(ctx context.Context, buyerID, productID uuid.UUID) (cart.Cart, error)

	// Get returns the buyer's current cart.
	Get(ctx context.Context, buyerID uuid.UUID) cart.Cart

	// Clear empties the buyer's cart.
	Clear(ctx context.Context, buyerID uuid.UUID)

	// Checkout places an order from the cart and empties it on success. The
	// cart must hold items from a single seller.
	Checkout(ctx context.Context, buyerID uuid.UUID, shippingAddress string) (*entity.Order, error)
}
