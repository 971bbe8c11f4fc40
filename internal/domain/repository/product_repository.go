package repository

import (
	"context"
	"errors"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is returned when a product lookup matches no row.
var ErrProductNotFound = errors.New("product not found")

// ProductFilter narrows product listings. Zero values mean "no constraint".
type ProductFilter struct {
	SellerID uuid.UUID
	Status   entity.ProductStatus
	Category string
}

// ProductRepository defines the standard operations for product persistence.
type ProductRepository interface {
	// FindByID retrieves a single product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product.
	Update(ctx context.Context, product *entity.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns products matching the filter, newest first.
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)

	// Count counts products matching the filter.
	Count(ctx context.Context, filter ProductFilter) (int64, error)
}
