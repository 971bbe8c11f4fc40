package usecase

import (
	"context"

	"farmferia/internal/domain/entity"

	"github.com/google/uuid"
)

// ProductUsecase defines the interface for product-related business operations.
// Listing for buyers only surfaces approved products; sellers see their own
// catalog in any status and admins see everything.
type ProductUsecase interface {
	// CreateProduct registers a new product for the seller. It starts in the
	// pending status and needs admin approval before buyers can see it.
	CreateProduct(ctx context.Context, sellerID uuid.UUID, input *CreateProductInput) (*entity.Product, error)

	// UpdateProduct modifies a product owned by the seller.
	UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, input *UpdateProductInput) (*entity.Product, error)

	// DeleteProduct removes a product owned by the seller.
	DeleteProduct(ctx context.Context, sellerID, productID uuid.UUID) error

	// GetProduct retrieves a single product.
	GetProduct(ctx context.Context, productID uuid.UUID) (*entity.Product, error)

	// ListApproved returns approved products, optionally narrowed by category.
	ListApproved(ctx context.Context, category string) ([]*entity.Product, error)

	// ListBySeller returns the seller's own catalog in every status.
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Product, error)

	// ListPending returns products awaiting review, for admins.
	ListPending(ctx context.Context) ([]*entity.Product, error)

	// Review approves or rejects a pending product, for admins.
	Review(ctx context.Context, productID uuid.UUID, approve bool) (*entity.Product, error)
}

// --- Input DTOs ---

// CreateProductInput defines the data required to list a new product.
type CreateProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Unit        string   `json:"unit"`
	Quantity    int      `json:"quantity"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
}

// UpdateProductInput defines the data required to update a product.
// Nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Unit        *string   `json:"unit,omitempty"`
	Quantity    *int      `json:"quantity,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	// Status lets a seller withdraw an approved listing ("unavailable") or
	// put a withdrawn one back on sale ("approved").
	Status *string `json:"status,omitempty"`
}
