package usecase

import (
	"context"
)

// MarketplaceStats is a consistent snapshot of marketplace-wide counters.
type MarketplaceStats struct {
	Buyers          int64   `json:"buyers"`
	Sellers         int64   `json:"sellers"`
	Products        int64   `json:"products"`
	PendingProducts int64   `json:"pending_products"`
	Orders          int64   `json:"orders"`
	Revenue         float64 `json:"revenue"`
}

// AdminUsecase defines the interface for admin dashboard operations.
type AdminUsecase interface {
	// Stats gathers marketplace counters inside a single read transaction so
	// the numbers are mutually consistent.
	Stats(ctx context.Context) (*MarketplaceStats, error)
}
