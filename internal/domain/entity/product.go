package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus represents where a listing sits in the approval workflow.
type ProductStatus string

const (
	// ProductPending is the initial status of every new listing.
	ProductPending ProductStatus = "pending"
	// ProductApproved means an admin cleared the listing for buyers.
	ProductApproved ProductStatus = "approved"
	// ProductRejected means an admin declined the listing.
	ProductRejected ProductStatus = "rejected"
	// ProductUnavailable means the seller withdrew the listing from sale.
	ProductUnavailable ProductStatus = "unavailable"
)

// IsValid checks if the ProductStatus is a valid value.
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductPending, ProductApproved, ProductRejected, ProductUnavailable:
		return true
	default:
		return false
	}
}

// String returns the string representation of the ProductStatus.
func (s ProductStatus) String() string {
	return string(s)
}

// Product is a produce listing owned by a seller.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64 // Unit price in the marketplace currency.
	Unit        string  // Selling unit, e.g. "kg" or "dozen".
	Quantity    int     // Stock available in selling units.
	Images      []string
	Category    string
	SellerID    uuid.UUID
	SellerName  string // Denormalized for listing pages.
	Status      ProductStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
