package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table. Items live in 'order_items' and are
// written separately from the header, so a header row may briefly exist
// without its items.
type OrderModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	BuyerID           uuid.UUID `gorm:"type:uuid;not null;index"`
	SellerID          uuid.UUID `gorm:"type:uuid;not null;index"`
	TotalAmount       float64   `gorm:"type:decimal(12,2);not null"`
	Status            string    `gorm:"type:varchar(20);not null;index;default:'pending'"`
	ShippingAddress   string    `gorm:"type:text"`
	TrackingNumber    string    `gorm:"type:varchar(40);unique"`
	EstimatedDelivery *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. Name and price are
// snapshots captured at order time.
type OrderItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductName string    `gorm:"type:varchar(150);not null"`
	Quantity    int       `gorm:"not null"`
	Price       float64   `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
