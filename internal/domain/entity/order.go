package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the fulfilment state of an order.
type OrderStatus string

const (
	// OrderPending is the initial status of every new order.
	OrderPending OrderStatus = "pending"
	// OrderConfirmed means the seller accepted the order.
	OrderConfirmed OrderStatus = "confirmed"
	// OrderShipped means the order left the seller.
	OrderShipped OrderStatus = "shipped"
	// OrderDelivered means the buyer received the order.
	OrderDelivered OrderStatus = "delivered"
	// OrderCancelled means the order was abandoned before delivery.
	OrderCancelled OrderStatus = "cancelled"
)

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether the fulfilment workflow allows moving from
// the current status to the target status.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderPending:
		return target == OrderConfirmed || target == OrderCancelled
	case OrderConfirmed:
		return target == OrderShipped || target == OrderCancelled
	case OrderShipped:
		return target == OrderDelivered
	default:
		return false
	}
}

// OrderItem is one line of an order. Quantity and unit price are snapshots
// captured at order time; the price is never re-derived from the live product.
type OrderItem struct {
	ProductID   uuid.UUID
	ProductName string // Snapshot for order history display.
	Quantity    int
	Price       float64 // Unit price captured when the order was placed.
}

// Subtotal returns the line total for this item.
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}

// Order is the order aggregate: a header plus its line items, expected to be
// created together. TotalAmount must equal the sum over line items at
// creation time.
type Order struct {
	ID                uuid.UUID
	BuyerID           uuid.UUID
	SellerID          uuid.UUID
	Items             []OrderItem
	TotalAmount       float64
	Status            OrderStatus
	ShippingAddress   string
	TrackingNumber    string     // Backend-generated at creation.
	EstimatedDelivery *time.Time // Backend-generated at creation.
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ItemsTotal recomputes the order total from its line items.
func (o *Order) ItemsTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}

	return total
}
