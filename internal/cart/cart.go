// Package cart implements the shopping cart as a pure reducer over immutable
// snapshots. Mutating operations return a new cart; callers own the snapshot
// they hold and never observe later changes through it.
package cart

import (
	"github.com/google/uuid"
)

// Item is a cart line holding a price snapshot taken when the product was added.
type Item struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Quantity   int       `json:"quantity"`
	ImageURL   string    `json:"image_url,omitempty"`
	SellerID   uuid.UUID `json:"seller_id"`
	SellerName string    `json:"seller_name,omitempty"`
}

// Subtotal returns the line total for this item.
func (i Item) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart is an immutable list of items. The zero value is an empty cart.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() Cart {
	return Cart{}
}

// Items returns a copy of the cart lines in insertion order.
func (c Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)

	return out
}

// Len returns the number of distinct lines in the cart.
func (c Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Total recomputes the cart total from the current lines. It is never cached.
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.items {
		total += item.Subtotal()
	}

	return total
}

// Add merges the item into the cart. When a line with the same product already
// exists its quantity is increased and the stored snapshot kept; otherwise the
// item is appended as a new line. A non-positive quantity leaves the cart
// unchanged.
func (c Cart) Add(item Item) Cart {
	if item.Quantity < 1 {
		return c
	}

	for i, existing := range c.items {
		if existing.ProductID == item.ProductID {
			next := c.clone()
			next.items[i].Quantity += item.Quantity

			return next
		}
	}

	next := c.clone()
	next.items = append(next.items, item)

	return next
}

// SetQuantity replaces the quantity of the line for the given product.
// A quantity below one removes the line. An unknown product is a no-op.
func (c Cart) SetQuantity(productID uuid.UUID, quantity int) Cart {
	if quantity < 1 {
		return c.Remove(productID)
	}

	for i, existing := range c.items {
		if existing.ProductID == productID {
			next := c.clone()
			next.items[i].Quantity = quantity

			return next
		}
	}

	return c
}

// Remove drops the line for the given product. An unknown product is a no-op.
func (c Cart) Remove(productID uuid.UUID) Cart {
	for i, existing := range c.items {
		if existing.ProductID == productID {
			next := Cart{items: make([]Item, 0, len(c.items)-1)}
			next.items = append(next.items, c.items[:i]...)
			next.items = append(next.items, c.items[i+1:]...)

			return next
		}
	}

	return c
}

// Clear returns an empty cart.
func (c Cart) Clear() Cart {
	return Cart{}
}

// SellerID returns the seller shared by every line. ok is false when the cart
// is empty or the lines span more than one seller.
func (c Cart) SellerID() (uuid.UUID, bool) {
	if len(c.items) == 0 {
		return uuid.Nil, false
	}

	seller := c.items[0].SellerID
	for _, item := range c.items[1:] {
		if item.SellerID != seller {
			return uuid.Nil, false
		}
	}

	return seller, true
}

func (c Cart) clone() Cart {
	items := make([]Item, len(c.items))
	copy(items, c.items)

	return Cart{items: items}
}
