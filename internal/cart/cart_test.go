package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(name string, price float64, qty int) Item {
	return Item{
		ProductID: uuid.New(),
		Name:      name,
		Price:     price,
		Quantity:  qty,
		SellerID:  uuid.New(),
	}
}

func TestCart_AddNewLine(t *testing.T) {
	c := New().Add(item("tomatoes", 3.50, 2))

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 7.0, c.Total())
}

func TestCart_AddSameProductMergesQuantity(t *testing.T) {
	first := item("tomatoes", 3.50, 2)

	c := New().Add(first)

	// Same product added again with a different price snapshot keeps the
	// original snapshot and only bumps the quantity.
	again := first
	again.Quantity = 3
	again.Price = 4.00
	c = c.Add(again)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 5, c.Items()[0].Quantity)
	assert.Equal(t, 3.50, c.Items()[0].Price)
	assert.Equal(t, 17.5, c.Total())
}

func TestCart_AddNonPositiveQuantityIsNoOp(t *testing.T) {
	bad := item("tomatoes", 3.50, 0)

	c := New().Add(bad)

	assert.True(t, c.IsEmpty())
}

func TestCart_SetQuantityBelowOneRemovesLine(t *testing.T) {
	line := item("tomatoes", 3.50, 2)
	c := New().Add(line)

	c = c.SetQuantity(line.ProductID, 0)

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0.0, c.Total())
}

func TestCart_SetQuantityUnknownProductIsNoOp(t *testing.T) {
	line := item("tomatoes", 3.50, 2)
	c := New().Add(line)

	c = c.SetQuantity(uuid.New(), 5)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.Items()[0].Quantity)
}

func TestCart_RemoveKeepsOtherLines(t *testing.T) {
	a := item("tomatoes", 3.50, 2)
	b := item("onions", 2.00, 1)
	c := New().Add(a).Add(b)

	c = c.Remove(a.ProductID)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, b.ProductID, c.Items()[0].ProductID)
	assert.Equal(t, 2.0, c.Total())
}

func TestCart_TotalAlwaysRecomputed(t *testing.T) {
	a := item("tomatoes", 3.50, 2)
	b := item("onions", 2.00, 3)

	c := New().Add(a).Add(b)
	require.Equal(t, 13.0, c.Total())

	c = c.SetQuantity(b.ProductID, 1)
	assert.Equal(t, 9.0, c.Total())

	c = c.Remove(a.ProductID)
	assert.Equal(t, 2.0, c.Total())

	c = c.Clear()
	assert.Equal(t, 0.0, c.Total())
}

func TestCart_MutationsDoNotAliasOldSnapshots(t *testing.T) {
	a := item("tomatoes", 3.50, 2)
	before := New().Add(a)

	after := before.SetQuantity(a.ProductID, 9)

	assert.Equal(t, 2, before.Items()[0].Quantity)
	assert.Equal(t, 9, after.Items()[0].Quantity)
}

func TestCart_SellerID(t *testing.T) {
	sellerID := uuid.New()

	a := item("tomatoes", 3.50, 2)
	a.SellerID = sellerID
	b := item("onions", 2.00, 1)
	b.SellerID = sellerID

	c := New().Add(a).Add(b)
	got, ok := c.SellerID()
	require.True(t, ok)
	assert.Equal(t, sellerID, got)

	other := item("apples", 1.00, 1)
	c = c.Add(other)
	_, ok = c.SellerID()
	assert.False(t, ok)

	_, ok = New().SellerID()
	assert.False(t, ok)
}

func TestStore_IsolatedPerOwner(t *testing.T) {
	store := NewStore()
	alice := uuid.New()
	bob := uuid.New()

	store.Update(alice, func(c Cart) Cart {
		return c.Add(item("tomatoes", 3.50, 1))
	})

	assert.Equal(t, 1, store.Get(alice).Len())
	assert.True(t, store.Get(bob).IsEmpty())
}

func TestStore_ClearDropsCart(t *testing.T) {
	store := NewStore()
	owner := uuid.New()

	store.Update(owner, func(c Cart) Cart {
		return c.Add(item("tomatoes", 3.50, 1))
	})
	store.Clear(owner)

	assert.True(t, store.Get(owner).IsEmpty())
}
