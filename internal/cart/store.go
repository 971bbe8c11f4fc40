package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Store keeps one cart per account in memory. Carts are not persisted; a
// restart empties them. All methods are safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]Cart
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{carts: make(map[uuid.UUID]Cart)}
}

// Get returns the current cart snapshot for an account. Unknown accounts get
// an empty cart.
func (s *Store) Get(ownerID uuid.UUID) Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.carts[ownerID]
}

// Update applies fn to the account's cart under the store lock and saves the
// result. fn receives the current snapshot and must return the next one.
func (s *Store) Update(ownerID uuid.UUID, fn func(Cart) Cart) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(s.carts[ownerID])
	if next.IsEmpty() {
		delete(s.carts, ownerID)
	} else {
		s.carts[ownerID] = next
	}

	return next
}

// Clear drops the account's cart.
func (s *Store) Clear(ownerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, ownerID)
}
