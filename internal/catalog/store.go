package catalog

import (
	"errors"
	"sync"
)

// ErrProductNotFound is returned when no product exists with the given ID.
var ErrProductNotFound = errors.New("product not found")

// Store owns the authoritative in-memory product collection.
// Order of the collection is fetch order with newly created products in front;
// the filtered subset is never held here, it is recomputed by Query from a
// snapshot so it can never drift from the collection.
type Store struct {
	mu  sync.RWMutex
	all []Product
}

// NewStore creates an empty product store.
func NewStore() *Store {
	return &Store{}
}

// Load replaces the collection with the given products.
func (s *Store) Load(products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = make([]Product, len(products))
	copy(s.all, products)
}

// ApplyCreated prepends the product to the collection. ID uniqueness is
// trusted from the remote service, there is no deduplication.
func (s *Store) ApplyCreated(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = append([]Product{p}, s.all...)
}

// ApplyUpdated replaces the product with the same ID in place, keeping its
// position in the collection. Returns ErrProductNotFound if the ID is absent.
func (s *Store) ApplyUpdated(p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.all {
		if s.all[i].ID == p.ID {
			s.all[i] = p
			return nil
		}
	}
	return ErrProductNotFound
}

// FindByID retrieves a single product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Store) FindByID(id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.all {
		if s.all[i].ID == id {
			p := s.all[i]
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

// Snapshot returns a copy of the collection in its current order.
func (s *Store) Snapshot() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]Product, len(s.all))
	copy(snapshot, s.all)
	return snapshot
}

// Len returns the size of the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.all)
}
