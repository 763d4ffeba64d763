// Package store provides the storage behind the development /produtos backend.
package store

import (
	"context"
	"slices"
	"sync"

	perrors "github.com/abgdnv/produtos/internal/errors"
	"github.com/abgdnv/produtos/internal/product"
)

// ProductStore is an interface for product storage operations.
// Implementations assign increasing ids and list products in id order.
type ProductStore interface {
	// FindAll returns every product. Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]product.Product, error)

	// FindByID retrieves a single product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (product.Product, error)

	// Create stores d under a new id.
	Create(ctx context.Context, d product.Draft) (product.Product, error)

	// Update replaces the fields of product id.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, d product.Draft) (product.Product, error)

	// DeleteByID removes product id.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// InMemory implements ProductStore with an ordered slice.
type InMemory struct {
	mu       sync.RWMutex
	products []product.Product
	nextID   int64
}

var _ ProductStore = (*InMemory)(nil)

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemory {
	return &InMemory{nextID: 1}
}

// FindAll retrieves all products.
func (s *InMemory) FindAll(_ context.Context) ([]product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.products == nil {
		return []product.Product{}, nil
	}
	return slices.Clone(s.products), nil
}

// FindByID retrieves a product by its ID.
func (s *InMemory) FindByID(_ context.Context, id int64) (product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return product.Product{}, perrors.ErrProductNotFound
	}
	return s.products[i], nil
}

// Create creates a new product and returns it.
func (s *InMemory) Create(_ context.Context, d product.Draft) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := d.Product(s.nextID)
	s.nextID++
	s.products = append(s.products, p)
	return p, nil
}

// Update modifies an existing product.
func (s *InMemory) Update(_ context.Context, id int64, d product.Draft) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return product.Product{}, perrors.ErrProductNotFound
	}
	s.products[i] = d.Product(id)
	return s.products[i], nil
}

// DeleteByID deletes a product by its ID.
func (s *InMemory) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return perrors.ErrProductNotFound
	}
	s.products = slices.Delete(s.products, i, i+1)
	return nil
}

func (s *InMemory) indexOf(id int64) int {
	return slices.IndexFunc(s.products, func(p product.Product) bool {
		return p.ID == id
	})
}
