// Package mirror keeps the local, ordered copy of the products confirmed by the remote store.
package mirror

import (
	"slices"
	"sync"

	perrors "github.com/abgdnv/produtos/internal/errors"
	"github.com/abgdnv/produtos/internal/product"
)

// Mirror is an ordered in-memory view of the remote collection. It is only written
// after the remote store confirmed a change. Safe for concurrent use.
type Mirror struct {
	mu         sync.RWMutex
	products   []product.Product
	generation uint64
}

// New creates an empty mirror.
func New() *Mirror {
	return &Mirror{}
}

// Generation returns a counter bumped by every applied change. A list result fetched
// at generation g is only current if no change was applied since.
func (m *Mirror) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// Replace installs a full listing fetched when the mirror was at generation.
// It returns false and keeps the current state when a change was applied in between.
func (m *Mirror) Replace(generation uint64, products []product.Product) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generation {
		return false
	}
	m.products = slices.Clone(products)
	m.generation++
	return true
}

// ApplyCreate appends p. When p.ID is already mirrored, a listing fetched after the
// server stored p got there first, and the entry is replaced in place with p.
// A product without id is rejected with a StateError.
func (m *Mirror) ApplyCreate(p product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !p.HasID() {
		return &perrors.StateError{Op: "create", ID: p.ID, Reason: "has no server-assigned id"}
	}
	if i := m.indexOf(p.ID); i >= 0 {
		m.products[i] = p
	} else {
		m.products = append(m.products, p)
	}
	m.generation++
	return nil
}

// ApplyUpdate replaces the entry with p.ID in place. An unknown id leaves the
// mirror unchanged and returns a StateError.
func (m *Mirror) ApplyUpdate(p product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(p.ID)
	if i < 0 {
		return &perrors.StateError{Op: "update", ID: p.ID}
	}
	m.products[i] = p
	m.generation++
	return nil
}

// ApplyDelete removes the entry with id. Removing an absent id is a no-op.
func (m *Mirror) ApplyDelete(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return
	}
	m.products = slices.Delete(m.products, i, i+1)
	m.generation++
}

// Get returns the entry with id.
func (m *Mirror) Get(id int64) (product.Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return product.Product{}, false
	}
	return m.products[i], true
}

// Snapshot returns a copy of the products in order.
func (m *Mirror) Snapshot() []product.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.products)
}

// Len returns the number of mirrored products.
func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products)
}

func (m *Mirror) indexOf(id int64) int {
	return slices.IndexFunc(m.products, func(p product.Product) bool {
		return p.ID == id
	})
}
