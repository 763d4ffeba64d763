// Package session tracks the product currently being edited and the form draft.
package session

import (
	"sync"

	"github.com/abgdnv/produtos/internal/product"
)

// Session holds at most one active edit. Without an active edit the draft belongs to a
// new product; with one, submitting the draft updates the product with that id.
type Session struct {
	mu     sync.RWMutex
	active int64
	draft  product.Draft
}

// New returns a session in create mode with an empty draft.
func New() *Session {
	return &Session{}
}

// Begin starts editing p and pre-fills the draft with its fields.
// A previous edit is abandoned.
func (s *Session) Begin(p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = p.ID
	s.draft = p.Draft()
}

// End leaves edit mode and clears the draft.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = 0
	s.draft = product.Draft{}
}

// Active returns the id being edited.
func (s *Session) Active() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, s.active > 0
}

// Draft returns the current form values.
func (s *Session) Draft() product.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// SetDraft replaces the form values without changing the mode.
func (s *Session) SetDraft(d product.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d
}
