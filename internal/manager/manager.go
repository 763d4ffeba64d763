// Package manager implements the product CRUD workflow: validate a draft, send it to
// the remote store and apply the confirmed result to the local mirror.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	perrors "github.com/abgdnv/produtos/internal/errors"
	"github.com/abgdnv/produtos/internal/mirror"
	"github.com/abgdnv/produtos/internal/notify"
	"github.com/abgdnv/produtos/internal/product"
	"github.com/abgdnv/produtos/internal/remote"
	"github.com/abgdnv/produtos/internal/session"
)

// Notification titles.
const (
	TitleCreated      = "Produto adicionado com sucesso"
	TitleUpdated      = "Produto atualizado com sucesso"
	TitleDeleted      = "Produto excluído com sucesso"
	TitleCreateFailed = "Erro ao adicionar o produto"
	TitleUpdateFailed = "Erro ao atualizar o produto"
	TitleDeleteFailed = "Erro ao excluir o produto"
	TitleLoadFailed   = "Erro ao buscar os produtos"
	TitleInvalid      = "Verifique os dados e tente novamente."
)

// Confirmer is asked before a product is deleted. Returning false, or an error,
// cancels the deletion.
type Confirmer interface {
	Confirm(ctx context.Context, id int64) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, id int64) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, id int64) (bool, error) {
	return f(ctx, id)
}

// Options select the strategies a Manager runs with. Zero values fall back to the
// schema validator, a notifier that only logs and a discarding logger.
type Options struct {
	Validator product.Validator
	Notifier  notify.Notifier
	Logger    *slog.Logger
}

// Manager owns the local mirror and the edit session for one user. Mutating
// operations are serialized; readers may run concurrently with them.
type Manager struct {
	store     remote.Store
	validator product.Validator
	notifier  notify.Notifier
	logger    *slog.Logger

	mu      sync.Mutex
	mirror  *mirror.Mirror
	session *session.Session
	loading atomic.Int32
}

// New creates a Manager backed by store with an empty mirror.
func New(store remote.Store, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	v := opts.Validator
	if v == nil {
		v = product.NewSchemaValidator()
	}
	n := opts.Notifier
	if n == nil {
		n, _ = notify.New(notify.StrategyLog, nil, logger)
	}
	return &Manager{
		store:     store,
		validator: v,
		notifier:  n,
		logger:    logger.With("component", "manager"),
		mirror:    mirror.New(),
		session:   session.New(),
	}
}

// Load fetches the full list and installs it in the mirror. A list that was in
// flight while another change got applied is discarded; the mirror already holds
// newer state.
func (m *Manager) Load(ctx context.Context) error {
	m.loading.Add(1)
	defer m.loading.Add(-1)

	generation := m.mirror.Generation()
	products, err := m.store.List(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to load products", "error", err)
		m.notifier.Failure(TitleLoadFailed, err.Error())
		return err
	}
	if !m.mirror.Replace(generation, products) {
		m.logger.InfoContext(ctx, "Discarded stale product list", "count", len(products))
		return nil
	}
	m.logger.DebugContext(ctx, "Products loaded", "count", len(products))
	return nil
}

// Submit validates d and creates a product, or updates the one being edited.
// On success the mirror holds the stored product and the session is back in create
// mode. On failure nothing changes except the draft, which keeps d so it can be
// corrected and submitted again.
func (m *Manager) Submit(ctx context.Context, d product.Draft) (product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session.SetDraft(d)
	id, editing := m.session.Active()
	failTitle := TitleCreateFailed
	if editing {
		failTitle = TitleUpdateFailed
	}

	if err := m.validator.Validate(d); err != nil {
		m.logger.InfoContext(ctx, "Draft rejected", "error", err)
		m.notifier.Failure(failTitle, TitleInvalid)
		return product.Product{}, err
	}

	var (
		stored product.Product
		err    error
	)
	if editing {
		stored, err = m.update(ctx, id, d)
	} else {
		stored, err = m.create(ctx, d)
	}
	if err != nil {
		m.notifier.Failure(failTitle, err.Error())
		return product.Product{}, err
	}

	m.session.End()
	if editing {
		m.notifier.Success(TitleUpdated)
	} else {
		m.notifier.Success(TitleCreated)
	}
	return stored, nil
}

func (m *Manager) create(ctx context.Context, d product.Draft) (product.Product, error) {
	created, err := m.store.Create(ctx, d)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to create product", "error", err)
		return product.Product{}, err
	}
	if err := m.mirror.ApplyCreate(created); err != nil {
		m.logger.ErrorContext(ctx, "Created product rejected by mirror", "ID", created.ID, "error", err)
		return product.Product{}, err
	}
	m.logger.InfoContext(ctx, "Product created", "ID", created.ID, "Name", created.Name)
	return created, nil
}

func (m *Manager) update(ctx context.Context, id int64, d product.Draft) (product.Product, error) {
	updated, err := m.store.Update(ctx, id, d)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to update product", "ID", id, "error", err)
		return product.Product{}, err
	}
	if err := m.mirror.ApplyUpdate(updated); err != nil {
		m.logger.ErrorContext(ctx, "Updated product is not mirrored", "ID", id, "error", err)
		return product.Product{}, err
	}
	m.logger.InfoContext(ctx, "Product updated", "ID", updated.ID, "Name", updated.Name)
	return updated, nil
}

// BeginEdit switches the session to editing product id, pre-filling the draft with
// its mirrored fields.
func (m *Manager) BeginEdit(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.mirror.Get(id)
	if !ok {
		return &perrors.StateError{Op: "edit", ID: id}
	}
	m.session.Begin(p)
	m.logger.Debug("Editing product", "ID", id)
	return nil
}

// CancelEdit returns the session to create mode with an empty draft.
func (m *Manager) CancelEdit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.End()
}

// SetDraft replaces the form values without leaving the current mode.
func (m *Manager) SetDraft(d product.Draft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.SetDraft(d)
}

// Delete asks confirm and, when confirmed, deletes product id remotely and then
// locally. It reports whether the product was deleted. A declined confirmation is
// not an error; a failing confirmer is returned without touching any state.
func (m *Manager) Delete(ctx context.Context, id int64, confirm Confirmer) (bool, error) {
	ok, err := confirm.Confirm(ctx, id)
	if err != nil {
		m.logger.WarnContext(ctx, "Delete confirmation failed", "ID", id, "error", err)
		return false, fmt.Errorf("confirming delete of product %d: %w", id, err)
	}
	if !ok {
		m.logger.DebugContext(ctx, "Delete cancelled", "ID", id)
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		m.logger.ErrorContext(ctx, "Failed to delete product", "ID", id, "error", err)
		detail := err.Error()
		if errors.Is(err, perrors.ErrProductNotFound) {
			detail = "O produto não existe mais no servidor."
		}
		m.notifier.Failure(TitleDeleteFailed, detail)
		return false, err
	}
	m.mirror.ApplyDelete(id)
	if active, editing := m.session.Active(); editing && active == id {
		m.session.End()
	}
	m.logger.InfoContext(ctx, "Product deleted", "ID", id)
	m.notifier.Success(TitleDeleted)
	return true, nil
}

// Products returns the mirrored products in order.
func (m *Manager) Products() []product.Product {
	return m.mirror.Snapshot()
}

// Editing returns the id of the product being edited.
func (m *Manager) Editing() (int64, bool) {
	return m.session.Active()
}

// Draft returns the current form values.
func (m *Manager) Draft() product.Draft {
	return m.session.Draft()
}

// Loading reports whether a Load is in flight.
func (m *Manager) Loading() bool {
	return m.loading.Load() > 0
}
