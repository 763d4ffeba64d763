// Package rest exposes the product store as the /produtos REST collection.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/produtos/internal/backend/store"
	perrors "github.com/abgdnv/produtos/internal/errors"
	"github.com/abgdnv/produtos/internal/product"
	"github.com/abgdnv/produtos/pkg/web"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	store     store.ProductStore
	validator product.Validator
	logger    *slog.Logger
}

// NewHandler creates a new Handler over store. Request bodies pass validator before
// they reach the store.
func NewHandler(store store.ProductStore, validator product.Validator, logger *slog.Logger) *Handler {
	return &Handler{
		store:     store,
		validator: validator,
		logger:    logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product collection.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/produtos", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindAll retrieves a list of all products.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.FindAll(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	found, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, id, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	d, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}
	created, err := h.store.Create(r.Context(), d)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// Update replaces the fields of an existing product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	d, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}
	updated, err := h.store.Update(r.Context(), id, d)
	if err != nil {
		h.respondStoreError(w, r, id, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.store.DeleteByID(r.Context(), id); err != nil {
		h.respondStoreError(w, r, id, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// decodeDraft reads and validates the request body. On failure it writes the 400.
func (h *Handler) decodeDraft(w http.ResponseWriter, r *http.Request) (product.Draft, bool) {
	// Decoding through Product accepts preco as a number too.
	var body product.Product
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return product.Draft{}, false
	}
	d := body.Draft()
	if err := h.validator.Validate(d); err != nil {
		var verr *perrors.ValidationError
		if errors.As(err, &verr) {
			h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", verr.Map())
			web.RespondValidation(w, h.logger, verr.Map())
			return product.Draft{}, false
		}
		h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return product.Draft{}, false
	}
	return d, true
}

func (h *Handler) respondStoreError(w http.ResponseWriter, r *http.Request, id int64, err error) {
	if errors.Is(err, perrors.ErrProductNotFound) {
		h.logger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		return
	}
	h.logger.ErrorContext(r.Context(), "Store operation failed", "ID", id, "error", err)
	web.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Sprintf("Failed to process product with ID %d", id))
}
