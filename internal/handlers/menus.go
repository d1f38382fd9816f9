package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bistro-boss/api/internal/domain"
	"github.com/bistro-boss/api/internal/platform/auth"
	"github.com/bistro-boss/api/internal/platform/httpx"
	"github.com/bistro-boss/api/internal/services"
)

// MenuHandlers exposes the public catalog listing and admin catalog management.
type MenuHandlers struct {
	authn   *auth.Authenticator
	catalog services.CatalogService
}

// NewMenuHandlers constructs a new MenuHandlers instance.
func NewMenuHandlers(authn *auth.Authenticator, catalog services.CatalogService) *MenuHandlers {
	return &MenuHandlers{
		authn:   authn,
		catalog: catalog,
	}
}

// Routes registers the /menus endpoints.
func (h *MenuHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.list)
	if h.authn != nil {
		r.With(h.authn.RequireAuth(auth.RoleAdmin)).Post("/", h.create)
		r.With(h.authn.RequireAuth(auth.RoleAdmin)).Delete("/{id}", h.remove)
	}
}

type createMenuItemRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Recipe   string  `json:"recipe"`
}

type menuItemPayload struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Recipe   string  `json:"recipe,omitempty"`
}

func (h *MenuHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		writeCatalogServiceUnavailable(ctx, w)
		return
	}

	items, err := h.catalog.ListMenu(ctx)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	payload := make([]menuItemPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, buildMenuItemPayload(item))
	}
	httpx.WriteJSON(w, http.StatusOK, payload)
}

func (h *MenuHandlers) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		writeCatalogServiceUnavailable(ctx, w)
		return
	}

	var req createMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	item, err := h.catalog.CreateMenuItem(ctx, services.CreateMenuItemCommand{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Image:    req.Image,
		Recipe:   req.Recipe,
	})
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, buildMenuItemPayload(item))
}

func (h *MenuHandlers) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		writeCatalogServiceUnavailable(ctx, w)
		return
	}

	if err := h.catalog.DeleteMenuItem(ctx, chi.URLParam(r, "id")); err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func buildMenuItemPayload(item domain.MenuItem) menuItemPayload {
	return menuItemPayload{
		ID:       item.ID.String(),
		Name:     item.Name,
		Category: item.Category,
		Price:    item.Price,
		Image:    item.Image,
		Recipe:   item.Recipe,
	}
}

func writeCatalogServiceUnavailable(ctx context.Context, w http.ResponseWriter) {
	httpx.WriteError(ctx, w, httpx.NewError("catalog_service_unavailable", "catalog service unavailable", http.StatusServiceUnavailable))
}

func writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCatalogInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, domain.ErrInvalidItemID):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_item_id", err.Error(), http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unable to process catalog request", http.StatusInternalServerError))
	}
}
