package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bistro-boss/api/internal/domain"
	"github.com/bistro-boss/api/internal/platform/auth"
	"github.com/bistro-boss/api/internal/platform/httpx"
	"github.com/bistro-boss/api/internal/services"
)

// CartHandlers exposes owner-scoped cart endpoints.
type CartHandlers struct {
	authn *auth.Authenticator
	carts services.CartService
}

// NewCartHandlers constructs a new CartHandlers instance.
func NewCartHandlers(authn *auth.Authenticator, carts services.CartService) *CartHandlers {
	return &CartHandlers{
		authn: authn,
		carts: carts,
	}
}

// Routes registers the /carts endpoints. Every route requires authentication;
// listings and removals are additionally scoped to the token's email.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	if h.authn != nil {
		r.Use(h.authn.RequireAuth())
	}
	r.Get("/", h.list)
	r.Post("/", h.add)
	r.Delete("/{id}", h.remove)
}

type addCartItemRequest struct {
	MenuItemID idValue `json:"menuItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Image      string  `json:"image"`
}

type cartItemPayload struct {
	ID         string  `json:"id"`
	OwnerEmail string  `json:"email"`
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Image      string  `json:"image,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}

func (h *CartHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		writeCartServiceUnavailable(ctx, w)
		return
	}

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return
	}
	if email := r.URL.Query().Get("email"); email != "" && !identity.OwnsEmail(email) {
		httpx.WriteError(ctx, w, httpx.NewError("forbidden", "token does not match requested email", http.StatusForbidden))
		return
	}

	items, err := h.carts.ListByOwner(ctx, identity.Email)
	if err != nil {
		writeCartError(ctx, w, err)
		return
	}

	payload := make([]cartItemPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, buildCartItemPayload(item))
	}
	httpx.WriteJSON(w, http.StatusOK, payload)
}

func (h *CartHandlers) add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		writeCartServiceUnavailable(ctx, w)
		return
	}

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return
	}

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	item, err := h.carts.AddItem(ctx, services.AddCartItemCommand{
		OwnerEmail: identity.Email,
		MenuItemID: string(req.MenuItemID),
		Name:       req.Name,
		Price:      req.Price,
		Image:      req.Image,
	})
	if err != nil {
		writeCartError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, buildCartItemPayload(item))
}

func (h *CartHandlers) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		writeCartServiceUnavailable(ctx, w)
		return
	}

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return
	}

	if err := h.carts.RemoveItem(ctx, identity.Email, chi.URLParam(r, "id")); err != nil {
		writeCartError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func buildCartItemPayload(item domain.CartItem) cartItemPayload {
	payload := cartItemPayload{
		ID:         item.ID.String(),
		OwnerEmail: item.OwnerEmail,
		MenuItemID: item.MenuItemID.String(),
		Name:       item.Name,
		Price:      item.Price,
		Image:      item.Image,
	}
	if !item.CreatedAt.IsZero() {
		payload.CreatedAt = item.CreatedAt.UTC().Format(time.RFC3339)
	}
	return payload
}

func writeCartServiceUnavailable(ctx context.Context, w http.ResponseWriter) {
	httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service unavailable", http.StatusServiceUnavailable))
}

func writeCartError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCartInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCartItemNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("cart_item_not_found", "cart item not found", http.StatusNotFound))
	case errors.Is(err, services.ErrCartForbidden):
		httpx.WriteError(ctx, w, httpx.NewError("forbidden", "cart item belongs to another customer", http.StatusForbidden))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unable to process cart request", http.StatusInternalServerError))
	}
}
