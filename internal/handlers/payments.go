package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bistro-boss/api/internal/domain"
	"github.com/bistro-boss/api/internal/payments"
	"github.com/bistro-boss/api/internal/platform/auth"
	"github.com/bistro-boss/api/internal/platform/httpx"
	"github.com/bistro-boss/api/internal/services"
)

// idValue accepts a JSON string or number and preserves its raw textual form
// so the domain layer performs the one canonical normalisation.
type idValue string

// UnmarshalJSON implements json.Unmarshaler.
func (v *idValue) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty id value")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = idValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*v = idValue(n.String())
	return nil
}

// PaymentHandlers exposes checkout, payment history, and intent creation.
type PaymentHandlers struct {
	authn    *auth.Authenticator
	checkout services.CheckoutService
	provider payments.Provider
}

// NewPaymentHandlers constructs a new PaymentHandlers instance.
func NewPaymentHandlers(authn *auth.Authenticator, checkout services.CheckoutService, provider payments.Provider) *PaymentHandlers {
	return &PaymentHandlers{
		authn:    authn,
		checkout: checkout,
		provider: provider,
	}
}

// Routes registers the checkout endpoints at the router root.
func (h *PaymentHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	requireAuth := func(next http.Handler) http.Handler { return next }
	if h.authn != nil {
		requireAuth = h.authn.RequireAuth()
	}
	r.With(requireAuth).Post("/payments", h.settle)
	r.With(requireAuth).Get("/payments/{email}", h.history)
	r.With(requireAuth).Post("/create-payment-intent", h.createIntent)
}

type checkoutRequest struct {
	OwnerEmail  string    `json:"ownerEmail"`
	Email       string    `json:"email"`
	Amount      float64   `json:"amount"`
	CartItemIDs []idValue `json:"cartItemIds"`
	MenuItemIDs []idValue `json:"menuItemIds"`
}

// declaredOwner returns the owner email the client named, preferring the
// canonical ownerEmail key and falling back to the legacy email alias.
func (r checkoutRequest) declaredOwner() string {
	if r.OwnerEmail != "" {
		return r.OwnerEmail
	}
	return r.Email
}

type checkoutResponse struct {
	PaymentID    string `json:"paymentId"`
	RemovedCount int    `json:"removedCount"`
}

type paymentPayload struct {
	ID          string   `json:"id"`
	OwnerEmail  string   `json:"ownerEmail"`
	Amount      float64  `json:"amount"`
	CartItemIDs []string `json:"cartItemIds"`
	MenuItemIDs []string `json:"menuItemIds"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

type createIntentRequest struct {
	Price float64 `json:"price"`
}

type createIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

func (h *PaymentHandlers) settle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.checkout == nil {
		writePaymentServiceUnavailable(ctx, w)
		return
	}

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}
	if owner := req.declaredOwner(); owner != "" && !identity.OwnsEmail(owner) {
		httpx.WriteError(ctx, w, httpx.NewError("forbidden", "token does not match payment owner email", http.StatusForbidden))
		return
	}

	result, err := h.checkout.Checkout(ctx, services.CheckoutCommand{
		OwnerEmail:  identity.Email,
		Amount:      req.Amount,
		CartItemIDs: idValueStrings(req.CartItemIDs),
		MenuItemIDs: idValueStrings(req.MenuItemIDs),
	})
	if err != nil {
		writeCheckoutError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, checkoutResponse{
		PaymentID:    result.Payment.ID,
		RemovedCount: result.RemovedCount,
	})
}

func (h *PaymentHandlers) history(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.checkout == nil {
		writePaymentServiceUnavailable(ctx, w)
		return
	}

	email := chi.URLParam(r, "email")
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || !identity.OwnsEmail(email) {
		httpx.WriteError(ctx, w, httpx.NewError("forbidden", "token does not match requested email", http.StatusForbidden))
		return
	}

	records, err := h.checkout.HistoryByOwner(ctx, email)
	if err != nil {
		writeCheckoutError(ctx, w, err)
		return
	}

	payload := make([]paymentPayload, 0, len(records))
	for _, record := range records {
		payload = append(payload, buildPaymentPayload(record))
	}
	httpx.WriteJSON(w, http.StatusOK, payload)
}

func (h *PaymentHandlers) createIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.provider == nil {
		httpx.WriteError(ctx, w, httpx.NewError("payment_provider_unavailable", "payment provider unavailable", http.StatusServiceUnavailable))
		return
	}

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "authentication required", http.StatusUnauthorized))
		return
	}

	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}
	if req.Price <= 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "price must be positive", http.StatusBadRequest))
		return
	}

	intent, err := h.provider.CreateIntent(ctx, payments.IntentRequest{
		Amount:       req.Price,
		ReceiptEmail: identity.Email,
	})
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("payment_intent_failed", "unable to create payment intent", http.StatusBadGateway))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, createIntentResponse{ClientSecret: intent.ClientSecret})
}

func buildPaymentPayload(record domain.PaymentRecord) paymentPayload {
	payload := paymentPayload{
		ID:          record.ID,
		OwnerEmail:  record.OwnerEmail,
		Amount:      record.Amount,
		CartItemIDs: domain.ItemIDStrings(record.CartItemIDs),
		MenuItemIDs: domain.ItemIDStrings(record.MenuItemIDs),
	}
	if payload.CartItemIDs == nil {
		payload.CartItemIDs = []string{}
	}
	if payload.MenuItemIDs == nil {
		payload.MenuItemIDs = []string{}
	}
	if !record.CreatedAt.IsZero() {
		payload.CreatedAt = record.CreatedAt.UTC().Format(time.RFC3339)
	}
	return payload
}

func idValueStrings(values []idValue) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = string(value)
	}
	return out
}

func writePaymentServiceUnavailable(ctx context.Context, w http.ResponseWriter) {
	httpx.WriteError(ctx, w, httpx.NewError("checkout_service_unavailable", "checkout service unavailable", http.StatusServiceUnavailable))
}

func writeCheckoutError(ctx context.Context, w http.ResponseWriter, err error) {
	var cleanup *services.CleanupFailedError
	switch {
	case errors.As(err, &cleanup):
		httpx.WriteError(ctx, w, httpx.NewError(
			"payment_recorded_cleanup_failed",
			"payment recorded but cart cleanup failed",
			http.StatusInternalServerError,
		).WithDetails(map[string]any{"paymentId": cleanup.PaymentID}))
	case errors.Is(err, services.ErrCheckoutInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCheckoutUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("payment_store_unavailable", "unable to record payment", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unable to process payment request", http.StatusInternalServerError))
	}
}
