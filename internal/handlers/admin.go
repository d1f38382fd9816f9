package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bistro-boss/api/internal/platform/auth"
	"github.com/bistro-boss/api/internal/platform/httpx"
	"github.com/bistro-boss/api/internal/services"
)

// AdminHandlers exposes the admin dashboard aggregations.
type AdminHandlers struct {
	authn     *auth.Authenticator
	analytics services.AnalyticsService
}

// NewAdminHandlers constructs a new AdminHandlers instance.
func NewAdminHandlers(authn *auth.Authenticator, analytics services.AnalyticsService) *AdminHandlers {
	return &AdminHandlers{
		authn:     authn,
		analytics: analytics,
	}
}

// Routes registers the admin reporting endpoints at the router root.
func (h *AdminHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	requireAdmin := func(next http.Handler) http.Handler { return next }
	if h.authn != nil {
		requireAdmin = h.authn.RequireAuth(auth.RoleAdmin)
	}
	r.With(requireAdmin).Get("/admin-info", h.summary)
	r.With(requireAdmin).Get("/order", h.revenueByCategory)
}

type summaryResponse struct {
	UserCount      int64   `json:"userCount"`
	MenuItemCount  int64   `json:"menuItemCount"`
	OpenOrderCount int64   `json:"openOrderCount"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

type categoryRevenuePayload struct {
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

func (h *AdminHandlers) summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.analytics == nil {
		writeAnalyticsServiceUnavailable(w, r)
		return
	}

	summary, err := h.analytics.Summary(ctx)
	if err != nil {
		writeAnalyticsError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, summaryResponse{
		UserCount:      summary.UserCount,
		MenuItemCount:  summary.MenuItemCount,
		OpenOrderCount: summary.OpenOrderCount,
		TotalRevenue:   summary.TotalRevenue,
	})
}

func (h *AdminHandlers) revenueByCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.analytics == nil {
		writeAnalyticsServiceUnavailable(w, r)
		return
	}

	report, err := h.analytics.RevenueByCategory(ctx)
	if err != nil {
		writeAnalyticsError(w, r, err)
		return
	}

	payload := make([]categoryRevenuePayload, 0, len(report))
	for _, row := range report {
		payload = append(payload, categoryRevenuePayload{
			Category: row.Category,
			Quantity: row.Quantity,
			Revenue:  row.Revenue,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, payload)
}

func writeAnalyticsServiceUnavailable(w http.ResponseWriter, r *http.Request) {
	httpx.WriteError(r.Context(), w, httpx.NewError("analytics_service_unavailable", "analytics service unavailable", http.StatusServiceUnavailable))
}

func writeAnalyticsError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrAnalyticsUnavailable) {
		httpx.WriteError(r.Context(), w, httpx.NewError("analytics_unavailable", "unable to read analytics sources", http.StatusServiceUnavailable))
		return
	}
	httpx.WriteError(r.Context(), w, httpx.NewError("internal_error", "unable to process analytics request", http.StatusInternalServerError))
}
