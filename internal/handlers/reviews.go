package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bistro-boss/api/internal/platform/httpx"
	"github.com/bistro-boss/api/internal/services"
)

// ReviewHandlers exposes the public review listing.
type ReviewHandlers struct {
	catalog services.CatalogService
}

// NewReviewHandlers constructs a new ReviewHandlers instance.
func NewReviewHandlers(catalog services.CatalogService) *ReviewHandlers {
	return &ReviewHandlers{catalog: catalog}
}

// Routes registers the /reviews endpoints.
func (h *ReviewHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.list)
}

type reviewPayload struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Details string  `json:"details"`
	Rating  float64 `json:"rating"`
}

func (h *ReviewHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		writeCatalogServiceUnavailable(ctx, w)
		return
	}

	reviews, err := h.catalog.ListReviews(ctx)
	if err != nil {
		writeCatalogError(ctx, w, err)
		return
	}

	payload := make([]reviewPayload, 0, len(reviews))
	for _, review := range reviews {
		payload = append(payload, reviewPayload{
			ID:      review.ID,
			Name:    review.Name,
			Details: review.Details,
			Rating:  review.Rating,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, payload)
}
