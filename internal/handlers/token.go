package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bistro-boss/api/internal/platform/auth"
	"github.com/bistro-boss/api/internal/platform/httpx"
)

// TokenHandlers issues access tokens for the web client.
type TokenHandlers struct {
	tokens *auth.JWTManager
}

// NewTokenHandlers constructs a new TokenHandlers instance.
func NewTokenHandlers(tokens *auth.JWTManager) *TokenHandlers {
	return &TokenHandlers{tokens: tokens}
}

// Routes registers the token issuance endpoint.
func (h *TokenHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/jwt", h.issue)
}

type issueTokenRequest struct {
	Email string `json:"email"`
}

type issueTokenResponse struct {
	Token string `json:"token"`
}

func (h *TokenHandlers) issue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.tokens == nil {
		httpx.WriteError(ctx, w, httpx.NewError("token_service_unavailable", "token service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "email is required", http.StatusBadRequest))
		return
	}

	token, err := h.tokens.Issue(req.Email)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("token_issue_failed", "unable to issue token", http.StatusInternalServerError))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, issueTokenResponse{Token: token})
}
