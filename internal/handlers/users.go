package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bistro-boss/api/internal/domain"
	"github.com/bistro-boss/api/internal/platform/auth"
	"github.com/bistro-boss/api/internal/platform/httpx"
	"github.com/bistro-boss/api/internal/services"
)

// UserHandlers exposes registration and admin user management endpoints.
type UserHandlers struct {
	authn *auth.Authenticator
	users services.UserService
}

// NewUserHandlers constructs a new UserHandlers instance.
func NewUserHandlers(authn *auth.Authenticator, users services.UserService) *UserHandlers {
	return &UserHandlers{
		authn: authn,
		users: users,
	}
}

// Routes registers the /users endpoints.
func (h *UserHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.register)
	if h.authn != nil {
		r.With(h.authn.RequireAuth(auth.RoleAdmin)).Get("/", h.list)
		r.With(h.authn.RequireAuth()).Get("/admin/{email}", h.adminFlag)
		r.With(h.authn.RequireAuth(auth.RoleAdmin)).Patch("/admin/{email}", h.promote)
		r.With(h.authn.RequireAuth(auth.RoleAdmin)).Delete("/{email}", h.remove)
	}
}

type registerUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type userPayload struct {
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (h *UserHandlers) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.users == nil {
		writeUserServiceUnavailable(ctx, w)
		return
	}

	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	user, created, err := h.users.Register(ctx, services.RegisterUserCommand{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		writeUserError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpx.WriteJSON(w, status, buildUserPayload(user))
}

func (h *UserHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.users == nil {
		writeUserServiceUnavailable(ctx, w)
		return
	}

	users, err := h.users.List(ctx)
	if err != nil {
		writeUserError(ctx, w, err)
		return
	}

	payload := make([]userPayload, 0, len(users))
	for _, user := range users {
		payload = append(payload, buildUserPayload(user))
	}
	httpx.WriteJSON(w, http.StatusOK, payload)
}

func (h *UserHandlers) adminFlag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.users == nil {
		writeUserServiceUnavailable(ctx, w)
		return
	}

	email := chi.URLParam(r, "email")
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || !identity.OwnsEmail(email) {
		httpx.WriteError(ctx, w, httpx.NewError("forbidden", "token does not match requested email", http.StatusForbidden))
		return
	}

	admin, err := h.users.IsAdmin(ctx, email)
	if err != nil {
		writeUserError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"admin": admin})
}

func (h *UserHandlers) promote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.users == nil {
		writeUserServiceUnavailable(ctx, w)
		return
	}

	email := chi.URLParam(r, "email")
	if err := h.users.PromoteToAdmin(ctx, email); err != nil {
		writeUserError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"email": strings.ToLower(strings.TrimSpace(email)),
		"role":  domain.RoleAdmin,
	})
}

func (h *UserHandlers) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.users == nil {
		writeUserServiceUnavailable(ctx, w)
		return
	}

	email := chi.URLParam(r, "email")
	if err := h.users.Delete(ctx, email); err != nil {
		writeUserError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func buildUserPayload(user domain.User) userPayload {
	payload := userPayload{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
	if !user.CreatedAt.IsZero() {
		payload.CreatedAt = user.CreatedAt.UTC().Format(time.RFC3339)
	}
	return payload
}

func writeUserServiceUnavailable(ctx context.Context, w http.ResponseWriter) {
	httpx.WriteError(ctx, w, httpx.NewError("user_service_unavailable", "user service unavailable", http.StatusServiceUnavailable))
}

func writeUserError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUserInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrUserNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("user_not_found", "user not found", http.StatusNotFound))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unable to process user request", http.StatusInternalServerError))
	}
}
