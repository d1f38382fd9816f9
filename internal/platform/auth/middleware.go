package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

const defaultVerifyTimeout = 5 * time.Second

// RoleResolver looks up the role recorded for an email in the identity store.
// The role is always resolved from the token's email, never from a
// client-supplied parameter.
type RoleResolver interface {
	RoleByEmail(ctx context.Context, email string) (string, error)
}

// RoleResolverFunc adapts ordinary functions to RoleResolver.
type RoleResolverFunc func(ctx context.Context, email string) (string, error)

// RoleByEmail resolves the role using the wrapped function.
func (f RoleResolverFunc) RoleByEmail(ctx context.Context, email string) (string, error) {
	return f(ctx, email)
}

// Authenticator wires bearer-token verification into HTTP middleware.
type Authenticator struct {
	tokens  *JWTManager
	roles   RoleResolver
	timeout time.Duration
}

// Option customises Authenticator behaviour.
type Option func(*Authenticator)

// WithRoleResolver enables role checks backed by the identity store.
func WithRoleResolver(resolver RoleResolver) Option {
	return func(a *Authenticator) {
		a.roles = resolver
	}
}

// WithVerificationTimeout bounds the identity-store lookup per request.
func WithVerificationTimeout(d time.Duration) Option {
	return func(a *Authenticator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// NewAuthenticator constructs an Authenticator for middleware composition.
func NewAuthenticator(tokens *JWTManager, opts ...Option) (*Authenticator, error) {
	if tokens == nil {
		return nil, errors.New("auth: token manager is required")
	}
	a := &Authenticator{
		tokens:  tokens,
		timeout: defaultVerifyTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

// RequireAuth verifies the Authorization bearer token and, when roles are
// supplied, confirms the caller holds one of them via the identity store.
// Authentication failures respond 401 with distinct codes; a role mismatch
// responds 403.
func (a *Authenticator) RequireAuth(allowedRoles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		role = strings.ToLower(strings.TrimSpace(role))
		if role == "" {
			continue
		}
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := extractBearerToken(r.Header.Get("Authorization"))
			if !ok {
				respondAuthError(w, http.StatusUnauthorized, "missing_token", "authorization header missing or invalid")
				return
			}

			claims, err := a.tokens.Verify(tokenStr)
			if err != nil {
				respondVerificationError(w, err)
				return
			}

			identity := &Identity{Email: strings.ToLower(strings.TrimSpace(claims.Email))}

			if len(allowed) > 0 {
				if a.roles == nil {
					respondAuthError(w, http.StatusForbidden, "insufficient_role", "role verification unavailable")
					return
				}

				ctx, cancel := a.contextWithTimeout(r.Context())
				role, err := a.roles.RoleByEmail(ctx, identity.Email)
				if cancel != nil {
					cancel()
				}
				if err != nil {
					respondAuthError(w, http.StatusForbidden, "insufficient_role", "identity role could not be resolved")
					return
				}

				identity.Role = strings.ToLower(strings.TrimSpace(role))
				if _, ok := allowed[identity.Role]; !ok {
					respondAuthError(w, http.StatusForbidden, "insufficient_role", "identity does not have required role")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func (a *Authenticator) contextWithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a == nil || a.timeout <= 0 {
		return ctx, nil
	}
	return context.WithTimeout(ctx, a.timeout)
}

func extractBearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func respondAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   code,
		"message": message,
		"status":  status,
	})
}

func respondVerificationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTokenExpired):
		respondAuthError(w, http.StatusUnauthorized, "token_expired", "access token expired")
	default:
		respondAuthError(w, http.StatusUnauthorized, "invalid_token", "access token invalid")
	}
}
