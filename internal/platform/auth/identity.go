package auth

import (
	"context"
	"strings"
)

// Role constants used when checking authorisation boundaries. They mirror the
// roles stored on user documents.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Identity captures the authenticated principal extracted from a bearer
// token. Role is populated only when a route demanded a role check; routes
// that authenticate without authorising leave it empty.
type Identity struct {
	Email string
	Role  string
}

// HasRole reports whether the identity carries the requested role
// (case-insensitive).
func (i *Identity) HasRole(role string) bool {
	if i == nil {
		return false
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return false
	}
	return strings.EqualFold(i.Role, role)
}

// OwnsEmail reports whether the identity's email matches the supplied value.
// Endpoints that accept an email parameter must fail closed when this is
// false, so a valid token can never read another identity's records.
func (i *Identity) OwnsEmail(email string) bool {
	if i == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(i.Email), strings.TrimSpace(email))
}

type contextKey string

const identityContextKey contextKey = "github.com/bistro-boss/api/internal/platform/auth/identity"

// WithIdentity stores the identity within the context for downstream handlers.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity previously stored in context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
