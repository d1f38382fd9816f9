package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestAuthenticator(t *testing.T, opts ...Option) (*Authenticator, *JWTManager) {
	t.Helper()
	manager, err := NewJWTManager(testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	authn, err := NewAuthenticator(manager, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return authn, manager
}

func decodeAuthError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body.Error
}

func TestRequireAuthMissingToken(t *testing.T) {
	authn, _ := newTestAuthenticator(t)

	handler := authn.RequireAuth()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/carts", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := decodeAuthError(t, rec); code != "missing_token" {
		t.Fatalf("expected missing_token, got %q", code)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	authn, _ := newTestAuthenticator(t)

	handler := authn.RequireAuth()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/carts", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := decodeAuthError(t, rec); code != "invalid_token" {
		t.Fatalf("expected invalid_token, got %q", code)
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	now := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	manager, err := NewJWTManager(testSecret, WithClock(clock), WithTokenTTL(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	authn, err := NewAuthenticator(manager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := manager.Issue("customer@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now = now.Add(time.Hour)

	handler := authn.RequireAuth()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run with an expired token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/carts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if code := decodeAuthError(t, rec); code != "token_expired" {
		t.Fatalf("expected token_expired, got %q", code)
	}
}

func TestRequireAuthInjectsIdentity(t *testing.T) {
	authn, manager := newTestAuthenticator(t)

	token, err := manager.Issue("Customer@Example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var seen *Identity
	handler := authn.RequireAuth()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("expected identity in context")
		}
		seen = identity
	}))

	req := httptest.NewRequest(http.MethodGet, "/carts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen == nil || seen.Email != "customer@example.com" {
		t.Fatalf("expected normalised identity email, got %+v", seen)
	}
	if seen.Role != "" {
		t.Fatalf("expected no role resolution without a role requirement, got %q", seen.Role)
	}
}

func TestRequireAuthRoleMismatch(t *testing.T) {
	resolver := RoleResolverFunc(func(_ context.Context, email string) (string, error) {
		return RoleCustomer, nil
	})
	authn, manager := newTestAuthenticator(t, WithRoleResolver(resolver))

	token, err := manager.Issue("customer@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	handler := authn.RequireAuth(RoleAdmin)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for an insufficient role")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin-info", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if code := decodeAuthError(t, rec); code != "insufficient_role" {
		t.Fatalf("expected insufficient_role, got %q", code)
	}
}

func TestRequireAuthAdminPasses(t *testing.T) {
	var resolvedEmail string
	resolver := RoleResolverFunc(func(_ context.Context, email string) (string, error) {
		resolvedEmail = email
		return RoleAdmin, nil
	})
	authn, manager := newTestAuthenticator(t, WithRoleResolver(resolver))

	token, err := manager.Issue("boss@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var seen *Identity
	handler := authn.RequireAuth(RoleAdmin)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())
		seen = identity
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin-info", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resolvedEmail != "boss@example.com" {
		t.Fatalf("expected role resolved from token email, got %q", resolvedEmail)
	}
	if seen == nil || seen.Role != RoleAdmin {
		t.Fatalf("expected admin identity, got %+v", seen)
	}
}

func TestRequireAuthRoleResolverFailureFailsClosed(t *testing.T) {
	resolver := RoleResolverFunc(func(context.Context, string) (string, error) {
		return "", errors.New("store down")
	})
	authn, manager := newTestAuthenticator(t, WithRoleResolver(resolver))

	token, err := manager.Issue("boss@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	handler := authn.RequireAuth(RoleAdmin)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run when the role cannot be resolved")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin-info", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestOwnsEmailIsCaseInsensitive(t *testing.T) {
	identity := &Identity{Email: "customer@example.com"}
	if !identity.OwnsEmail(" Customer@Example.COM ") {
		t.Fatal("expected case-insensitive match")
	}
	if identity.OwnsEmail("other@example.com") {
		t.Fatal("expected mismatch for a different email")
	}
	var nilIdentity *Identity
	if nilIdentity.OwnsEmail("customer@example.com") {
		t.Fatal("nil identity must not own any email")
	}
}
