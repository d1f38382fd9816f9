package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	ctx := context.Background()
	cfg, err := Load(ctx,
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{
			"API_FIRESTORE_PROJECT_ID": "bistro-test",
			"API_AUTH_JWT_SECRET":      "shhh",
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second || cfg.Server.WriteTimeout != 30*time.Second {
		t.Fatalf("unexpected server timeouts: %+v", cfg.Server)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Fatalf("expected default token ttl, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Firestore.ProjectID != "bistro-test" {
		t.Fatalf("unexpected project id %q", cfg.Firestore.ProjectID)
	}
}

func TestLoadOverrides(t *testing.T) {
	ctx := context.Background()
	cfg, err := Load(ctx,
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithEnvMap(map[string]string{
			"API_SERVER_PORT":          "9090",
			"API_SERVER_READ_TIMEOUT":  "5s",
			"API_AUTH_TOKEN_TTL":       "30m",
			"API_FIRESTORE_PROJECT_ID": "bistro-test",
			"API_AUTH_JWT_SECRET":      "shhh",
			"API_PSP_STRIPE_API_KEY":   "sk_test_123",
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Fatalf("expected overridden port, got %q", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("expected overridden read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Fatalf("expected overridden token ttl, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.PSP.StripeAPIKey != "sk_test_123" {
		t.Fatalf("unexpected stripe key %q", cfg.PSP.StripeAPIKey)
	}
}

func TestLoadValidationFailure(t *testing.T) {
	ctx := context.Background()
	_, err := Load(ctx, WithoutSystemEnv(), WithEnvFile(""))

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	fields := validation.Fields()
	want := map[string]bool{"Firestore.ProjectID": false, "Auth.JWTSecret": false}
	for _, field := range fields {
		if _, ok := want[field]; ok {
			want[field] = true
		}
	}
	for field, seen := range want {
		if !seen {
			t.Fatalf("expected %s in validation fields, got %v", field, fields)
		}
	}
}

func TestLoadResolvesSecretReferences(t *testing.T) {
	ctx := context.Background()

	var resolvedRefs []string
	resolver := SecretResolverFunc(func(_ context.Context, ref string) (string, error) {
		resolvedRefs = append(resolvedRefs, ref)
		return "resolved-" + ref, nil
	})

	cfg, err := Load(ctx,
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithSecretResolver(resolver),
		WithEnvMap(map[string]string{
			"API_FIRESTORE_PROJECT_ID": "bistro-test",
			"API_AUTH_JWT_SECRET":      "secret://jwt-secret",
			"API_PSP_STRIPE_API_KEY":   "sm://stripe-key",
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Auth.JWTSecret != "resolved-secret://jwt-secret" {
		t.Fatalf("expected resolved jwt secret, got %q", cfg.Auth.JWTSecret)
	}
	// sm:// references normalise to the secret:// scheme before resolution.
	if cfg.PSP.StripeAPIKey != "resolved-secret://stripe-key" {
		t.Fatalf("expected normalised stripe reference, got %q", cfg.PSP.StripeAPIKey)
	}
	if len(resolvedRefs) != 2 {
		t.Fatalf("expected 2 resolutions, got %v", resolvedRefs)
	}
}

func TestLoadSecretResolutionFailure(t *testing.T) {
	ctx := context.Background()

	resolver := SecretResolverFunc(func(context.Context, string) (string, error) {
		return "", errors.New("access denied")
	})

	_, err := Load(ctx,
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithSecretResolver(resolver),
		WithEnvMap(map[string]string{
			"API_FIRESTORE_PROJECT_ID": "bistro-test",
			"API_AUTH_JWT_SECRET":      "secret://jwt-secret",
		}),
	)

	var secretErr *SecretError
	if !errors.As(err, &secretErr) {
		t.Fatalf("expected SecretError, got %v", err)
	}
	if secretErr.Ref != "secret://jwt-secret" {
		t.Fatalf("unexpected ref %q", secretErr.Ref)
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	contents := "# local overrides\nexport API_SERVER_PORT=7070\nAPI_FIRESTORE_PROJECT_ID=\"bistro-local\"\nAPI_AUTH_JWT_SECRET='shhh'\n"
	if err := os.WriteFile(envFile, []byte(contents), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := Load(ctx, WithoutSystemEnv(), WithEnvFile(envFile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Fatalf("expected port from .env, got %q", cfg.Server.Port)
	}
	if cfg.Firestore.ProjectID != "bistro-local" {
		t.Fatalf("expected unquoted project id, got %q", cfg.Firestore.ProjectID)
	}
	if cfg.Auth.JWTSecret != "shhh" {
		t.Fatalf("expected unquoted secret, got %q", cfg.Auth.JWTSecret)
	}
}

func TestLoadEnvMapBeatsDotEnv(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("API_SERVER_PORT=7070\n"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := Load(ctx,
		WithoutSystemEnv(),
		WithEnvFile(envFile),
		WithEnvMap(map[string]string{
			"API_SERVER_PORT":          "9090",
			"API_FIRESTORE_PROJECT_ID": "bistro-test",
			"API_AUTH_JWT_SECRET":      "shhh",
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Fatalf("expected env map to win, got %q", cfg.Server.Port)
	}
}
