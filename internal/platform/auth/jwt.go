package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTokenTTL is the fixed access-token lifetime from issuance.
const DefaultTokenTTL = time.Hour

var (
	// ErrMissingToken signals that no bearer token accompanied the request.
	ErrMissingToken = errors.New("auth: authorization token required")
	// ErrTokenExpired signals that the token's lifetime has elapsed.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenInvalid signals a malformed token or a bad signature.
	ErrTokenInvalid = errors.New("auth: token invalid")
)

// Claims carries the identity email alongside the registered JWT claims.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 access tokens embedding the caller's
// email. Tokens carry a fixed lifetime; expiry and tampering are reported as
// distinct errors so middleware can surface distinct response codes.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// JWTOption customises JWTManager construction.
type JWTOption func(*JWTManager)

// WithTokenTTL overrides the token lifetime.
func WithTokenTTL(ttl time.Duration) JWTOption {
	return func(m *JWTManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock overrides the time source, used by tests to pin issuance time.
func WithClock(clock func() time.Time) JWTOption {
	return func(m *JWTManager) {
		if clock != nil {
			m.now = clock
		}
	}
}

// NewJWTManager constructs a manager signing with the given shared secret.
func NewJWTManager(secret string, opts ...JWTOption) (*JWTManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	m := &JWTManager{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m, nil
}

// Issue signs a token for the given email with the configured lifetime.
func (m *JWTManager) Issue(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", errors.New("auth: email is required")
	}

	now := m.now().UTC()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims when valid.
// Time-based claims are checked against the manager's clock rather than the
// parser's, so tests and clock-skewed deployments see consistent expiry.
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	now := m.now().UTC()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, ErrTokenExpired
	}
	if !claims.VerifyNotBefore(now, false) {
		return nil, fmt.Errorf("%w: token not yet valid", ErrTokenInvalid)
	}
	if strings.TrimSpace(claims.Email) == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrTokenInvalid)
	}
	return claims, nil
}
