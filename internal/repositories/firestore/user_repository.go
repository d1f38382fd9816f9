// Package firestore provides Firestore-backed implementations of the
// repository contracts. Documents use camelCase field names matching the
// collections the web client already reads.
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/bistro-boss/api/internal/domain"
	pfirestore "github.com/bistro-boss/api/internal/platform/firestore"
)

const userCollection = "users"

type userDocument struct {
	Email     string    `firestore:"email"`
	Name      string    `firestore:"name"`
	Role      string    `firestore:"role"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// UserRepository persists registered identities keyed by lowercased email.
type UserRepository struct {
	base *pfirestore.BaseRepository[userDocument]
}

// NewUserRepository constructs a Firestore-backed user repository.
func NewUserRepository(provider *pfirestore.Provider) (*UserRepository, error) {
	if provider == nil {
		return nil, errors.New("user repository requires firestore provider")
	}
	return &UserRepository{
		base: pfirestore.NewBaseRepository[userDocument](provider, userCollection, nil),
	}, nil
}

// Insert creates the user document, failing with a conflict when the email
// is already registered.
func (r *UserRepository) Insert(ctx context.Context, user domain.User) error {
	email := normalizeEmail(user.Email)
	if email == "" {
		return errors.New("user repository: email is required")
	}

	doc := userDocument{
		Email:     email,
		Name:      strings.TrimSpace(user.Name),
		Role:      strings.TrimSpace(user.Role),
		CreatedAt: user.CreatedAt.UTC(),
	}
	if doc.Role == "" {
		doc.Role = domain.RoleCustomer
	}

	_, err := r.base.Create(ctx, email, doc)
	return err
}

// FindByEmail loads the user registered under the given email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return domain.User{}, errors.New("user repository: email is required")
	}

	doc, err := r.base.Get(ctx, normalized)
	if err != nil {
		return domain.User{}, err
	}
	return userFromDocument(doc), nil
}

// List returns every registered user ordered by registration time.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.OrderBy("createdAt", firestore.Asc)
	})
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, userFromDocument(doc))
	}
	return users, nil
}

// Promote records a new role for the user.
func (r *UserRepository) Promote(ctx context.Context, email string, role string) error {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return errors.New("user repository: email is required")
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return errors.New("user repository: role is required")
	}

	_, err := r.base.Update(ctx, normalized, []firestore.Update{
		{Path: "role", Value: role},
	})
	return err
}

// Delete removes the user document.
func (r *UserRepository) Delete(ctx context.Context, email string) error {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return errors.New("user repository: email is required")
	}
	return r.base.Delete(ctx, normalized)
}

// Count reports the registered-user cardinality via a server-side aggregation.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.base.Count(ctx, nil)
}

func userFromDocument(doc pfirestore.Document[userDocument]) domain.User {
	role := strings.ToLower(strings.TrimSpace(doc.Data.Role))
	if role == "" {
		role = domain.RoleCustomer
	}
	email := normalizeEmail(doc.Data.Email)
	if email == "" {
		email = doc.ID
	}
	createdAt := doc.Data.CreatedAt
	if createdAt.IsZero() {
		createdAt = doc.CreateTime
	}
	return domain.User{
		ID:        doc.ID,
		Email:     email,
		Name:      strings.TrimSpace(doc.Data.Name),
		Role:      role,
		CreatedAt: createdAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
