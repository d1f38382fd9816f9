// Package repositories defines persistence contracts consumed by the
// service layer. Implementations live in subpackages keyed by backend.
package repositories

import (
	"context"

	"github.com/bistro-boss/api/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// UserRepository persists registered identities and their roles.
type UserRepository interface {
	Insert(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Promote(ctx context.Context, email string, role string) error
	Delete(ctx context.Context, email string) error
	Count(ctx context.Context) (int64, error)
}

// MenuRepository persists the menu catalog.
type MenuRepository interface {
	Insert(ctx context.Context, item domain.MenuItem) error
	FindByIDs(ctx context.Context, ids []domain.ItemID) ([]domain.MenuItem, error)
	List(ctx context.Context) ([]domain.MenuItem, error)
	Delete(ctx context.Context, id domain.ItemID) error
	Count(ctx context.Context) (int64, error)
}

// ReviewRepository reads customer reviews.
type ReviewRepository interface {
	List(ctx context.Context) ([]domain.Review, error)
}

// CartRepository persists open cart items keyed by owner email.
type CartRepository interface {
	Insert(ctx context.Context, item domain.CartItem) (domain.CartItem, error)
	FindByID(ctx context.Context, id domain.ItemID) (domain.CartItem, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]domain.CartItem, error)
	Delete(ctx context.Context, id domain.ItemID) error
	// DeleteOwned removes the given cart items only when every one of them
	// belongs to ownerEmail, and reports how many were removed.
	DeleteOwned(ctx context.Context, ownerEmail string, ids []domain.ItemID) (int, error)
	Count(ctx context.Context) (int64, error)
}

// PaymentRepository persists settled payment records.
type PaymentRepository interface {
	Insert(ctx context.Context, payment domain.PaymentRecord) error
	ListByOwner(ctx context.Context, ownerEmail string) ([]domain.PaymentRecord, error)
	ListAll(ctx context.Context) ([]domain.PaymentRecord, error)
	SumAmounts(ctx context.Context) (float64, error)
}
