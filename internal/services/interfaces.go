// Package services contains the application logic between HTTP handlers and
// repositories. Services validate commands, enforce ownership, and translate
// repository failures into sentinel errors handlers can map onto responses.
package services

import (
	"context"

	"github.com/bistro-boss/api/internal/domain"
)

// RegisterUserCommand captures a first-login registration request.
type RegisterUserCommand struct {
	Email string
	Name  string
}

// UserService manages registered identities and their roles.
type UserService interface {
	// Register creates the user on first sight and reports whether a new
	// record was written. Re-registration returns the existing user.
	Register(ctx context.Context, cmd RegisterUserCommand) (domain.User, bool, error)
	List(ctx context.Context) ([]domain.User, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
	RoleByEmail(ctx context.Context, email string) (string, error)
	PromoteToAdmin(ctx context.Context, email string) error
	Delete(ctx context.Context, email string) error
}

// CreateMenuItemCommand captures an admin catalog insertion.
type CreateMenuItemCommand struct {
	Name     string
	Category string
	Price    float64
	Image    string
	Recipe   string
}

// CatalogService exposes the public menu and review listings plus admin
// catalog management.
type CatalogService interface {
	ListMenu(ctx context.Context) ([]domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, cmd CreateMenuItemCommand) (domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, rawID string) error
	ListReviews(ctx context.Context) ([]domain.Review, error)
}

// AddCartItemCommand captures a customer adding a menu item to their cart.
type AddCartItemCommand struct {
	OwnerEmail string
	MenuItemID string
	Name       string
	Price      float64
	Image      string
}

// CartService manages a customer's open cart items.
type CartService interface {
	AddItem(ctx context.Context, cmd AddCartItemCommand) (domain.CartItem, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]domain.CartItem, error)
	RemoveItem(ctx context.Context, ownerEmail string, rawID string) error
}

// CheckoutCommand carries a settled payment and the cart items it consumed.
// Item ids arrive in their raw wire form and are normalised before any write.
type CheckoutCommand struct {
	OwnerEmail  string
	Amount      float64
	CartItemIDs []string
	MenuItemIDs []string
}

// CheckoutResult reports the recorded payment and how many cart items the
// cleanup step removed.
type CheckoutResult struct {
	Payment      domain.PaymentRecord
	RemovedCount int
}

// CheckoutService reconciles settled payments against open cart items.
type CheckoutService interface {
	Checkout(ctx context.Context, cmd CheckoutCommand) (CheckoutResult, error)
	HistoryByOwner(ctx context.Context, ownerEmail string) ([]domain.PaymentRecord, error)
}

// AnalyticsService aggregates store-wide figures for the admin dashboard.
type AnalyticsService interface {
	Summary(ctx context.Context) (domain.SystemSummary, error)
	RevenueByCategory(ctx context.Context) ([]domain.CategoryRevenue, error)
}
