// Package domain defines the entities shared across services, repositories,
// and handlers. Entities carry no persistence concerns; repositories map them
// to and from their document representations.
package domain

import "time"

// Roles assignable to a registered user.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a registered identity keyed by email. Created on first
// registration; only the role is ever mutated afterwards.
type User struct {
	ID        string
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// MenuItem is a catalog entry. Read-only from the core's perspective except
// for admin catalog management.
type MenuItem struct {
	ID       ItemID
	Name     string
	Category string
	Price    float64
	Image    string
	Recipe   string
}

// Review is a customer testimonial shown on the public site.
type Review struct {
	ID      string
	Name    string
	Details string
	Rating  float64
}

// CartItem is a pending order line owned by a customer. Consumed (deleted)
// exclusively by checkout.
type CartItem struct {
	ID         ItemID
	OwnerEmail string
	MenuItemID ItemID
	Name       string
	Price      float64
	Image      string
	CreatedAt  time.Time
}

// PaymentRecord is written exactly once per successful checkout and is
// immutable afterwards.
type PaymentRecord struct {
	ID          string
	OwnerEmail  string
	Amount      float64
	CartItemIDs []ItemID
	MenuItemIDs []ItemID
	CreatedAt   time.Time
}

// CategoryRevenue is one row of the revenue-by-category report.
type CategoryRevenue struct {
	Category string
	Quantity int
	Revenue  float64
}

// SystemSummary aggregates store cardinalities and total revenue for the
// admin dashboard.
type SystemSummary struct {
	UserCount      int64
	MenuItemCount  int64
	OpenOrderCount int64
	TotalRevenue   float64
}
