package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/bistro-boss/api/internal/domain"
	"github.com/bistro-boss/api/internal/repositories"
)

const cartItemIDPrefix = "cart_"

var (
	// ErrCartInvalidInput indicates validation failures for cart operations.
	ErrCartInvalidInput = errors.New("cart: invalid input")
	// ErrCartItemNotFound indicates the cart item does not exist.
	ErrCartItemNotFound = errors.New("cart: item not found")
	// ErrCartForbidden indicates the caller does not own the cart item.
	ErrCartForbidden = errors.New("cart: item owned by another customer")
)

// CartServiceDeps bundles collaborators required to construct a CartService.
type CartServiceDeps struct {
	Carts       repositories.CartRepository
	Clock       func() time.Time
	IDGenerator func() string
}

type cartService struct {
	carts repositories.CartRepository
	clock func() time.Time
	newID func() string
}

// NewCartService wires dependencies into a concrete CartService implementation.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Carts == nil {
		return nil, errors.New("cart service: cart repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string {
			return cartItemIDPrefix + ulid.Make().String()
		}
	}

	return &cartService{
		carts: deps.Carts,
		clock: func() time.Time {
			return clock().UTC()
		},
		newID: idGen,
	}, nil
}

// AddItem stores a new cart line for the owner.
func (s *cartService) AddItem(ctx context.Context, cmd AddCartItemCommand) (domain.CartItem, error) {
	owner := strings.ToLower(strings.TrimSpace(cmd.OwnerEmail))
	if owner == "" {
		return domain.CartItem{}, fmt.Errorf("%w: owner email is required", ErrCartInvalidInput)
	}
	menuItemID, err := domain.ParseItemID(cmd.MenuItemID)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("%w: menu item %v", ErrCartInvalidInput, err)
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return domain.CartItem{}, fmt.Errorf("%w: name is required", ErrCartInvalidInput)
	}
	if cmd.Price < 0 {
		return domain.CartItem{}, fmt.Errorf("%w: price must not be negative", ErrCartInvalidInput)
	}

	id, err := domain.ParseItemID(s.newID())
	if err != nil {
		return domain.CartItem{}, err
	}

	item := domain.CartItem{
		ID:         id,
		OwnerEmail: owner,
		MenuItemID: menuItemID,
		Name:       name,
		Price:      cmd.Price,
		Image:      strings.TrimSpace(cmd.Image),
		CreatedAt:  s.clock(),
	}
	return s.carts.Insert(ctx, item)
}

// ListByOwner returns the owner's open cart items.
func (s *cartService) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.CartItem, error) {
	owner := strings.ToLower(strings.TrimSpace(ownerEmail))
	if owner == "" {
		return nil, fmt.Errorf("%w: owner email is required", ErrCartInvalidInput)
	}
	return s.carts.ListByOwner(ctx, owner)
}

// RemoveItem deletes a single cart line after confirming the caller owns it.
func (s *cartService) RemoveItem(ctx context.Context, ownerEmail string, rawID string) error {
	owner := strings.ToLower(strings.TrimSpace(ownerEmail))
	if owner == "" {
		return fmt.Errorf("%w: owner email is required", ErrCartInvalidInput)
	}
	id, err := domain.ParseItemID(rawID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCartInvalidInput, err)
	}

	item, err := s.carts.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrCartItemNotFound, id)
		}
		return err
	}
	if !strings.EqualFold(item.OwnerEmail, owner) {
		return ErrCartForbidden
	}

	return s.carts.Delete(ctx, id)
}
