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

const paymentIDPrefix = "pay_"

var (
	// ErrCheckoutInvalidInput indicates validation failures before any write.
	ErrCheckoutInvalidInput = errors.New("checkout: invalid input")
	// ErrCheckoutUnavailable indicates the payment record could not be written.
	ErrCheckoutUnavailable = errors.New("checkout: payment store unavailable")
)

// CleanupFailedError reports that the payment record was written but the cart
// cleanup afterwards failed. The payment id lets operators reconcile the
// stranded cart items; callers must surface it rather than retrying the
// whole checkout.
type CleanupFailedError struct {
	PaymentID string
	Err       error
}

// Error implements the error interface.
func (e *CleanupFailedError) Error() string {
	return fmt.Sprintf("checkout: payment %s recorded but cart cleanup failed: %v", e.PaymentID, e.Err)
}

// Unwrap exposes the underlying cleanup failure.
func (e *CleanupFailedError) Unwrap() error { return e.Err }

// CheckoutServiceDeps bundles collaborators required to construct a CheckoutService.
type CheckoutServiceDeps struct {
	Payments    repositories.PaymentRepository
	Carts       repositories.CartRepository
	Clock       func() time.Time
	IDGenerator func() string
}

type checkoutService struct {
	payments repositories.PaymentRepository
	carts    repositories.CartRepository
	clock    func() time.Time
	newID    func() string
}

// NewCheckoutService wires dependencies into a concrete CheckoutService implementation.
func NewCheckoutService(deps CheckoutServiceDeps) (CheckoutService, error) {
	if deps.Payments == nil {
		return nil, errors.New("checkout service: payment repository is required")
	}
	if deps.Carts == nil {
		return nil, errors.New("checkout service: cart repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string {
			return paymentIDPrefix + ulid.Make().String()
		}
	}

	return &checkoutService{
		payments: deps.Payments,
		carts:    deps.Carts,
		clock: func() time.Time {
			return clock().UTC()
		},
		newID: idGen,
	}, nil
}

// Checkout records the settled payment and then clears the consumed cart
// items. Validation happens before any write: a single malformed id fails
// the whole request with no state change. A cleanup failure after the
// payment write returns CleanupFailedError carrying the payment id.
func (s *checkoutService) Checkout(ctx context.Context, cmd CheckoutCommand) (CheckoutResult, error) {
	owner := strings.ToLower(strings.TrimSpace(cmd.OwnerEmail))
	if owner == "" {
		return CheckoutResult{}, fmt.Errorf("%w: owner email is required", ErrCheckoutInvalidInput)
	}
	if cmd.Amount <= 0 {
		return CheckoutResult{}, fmt.Errorf("%w: amount must be positive", ErrCheckoutInvalidInput)
	}

	cartIDs, err := domain.ParseItemIDs(cmd.CartItemIDs)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("%w: cart item %v", ErrCheckoutInvalidInput, err)
	}
	menuIDs, err := domain.ParseItemIDs(cmd.MenuItemIDs)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("%w: menu item %v", ErrCheckoutInvalidInput, err)
	}

	payment := domain.PaymentRecord{
		ID:          s.newID(),
		OwnerEmail:  owner,
		Amount:      cmd.Amount,
		CartItemIDs: cartIDs,
		MenuItemIDs: menuIDs,
		CreatedAt:   s.clock(),
	}

	if err := s.payments.Insert(ctx, payment); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return CheckoutResult{}, err
		}
		return CheckoutResult{}, fmt.Errorf("%w: %v", ErrCheckoutUnavailable, err)
	}

	// An empty cart id list is a valid payment-only checkout.
	removed := 0
	if len(cartIDs) > 0 {
		removed, err = s.carts.DeleteOwned(ctx, owner, cartIDs)
		if err != nil {
			return CheckoutResult{Payment: payment}, &CleanupFailedError{PaymentID: payment.ID, Err: err}
		}
	}

	return CheckoutResult{Payment: payment, RemovedCount: removed}, nil
}

// HistoryByOwner returns the owner's settled payments, newest first.
func (s *checkoutService) HistoryByOwner(ctx context.Context, ownerEmail string) ([]domain.PaymentRecord, error) {
	owner := strings.ToLower(strings.TrimSpace(ownerEmail))
	if owner == "" {
		return nil, fmt.Errorf("%w: owner email is required", ErrCheckoutInvalidInput)
	}
	return s.payments.ListByOwner(ctx, owner)
}
