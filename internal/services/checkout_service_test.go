package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bistro-boss/api/internal/domain"
)

func TestCheckoutRecordsPaymentAndClearsCart(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)

	var inserted domain.PaymentRecord
	paymentRepo := &stubPaymentRepository{
		insertFunc: func(_ context.Context, payment domain.PaymentRecord) error {
			inserted = payment
			return nil
		},
	}

	var deleteOwner string
	var deleteIDs []domain.ItemID
	cartRepo := &stubCartRepository{
		deleteOwnedFunc: func(_ context.Context, ownerEmail string, ids []domain.ItemID) (int, error) {
			deleteOwner = ownerEmail
			deleteIDs = ids
			return len(ids), nil
		},
	}

	svc, err := NewCheckoutService(CheckoutServiceDeps{
		Payments:    paymentRepo,
		Carts:       cartRepo,
		Clock:       func() time.Time { return now },
		IDGenerator: func() string { return "pay_test" },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Checkout(ctx, CheckoutCommand{
		OwnerEmail:  " Customer@Example.com ",
		Amount:      42.5,
		CartItemIDs: []string{"cart_a", "007"},
		MenuItemIDs: []string{"9", "menu_b"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Payment.ID != "pay_test" {
		t.Fatalf("expected generated payment id, got %q", result.Payment.ID)
	}
	if result.RemovedCount != 2 {
		t.Fatalf("expected 2 removed items, got %d", result.RemovedCount)
	}
	if inserted.OwnerEmail != "customer@example.com" {
		t.Fatalf("expected normalised owner email, got %q", inserted.OwnerEmail)
	}
	if !inserted.CreatedAt.Equal(now) {
		t.Fatalf("expected payment timestamp %v, got %v", now, inserted.CreatedAt)
	}
	if got := domain.ItemIDStrings(inserted.CartItemIDs); len(got) != 2 || got[0] != "cart_a" || got[1] != "7" {
		t.Fatalf("expected normalised cart ids [cart_a 7], got %v", got)
	}
	if got := domain.ItemIDStrings(inserted.MenuItemIDs); len(got) != 2 || got[0] != "9" || got[1] != "menu_b" {
		t.Fatalf("expected normalised menu ids [9 menu_b], got %v", got)
	}
	if deleteOwner != "customer@example.com" {
		t.Fatalf("expected cleanup scoped to owner, got %q", deleteOwner)
	}
	if len(deleteIDs) != 2 {
		t.Fatalf("expected cleanup of 2 ids, got %v", deleteIDs)
	}
}

func TestCheckoutRejectsMalformedIDBeforeAnyWrite(t *testing.T) {
	ctx := context.Background()

	paymentRepo := &stubPaymentRepository{
		insertFunc: func(context.Context, domain.PaymentRecord) error {
			t.Fatal("payment must not be written for invalid input")
			return nil
		},
	}
	cartRepo := &stubCartRepository{
		deleteOwnedFunc: func(context.Context, string, []domain.ItemID) (int, error) {
			t.Fatal("cart must not be touched for invalid input")
			return 0, nil
		},
	}

	svc, err := NewCheckoutService(CheckoutServiceDeps{Payments: paymentRepo, Carts: cartRepo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Checkout(ctx, CheckoutCommand{
		OwnerEmail:  "customer@example.com",
		Amount:      10,
		CartItemIDs: []string{"cart_a", "   "},
	})
	if !errors.Is(err, ErrCheckoutInvalidInput) {
		t.Fatalf("expected ErrCheckoutInvalidInput, got %v", err)
	}
}

func TestCheckoutValidatesOwnerAndAmount(t *testing.T) {
	ctx := context.Background()
	svc, err := NewCheckoutService(CheckoutServiceDeps{
		Payments: &stubPaymentRepository{},
		Carts:    &stubCartRepository{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Checkout(ctx, CheckoutCommand{Amount: 10}); !errors.Is(err, ErrCheckoutInvalidInput) {
		t.Fatalf("expected ErrCheckoutInvalidInput for missing owner, got %v", err)
	}
	if _, err := svc.Checkout(ctx, CheckoutCommand{OwnerEmail: "a@b.com", Amount: 0}); !errors.Is(err, ErrCheckoutInvalidInput) {
		t.Fatalf("expected ErrCheckoutInvalidInput for zero amount, got %v", err)
	}
	if _, err := svc.Checkout(ctx, CheckoutCommand{OwnerEmail: "a@b.com", Amount: -5}); !errors.Is(err, ErrCheckoutInvalidInput) {
		t.Fatalf("expected ErrCheckoutInvalidInput for negative amount, got %v", err)
	}
}

func TestCheckoutCleanupFailureCarriesPaymentID(t *testing.T) {
	ctx := context.Background()

	paymentRepo := &stubPaymentRepository{
		insertFunc: func(context.Context, domain.PaymentRecord) error { return nil },
	}
	cartRepo := &stubCartRepository{
		deleteOwnedFunc: func(context.Context, string, []domain.ItemID) (int, error) {
			return 0, &stubRepositoryError{msg: "transaction aborted", unavailable: true}
		},
	}

	svc, err := NewCheckoutService(CheckoutServiceDeps{
		Payments:    paymentRepo,
		Carts:       cartRepo,
		IDGenerator: func() string { return "pay_stranded" },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Checkout(ctx, CheckoutCommand{
		OwnerEmail:  "customer@example.com",
		Amount:      10,
		CartItemIDs: []string{"cart_a"},
	})

	var cleanup *CleanupFailedError
	if !errors.As(err, &cleanup) {
		t.Fatalf("expected CleanupFailedError, got %v", err)
	}
	if cleanup.PaymentID != "pay_stranded" {
		t.Fatalf("expected stranded payment id, got %q", cleanup.PaymentID)
	}
	if result.Payment.ID != "pay_stranded" {
		t.Fatalf("expected recorded payment in result, got %q", result.Payment.ID)
	}
}

func TestCheckoutWithEmptyCartSkipsCleanup(t *testing.T) {
	ctx := context.Background()

	paymentRepo := &stubPaymentRepository{
		insertFunc: func(context.Context, domain.PaymentRecord) error { return nil },
	}
	cartRepo := &stubCartRepository{
		deleteOwnedFunc: func(context.Context, string, []domain.ItemID) (int, error) {
			t.Fatal("cleanup must not run for an empty cart id list")
			return 0, nil
		},
	}

	svc, err := NewCheckoutService(CheckoutServiceDeps{Payments: paymentRepo, Carts: cartRepo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Checkout(ctx, CheckoutCommand{
		OwnerEmail: "customer@example.com",
		Amount:     10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RemovedCount != 0 {
		t.Fatalf("expected no removed items, got %d", result.RemovedCount)
	}
}

func TestCheckoutInsertFailureMapsToUnavailable(t *testing.T) {
	ctx := context.Background()

	paymentRepo := &stubPaymentRepository{
		insertFunc: func(context.Context, domain.PaymentRecord) error {
			return &stubRepositoryError{msg: "write failed", unavailable: true}
		},
	}
	cartRepo := &stubCartRepository{
		deleteOwnedFunc: func(context.Context, string, []domain.ItemID) (int, error) {
			t.Fatal("cleanup must not run when the payment write fails")
			return 0, nil
		},
	}

	svc, err := NewCheckoutService(CheckoutServiceDeps{Payments: paymentRepo, Carts: cartRepo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Checkout(ctx, CheckoutCommand{
		OwnerEmail:  "customer@example.com",
		Amount:      10,
		CartItemIDs: []string{"cart_a"},
	})
	if !errors.Is(err, ErrCheckoutUnavailable) {
		t.Fatalf("expected ErrCheckoutUnavailable, got %v", err)
	}
}

func TestHistoryByOwnerNormalisesEmail(t *testing.T) {
	ctx := context.Background()

	var requested string
	paymentRepo := &stubPaymentRepository{
		listByOwnerFunc: func(_ context.Context, ownerEmail string) ([]domain.PaymentRecord, error) {
			requested = ownerEmail
			return []domain.PaymentRecord{{ID: "pay_1", OwnerEmail: ownerEmail}}, nil
		},
	}

	svc, err := NewCheckoutService(CheckoutServiceDeps{Payments: paymentRepo, Carts: &stubCartRepository{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := svc.HistoryByOwner(ctx, " Customer@Example.com ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requested != "customer@example.com" {
		t.Fatalf("expected normalised owner email, got %q", requested)
	}
	if len(records) != 1 || records[0].ID != "pay_1" {
		t.Fatalf("unexpected records: %v", records)
	}

	if _, err := svc.HistoryByOwner(ctx, "  "); !errors.Is(err, ErrCheckoutInvalidInput) {
		t.Fatalf("expected ErrCheckoutInvalidInput for blank owner, got %v", err)
	}
}
