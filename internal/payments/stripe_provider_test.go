package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v78"
)

type stubIntentAPI struct {
	newFunc func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

func (s *stubIntentAPI) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if s.newFunc == nil {
		return nil, errors.New("unexpected New call")
	}
	return s.newFunc(params)
}

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{10, 1000},
		{10.5, 1050},
		{0.1, 10},
		// 19.99 is not representable exactly in binary; rounding keeps cents stable.
		{19.99, 1999},
		{0.005, 1},
	}
	for _, tc := range cases {
		if got := MinorUnits(tc.amount); got != tc.want {
			t.Fatalf("MinorUnits(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestCreateIntentBuildsCardParams(t *testing.T) {
	ctx := context.Background()

	var captured *stripe.PaymentIntentParams
	provider, err := NewStripeProvider(StripeProviderConfig{
		Intents: &stubIntentAPI{
			newFunc: func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
				captured = params
				return &stripe.PaymentIntent{
					ID:           "pi_1",
					ClientSecret: "pi_1_secret",
					Amount:       4250,
					Currency:     stripe.CurrencyUSD,
				}, nil
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	intent, err := provider.CreateIntent(ctx, IntentRequest{
		Amount:       42.5,
		ReceiptEmail: "customer@example.com",
		Metadata:     map[string]string{"paymentId": "pay_1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if intent.ID != "pi_1" || intent.ClientSecret != "pi_1_secret" {
		t.Fatalf("unexpected intent: %+v", intent)
	}
	if captured == nil {
		t.Fatal("expected params to reach the intents API")
	}
	if got := stripe.Int64Value(captured.Amount); got != 4250 {
		t.Fatalf("expected minor units 4250, got %d", got)
	}
	if got := stripe.StringValue(captured.Currency); got != "usd" {
		t.Fatalf("expected default currency usd, got %q", got)
	}
	if len(captured.PaymentMethodTypes) != 1 || stripe.StringValue(captured.PaymentMethodTypes[0]) != "card" {
		t.Fatalf("expected card payment method, got %v", captured.PaymentMethodTypes)
	}
	if got := stripe.StringValue(captured.ReceiptEmail); got != "customer@example.com" {
		t.Fatalf("unexpected receipt email %q", got)
	}
	if captured.Metadata["paymentId"] != "pay_1" {
		t.Fatalf("unexpected metadata %v", captured.Metadata)
	}
}

func TestCreateIntentRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	provider, err := NewStripeProvider(StripeProviderConfig{Intents: &stubIntentAPI{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := provider.CreateIntent(ctx, IntentRequest{Amount: 0}); err == nil {
		t.Fatal("expected an error for a zero amount")
	}
	if _, err := provider.CreateIntent(ctx, IntentRequest{Amount: -5}); err == nil {
		t.Fatal("expected an error for a negative amount")
	}
}

func TestNewStripeProviderRequiresKey(t *testing.T) {
	if _, err := NewStripeProvider(StripeProviderConfig{}); err == nil {
		t.Fatal("expected an error without an api key")
	}
}
