// Package payments abstracts the payment service provider used to collect
// card payments before checkout settles.
package payments

import (
	"context"
	"math"
)

// IntentRequest captures the payload required to open a payment intent.
type IntentRequest struct {
	// Amount is the order total in the store currency's major unit.
	Amount         float64
	Currency       string
	ReceiptEmail   string
	IdempotencyKey string
	Metadata       map[string]string
}

// Intent is the PSP-side handle the client uses to complete the payment.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}

// Provider creates payment intents with the configured PSP.
type Provider interface {
	CreateIntent(ctx context.Context, req IntentRequest) (Intent, error)
}

// MinorUnits converts a major-unit amount to the PSP's integer minor units,
// rounding half away from zero. Prices are stored in major units; only the
// PSP boundary deals in cents.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
