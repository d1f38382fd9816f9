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

const paymentCollection = "payments"

type paymentDocument struct {
	OwnerEmail  string    `firestore:"ownerEmail"`
	Amount      float64   `firestore:"amount"`
	CartItemIDs []string  `firestore:"cartItemIds"`
	MenuItemIDs []string  `firestore:"menuItemIds"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

// PaymentRepository persists settled payment records. Records are written
// once by checkout and never mutated.
type PaymentRepository struct {
	base *pfirestore.BaseRepository[paymentDocument]
}

// NewPaymentRepository constructs a Firestore-backed payment repository.
func NewPaymentRepository(provider *pfirestore.Provider) (*PaymentRepository, error) {
	if provider == nil {
		return nil, errors.New("payment repository requires firestore provider")
	}
	return &PaymentRepository{
		base: pfirestore.NewBaseRepository[paymentDocument](provider, paymentCollection, nil),
	}, nil
}

// Insert creates the payment record, failing with a conflict when the id is
// already taken.
func (r *PaymentRepository) Insert(ctx context.Context, payment domain.PaymentRecord) error {
	id := strings.TrimSpace(payment.ID)
	if id == "" {
		return errors.New("payment repository: payment id is required")
	}
	owner := normalizeEmail(payment.OwnerEmail)
	if owner == "" {
		return errors.New("payment repository: owner email is required")
	}

	doc := paymentDocument{
		OwnerEmail:  owner,
		Amount:      payment.Amount,
		CartItemIDs: domain.ItemIDStrings(payment.CartItemIDs),
		MenuItemIDs: domain.ItemIDStrings(payment.MenuItemIDs),
		CreatedAt:   payment.CreatedAt.UTC(),
	}
	_, err := r.base.Create(ctx, id, doc)
	return err
}

// ListByOwner returns the owner's payment history, newest first.
func (r *PaymentRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.PaymentRecord, error) {
	owner := normalizeEmail(ownerEmail)
	if owner == "" {
		return nil, errors.New("payment repository: owner email is required")
	}

	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("ownerEmail", "==", owner).OrderBy("createdAt", firestore.Desc)
	})
	if err != nil {
		return nil, err
	}
	return paymentsFromDocuments(docs)
}

// ListAll returns every payment record, newest first.
func (r *PaymentRepository) ListAll(ctx context.Context) ([]domain.PaymentRecord, error) {
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.OrderBy("createdAt", firestore.Desc)
	})
	if err != nil {
		return nil, err
	}
	return paymentsFromDocuments(docs)
}

// SumAmounts totals all settled payment amounts via a server-side
// aggregation, without loading any records.
func (r *PaymentRepository) SumAmounts(ctx context.Context) (float64, error) {
	return r.base.Sum(ctx, "amount", nil)
}

func paymentsFromDocuments(docs []pfirestore.Document[paymentDocument]) ([]domain.PaymentRecord, error) {
	payments := make([]domain.PaymentRecord, 0, len(docs))
	for _, doc := range docs {
		cartIDs, err := domain.ParseItemIDs(doc.Data.CartItemIDs)
		if err != nil {
			return nil, err
		}
		menuIDs, err := domain.ParseItemIDs(doc.Data.MenuItemIDs)
		if err != nil {
			return nil, err
		}
		payments = append(payments, domain.PaymentRecord{
			ID:          doc.ID,
			OwnerEmail:  doc.Data.OwnerEmail,
			Amount:      doc.Data.Amount,
			CartItemIDs: cartIDs,
			MenuItemIDs: menuIDs,
			CreatedAt:   doc.Data.CreatedAt,
		})
	}
	return payments, nil
}
