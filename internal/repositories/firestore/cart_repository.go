package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/bistro-boss/api/internal/domain"
	pfirestore "github.com/bistro-boss/api/internal/platform/firestore"
)

const cartCollection = "carts"

type cartDocument struct {
	OwnerEmail string    `firestore:"ownerEmail"`
	MenuItemID string    `firestore:"menuItemId"`
	Name       string    `firestore:"name"`
	Price      float64   `firestore:"price"`
	Image      string    `firestore:"image"`
	CreatedAt  time.Time `firestore:"createdAt"`
}

// CartRepository persists open cart items. Cart items are only ever removed
// one at a time by their owner or in bulk by checkout.
type CartRepository struct {
	base     *pfirestore.BaseRepository[cartDocument]
	provider *pfirestore.Provider
}

// NewCartRepository constructs a Firestore-backed cart repository.
func NewCartRepository(provider *pfirestore.Provider) (*CartRepository, error) {
	if provider == nil {
		return nil, errors.New("cart repository requires firestore provider")
	}
	return &CartRepository{
		base:     pfirestore.NewBaseRepository[cartDocument](provider, cartCollection, nil),
		provider: provider,
	}, nil
}

// Insert creates the cart item document.
func (r *CartRepository) Insert(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	if item.ID.IsZero() {
		return domain.CartItem{}, errors.New("cart repository: item id is required")
	}
	owner := normalizeEmail(item.OwnerEmail)
	if owner == "" {
		return domain.CartItem{}, errors.New("cart repository: owner email is required")
	}

	doc := cartDocument{
		OwnerEmail: owner,
		MenuItemID: item.MenuItemID.String(),
		Name:       strings.TrimSpace(item.Name),
		Price:      item.Price,
		Image:      strings.TrimSpace(item.Image),
		CreatedAt:  item.CreatedAt.UTC(),
	}
	if _, err := r.base.Create(ctx, item.ID.String(), doc); err != nil {
		return domain.CartItem{}, err
	}

	saved := item
	saved.OwnerEmail = owner
	return saved, nil
}

// FindByID loads a single cart item.
func (r *CartRepository) FindByID(ctx context.Context, id domain.ItemID) (domain.CartItem, error) {
	if id.IsZero() {
		return domain.CartItem{}, errors.New("cart repository: item id is required")
	}

	doc, err := r.base.Get(ctx, id.String())
	if err != nil {
		return domain.CartItem{}, err
	}
	return cartItemFromDocument(doc.ID, doc.Data)
}

// ListByOwner returns the owner's open cart items, oldest first.
func (r *CartRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.CartItem, error) {
	owner := normalizeEmail(ownerEmail)
	if owner == "" {
		return nil, errors.New("cart repository: owner email is required")
	}

	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("ownerEmail", "==", owner).OrderBy("createdAt", firestore.Asc)
	})
	if err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, 0, len(docs))
	for _, doc := range docs {
		item, err := cartItemFromDocument(doc.ID, doc.Data)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Delete removes a single cart item.
func (r *CartRepository) Delete(ctx context.Context, id domain.ItemID) error {
	if id.IsZero() {
		return errors.New("cart repository: item id is required")
	}
	return r.base.Delete(ctx, id.String())
}

// DeleteOwned removes the given cart items inside a transaction. Items that
// no longer exist are skipped; an item owned by a different email aborts the
// whole transaction so a caller can never clear another customer's cart.
func (r *CartRepository) DeleteOwned(ctx context.Context, ownerEmail string, ids []domain.ItemID) (int, error) {
	owner := normalizeEmail(ownerEmail)
	if owner == "" {
		return 0, errors.New("cart repository: owner email is required")
	}
	if len(ids) == 0 {
		return 0, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			return 0, errors.New("cart repository: item id is required")
		}
		ref, err := r.base.DocumentRef(ctx, id.String())
		if err != nil {
			return 0, err
		}
		refs = append(refs, ref)
	}

	deleted := 0
	err := r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		deleted = 0
		snapshots, err := tx.GetAll(refs)
		if err != nil {
			return err
		}
		for _, snapshot := range snapshots {
			if snapshot == nil || !snapshot.Exists() {
				continue
			}
			var doc cartDocument
			if err := snapshot.DataTo(&doc); err != nil {
				return err
			}
			if normalizeEmail(doc.OwnerEmail) != owner {
				return pfirestore.ConflictError("carts.deleteowned",
					fmt.Errorf("cart item %s is not owned by caller", snapshot.Ref.ID))
			}
			if err := tx.Delete(snapshot.Ref); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Count reports the open cart-item cardinality via a server-side aggregation.
func (r *CartRepository) Count(ctx context.Context) (int64, error) {
	return r.base.Count(ctx, nil)
}

func cartItemFromDocument(id string, doc cartDocument) (domain.CartItem, error) {
	itemID, err := domain.ParseItemID(id)
	if err != nil {
		return domain.CartItem{}, err
	}
	menuItemID, err := domain.ParseItemID(doc.MenuItemID)
	if err != nil {
		return domain.CartItem{}, err
	}
	return domain.CartItem{
		ID:         itemID,
		OwnerEmail: normalizeEmail(doc.OwnerEmail),
		MenuItemID: menuItemID,
		Name:       doc.Name,
		Price:      doc.Price,
		Image:      doc.Image,
		CreatedAt:  doc.CreatedAt,
	}, nil
}
