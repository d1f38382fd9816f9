package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/bistro-boss/api/internal/domain"
	pfirestore "github.com/bistro-boss/api/internal/platform/firestore"
)

const menuCollection = "menu"

type menuDocument struct {
	Name     string  `firestore:"name"`
	Category string  `firestore:"category"`
	Price    float64 `firestore:"price"`
	Image    string  `firestore:"image"`
	Recipe   string  `firestore:"recipe"`
}

// MenuRepository persists catalog entries keyed by canonical item id.
type MenuRepository struct {
	base *pfirestore.BaseRepository[menuDocument]
}

// NewMenuRepository constructs a Firestore-backed menu repository.
func NewMenuRepository(provider *pfirestore.Provider) (*MenuRepository, error) {
	if provider == nil {
		return nil, errors.New("menu repository requires firestore provider")
	}
	return &MenuRepository{
		base: pfirestore.NewBaseRepository[menuDocument](provider, menuCollection, nil),
	}, nil
}

// Insert creates the catalog entry, failing with a conflict when the id is
// already taken.
func (r *MenuRepository) Insert(ctx context.Context, item domain.MenuItem) error {
	if item.ID.IsZero() {
		return errors.New("menu repository: item id is required")
	}

	doc := menuDocument{
		Name:     strings.TrimSpace(item.Name),
		Category: strings.TrimSpace(item.Category),
		Price:    item.Price,
		Image:    strings.TrimSpace(item.Image),
		Recipe:   strings.TrimSpace(item.Recipe),
	}
	_, err := r.base.Create(ctx, item.ID.String(), doc)
	return err
}

// FindByIDs loads the catalog entries for the given ids in a single batch.
// Ids that resolve to no entry are omitted from the result.
func (r *MenuRepository) FindByIDs(ctx context.Context, ids []domain.ItemID) ([]domain.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	docs, err := r.base.GetMany(ctx, domain.ItemIDStrings(ids))
	if err != nil {
		return nil, err
	}

	items := make([]domain.MenuItem, 0, len(docs))
	for _, doc := range docs {
		item, err := menuItemFromDocument(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// List returns the whole catalog ordered by category then name.
func (r *MenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.OrderBy("category", firestore.Asc).OrderBy("name", firestore.Asc)
	})
	if err != nil {
		return nil, err
	}

	items := make([]domain.MenuItem, 0, len(docs))
	for _, doc := range docs {
		item, err := menuItemFromDocument(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Delete removes the catalog entry.
func (r *MenuRepository) Delete(ctx context.Context, id domain.ItemID) error {
	if id.IsZero() {
		return errors.New("menu repository: item id is required")
	}
	return r.base.Delete(ctx, id.String())
}

// Count reports the catalog cardinality via a server-side aggregation.
func (r *MenuRepository) Count(ctx context.Context) (int64, error) {
	return r.base.Count(ctx, nil)
}

func menuItemFromDocument(doc pfirestore.Document[menuDocument]) (domain.MenuItem, error) {
	id, err := domain.ParseItemID(doc.ID)
	if err != nil {
		return domain.MenuItem{}, err
	}
	return domain.MenuItem{
		ID:       id,
		Name:     doc.Data.Name,
		Category: doc.Data.Category,
		Price:    doc.Data.Price,
		Image:    doc.Data.Image,
		Recipe:   doc.Data.Recipe,
	}, nil
}
