package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"

	"github.com/bistro-boss/api/internal/domain"
	pfirestore "github.com/bistro-boss/api/internal/platform/firestore"
)

const reviewCollection = "reviews"

type reviewDocument struct {
	Name    string  `firestore:"name"`
	Details string  `firestore:"details"`
	Rating  float64 `firestore:"rating"`
}

// ReviewRepository reads customer testimonials.
type ReviewRepository struct {
	base *pfirestore.BaseRepository[reviewDocument]
}

// NewReviewRepository constructs a Firestore-backed review repository.
func NewReviewRepository(provider *pfirestore.Provider) (*ReviewRepository, error) {
	if provider == nil {
		return nil, errors.New("review repository requires firestore provider")
	}
	return &ReviewRepository{
		base: pfirestore.NewBaseRepository[reviewDocument](provider, reviewCollection, nil),
	}, nil
}

// List returns every review ordered by rating, best first.
func (r *ReviewRepository) List(ctx context.Context) ([]domain.Review, error) {
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.OrderBy("rating", firestore.Desc)
	})
	if err != nil {
		return nil, err
	}

	reviews := make([]domain.Review, 0, len(docs))
	for _, doc := range docs {
		reviews = append(reviews, domain.Review{
			ID:      doc.ID,
			Name:    doc.Data.Name,
			Details: doc.Data.Details,
			Rating:  doc.Data.Rating,
		})
	}
	return reviews, nil
}
