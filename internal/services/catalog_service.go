package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/bistro-boss/api/internal/domain"
	"github.com/bistro-boss/api/internal/repositories"
)

const menuItemIDPrefix = "menu_"

// ErrCatalogInvalidInput indicates validation failures for catalog operations.
var ErrCatalogInvalidInput = errors.New("catalog: invalid input")

// CatalogServiceDeps bundles collaborators required to construct a CatalogService.
type CatalogServiceDeps struct {
	Menu        repositories.MenuRepository
	Reviews     repositories.ReviewRepository
	IDGenerator func() string
}

type catalogService struct {
	menu    repositories.MenuRepository
	reviews repositories.ReviewRepository
	newID   func() string
}

// NewCatalogService wires dependencies into a concrete CatalogService implementation.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Menu == nil {
		return nil, errors.New("catalog service: menu repository is required")
	}
	if deps.Reviews == nil {
		return nil, errors.New("catalog service: review repository is required")
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string {
			return menuItemIDPrefix + ulid.Make().String()
		}
	}

	return &catalogService{
		menu:    deps.Menu,
		reviews: deps.Reviews,
		newID:   idGen,
	}, nil
}

// ListMenu returns the whole catalog.
func (s *catalogService) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	return s.menu.List(ctx)
}

// CreateMenuItem adds a catalog entry with a freshly generated id.
func (s *catalogService) CreateMenuItem(ctx context.Context, cmd CreateMenuItemCommand) (domain.MenuItem, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return domain.MenuItem{}, fmt.Errorf("%w: name is required", ErrCatalogInvalidInput)
	}
	category := strings.TrimSpace(cmd.Category)
	if category == "" {
		return domain.MenuItem{}, fmt.Errorf("%w: category is required", ErrCatalogInvalidInput)
	}
	if cmd.Price <= 0 {
		return domain.MenuItem{}, fmt.Errorf("%w: price must be positive", ErrCatalogInvalidInput)
	}

	id, err := domain.ParseItemID(s.newID())
	if err != nil {
		return domain.MenuItem{}, err
	}

	item := domain.MenuItem{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    cmd.Price,
		Image:    strings.TrimSpace(cmd.Image),
		Recipe:   strings.TrimSpace(cmd.Recipe),
	}
	if err := s.menu.Insert(ctx, item); err != nil {
		return domain.MenuItem{}, err
	}
	return item, nil
}

// DeleteMenuItem removes a catalog entry.
func (s *catalogService) DeleteMenuItem(ctx context.Context, rawID string) error {
	id, err := domain.ParseItemID(rawID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogInvalidInput, err)
	}
	return s.menu.Delete(ctx, id)
}

// ListReviews returns every customer review.
func (s *catalogService) ListReviews(ctx context.Context) ([]domain.Review, error) {
	return s.reviews.List(ctx)
}
