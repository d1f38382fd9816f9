package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/bistro-boss/api/internal/domain"
	"github.com/bistro-boss/api/internal/repositories"
)

// ErrAnalyticsUnavailable indicates an aggregation source could not be read.
var ErrAnalyticsUnavailable = errors.New("analytics: store unavailable")

// AnalyticsServiceDeps bundles collaborators required to construct an AnalyticsService.
type AnalyticsServiceDeps struct {
	Users    repositories.UserRepository
	Menu     repositories.MenuRepository
	Carts    repositories.CartRepository
	Payments repositories.PaymentRepository
}

type analyticsService struct {
	users    repositories.UserRepository
	menu     repositories.MenuRepository
	carts    repositories.CartRepository
	payments repositories.PaymentRepository
}

// NewAnalyticsService wires dependencies into a concrete AnalyticsService implementation.
func NewAnalyticsService(deps AnalyticsServiceDeps) (AnalyticsService, error) {
	if deps.Users == nil {
		return nil, errors.New("analytics service: user repository is required")
	}
	if deps.Menu == nil {
		return nil, errors.New("analytics service: menu repository is required")
	}
	if deps.Carts == nil {
		return nil, errors.New("analytics service: cart repository is required")
	}
	if deps.Payments == nil {
		return nil, errors.New("analytics service: payment repository is required")
	}

	return &analyticsService{
		users:    deps.Users,
		menu:     deps.Menu,
		carts:    deps.Carts,
		payments: deps.Payments,
	}, nil
}

// Summary reports store cardinalities and total revenue. Counts and the
// revenue sum run as server-side aggregations; no documents are loaded.
// An empty store yields all zeros rather than an error.
func (s *analyticsService) Summary(ctx context.Context) (domain.SystemSummary, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return domain.SystemSummary{}, s.mapError("user count", err)
	}
	menuCount, err := s.menu.Count(ctx)
	if err != nil {
		return domain.SystemSummary{}, s.mapError("menu count", err)
	}
	cartCount, err := s.carts.Count(ctx)
	if err != nil {
		return domain.SystemSummary{}, s.mapError("cart count", err)
	}
	revenue, err := s.payments.SumAmounts(ctx)
	if err != nil {
		return domain.SystemSummary{}, s.mapError("revenue sum", err)
	}

	return domain.SystemSummary{
		UserCount:      userCount,
		MenuItemCount:  menuCount,
		OpenOrderCount: cartCount,
		TotalRevenue:   revenue,
	}, nil
}

// RevenueByCategory joins every settled payment's menu item ids against the
// catalog and groups quantity and revenue per category. Ids that no longer
// resolve to a catalog entry are dropped from the report; revenue is valued
// at the current catalog price.
func (s *analyticsService) RevenueByCategory(ctx context.Context) ([]domain.CategoryRevenue, error) {
	records, err := s.payments.ListAll(ctx)
	if err != nil {
		return nil, s.mapError("payment list", err)
	}
	if len(records) == 0 {
		return []domain.CategoryRevenue{}, nil
	}

	seen := make(map[string]struct{})
	var ids []domain.ItemID
	for _, record := range records {
		for _, id := range record.MenuItemIDs {
			key := id.String()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []domain.CategoryRevenue{}, nil
	}

	items, err := s.menu.FindByIDs(ctx, ids)
	if err != nil {
		return nil, s.mapError("menu join", err)
	}

	catalog := make(map[string]domain.MenuItem, len(items))
	for _, item := range items {
		catalog[item.ID.String()] = item
	}

	grouped := make(map[string]*domain.CategoryRevenue)
	for _, record := range records {
		for _, id := range record.MenuItemIDs {
			item, ok := catalog[id.String()]
			if !ok {
				continue
			}
			row, ok := grouped[item.Category]
			if !ok {
				row = &domain.CategoryRevenue{Category: item.Category}
				grouped[item.Category] = row
			}
			row.Quantity++
			row.Revenue += item.Price
		}
	}

	report := make([]domain.CategoryRevenue, 0, len(grouped))
	for _, row := range grouped {
		report = append(report, *row)
	}
	sort.Slice(report, func(i, j int) bool {
		return report[i].Category < report[j].Category
	})
	return report, nil
}

func (s *analyticsService) mapError(step string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrAnalyticsUnavailable, step, err)
}
