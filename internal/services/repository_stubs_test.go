package services

import (
	"context"
	"errors"

	"github.com/bistro-boss/api/internal/domain"
)

// stubRepositoryError lets tests simulate categorised repository failures.
type stubRepositoryError struct {
	msg         string
	notFound    bool
	conflict    bool
	unavailable bool
}

func (e *stubRepositoryError) Error() string       { return e.msg }
func (e *stubRepositoryError) IsNotFound() bool    { return e.notFound }
func (e *stubRepositoryError) IsConflict() bool    { return e.conflict }
func (e *stubRepositoryError) IsUnavailable() bool { return e.unavailable }

type stubUserRepository struct {
	insertFunc      func(ctx context.Context, user domain.User) error
	findByEmailFunc func(ctx context.Context, email string) (domain.User, error)
	listFunc        func(ctx context.Context) ([]domain.User, error)
	promoteFunc     func(ctx context.Context, email string, role string) error
	deleteFunc      func(ctx context.Context, email string) error
	countFunc       func(ctx context.Context) (int64, error)
}

func (s *stubUserRepository) Insert(ctx context.Context, user domain.User) error {
	if s.insertFunc == nil {
		return errors.New("unexpected Insert call")
	}
	return s.insertFunc(ctx, user)
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if s.findByEmailFunc == nil {
		return domain.User{}, errors.New("unexpected FindByEmail call")
	}
	return s.findByEmailFunc(ctx, email)
}

func (s *stubUserRepository) List(ctx context.Context) ([]domain.User, error) {
	if s.listFunc == nil {
		return nil, errors.New("unexpected List call")
	}
	return s.listFunc(ctx)
}

func (s *stubUserRepository) Promote(ctx context.Context, email string, role string) error {
	if s.promoteFunc == nil {
		return errors.New("unexpected Promote call")
	}
	return s.promoteFunc(ctx, email, role)
}

func (s *stubUserRepository) Delete(ctx context.Context, email string) error {
	if s.deleteFunc == nil {
		return errors.New("unexpected Delete call")
	}
	return s.deleteFunc(ctx, email)
}

func (s *stubUserRepository) Count(ctx context.Context) (int64, error) {
	if s.countFunc == nil {
		return 0, errors.New("unexpected Count call")
	}
	return s.countFunc(ctx)
}

type stubMenuRepository struct {
	insertFunc    func(ctx context.Context, item domain.MenuItem) error
	findByIDsFunc func(ctx context.Context, ids []domain.ItemID) ([]domain.MenuItem, error)
	listFunc      func(ctx context.Context) ([]domain.MenuItem, error)
	deleteFunc    func(ctx context.Context, id domain.ItemID) error
	countFunc     func(ctx context.Context) (int64, error)
}

func (s *stubMenuRepository) Insert(ctx context.Context, item domain.MenuItem) error {
	if s.insertFunc == nil {
		return errors.New("unexpected Insert call")
	}
	return s.insertFunc(ctx, item)
}

func (s *stubMenuRepository) FindByIDs(ctx context.Context, ids []domain.ItemID) ([]domain.MenuItem, error) {
	if s.findByIDsFunc == nil {
		return nil, errors.New("unexpected FindByIDs call")
	}
	return s.findByIDsFunc(ctx, ids)
}

func (s *stubMenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	if s.listFunc == nil {
		return nil, errors.New("unexpected List call")
	}
	return s.listFunc(ctx)
}

func (s *stubMenuRepository) Delete(ctx context.Context, id domain.ItemID) error {
	if s.deleteFunc == nil {
		return errors.New("unexpected Delete call")
	}
	return s.deleteFunc(ctx, id)
}

func (s *stubMenuRepository) Count(ctx context.Context) (int64, error) {
	if s.countFunc == nil {
		return 0, errors.New("unexpected Count call")
	}
	return s.countFunc(ctx)
}

type stubReviewRepository struct {
	listFunc func(ctx context.Context) ([]domain.Review, error)
}

func (s *stubReviewRepository) List(ctx context.Context) ([]domain.Review, error) {
	if s.listFunc == nil {
		return nil, errors.New("unexpected List call")
	}
	return s.listFunc(ctx)
}

type stubCartRepository struct {
	insertFunc      func(ctx context.Context, item domain.CartItem) (domain.CartItem, error)
	findByIDFunc    func(ctx context.Context, id domain.ItemID) (domain.CartItem, error)
	listByOwnerFunc func(ctx context.Context, ownerEmail string) ([]domain.CartItem, error)
	deleteFunc      func(ctx context.Context, id domain.ItemID) error
	deleteOwnedFunc func(ctx context.Context, ownerEmail string, ids []domain.ItemID) (int, error)
	countFunc       func(ctx context.Context) (int64, error)
}

func (s *stubCartRepository) Insert(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	if s.insertFunc == nil {
		return domain.CartItem{}, errors.New("unexpected Insert call")
	}
	return s.insertFunc(ctx, item)
}

func (s *stubCartRepository) FindByID(ctx context.Context, id domain.ItemID) (domain.CartItem, error) {
	if s.findByIDFunc == nil {
		return domain.CartItem{}, errors.New("unexpected FindByID call")
	}
	return s.findByIDFunc(ctx, id)
}

func (s *stubCartRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.CartItem, error) {
	if s.listByOwnerFunc == nil {
		return nil, errors.New("unexpected ListByOwner call")
	}
	return s.listByOwnerFunc(ctx, ownerEmail)
}

func (s *stubCartRepository) Delete(ctx context.Context, id domain.ItemID) error {
	if s.deleteFunc == nil {
		return errors.New("unexpected Delete call")
	}
	return s.deleteFunc(ctx, id)
}

func (s *stubCartRepository) DeleteOwned(ctx context.Context, ownerEmail string, ids []domain.ItemID) (int, error) {
	if s.deleteOwnedFunc == nil {
		return 0, errors.New("unexpected DeleteOwned call")
	}
	return s.deleteOwnedFunc(ctx, ownerEmail, ids)
}

func (s *stubCartRepository) Count(ctx context.Context) (int64, error) {
	if s.countFunc == nil {
		return 0, errors.New("unexpected Count call")
	}
	return s.countFunc(ctx)
}

type stubPaymentRepository struct {
	insertFunc      func(ctx context.Context, payment domain.PaymentRecord) error
	listByOwnerFunc func(ctx context.Context, ownerEmail string) ([]domain.PaymentRecord, error)
	listAllFunc     func(ctx context.Context) ([]domain.PaymentRecord, error)
	sumAmountsFunc  func(ctx context.Context) (float64, error)
}

func (s *stubPaymentRepository) Insert(ctx context.Context, payment domain.PaymentRecord) error {
	if s.insertFunc == nil {
		return errors.New("unexpected Insert call")
	}
	return s.insertFunc(ctx, payment)
}

func (s *stubPaymentRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.PaymentRecord, error) {
	if s.listByOwnerFunc == nil {
		return nil, errors.New("unexpected ListByOwner call")
	}
	return s.listByOwnerFunc(ctx, ownerEmail)
}

func (s *stubPaymentRepository) ListAll(ctx context.Context) ([]domain.PaymentRecord, error) {
	if s.listAllFunc == nil {
		return nil, errors.New("unexpected ListAll call")
	}
	return s.listAllFunc(ctx)
}

func (s *stubPaymentRepository) SumAmounts(ctx context.Context) (float64, error) {
	if s.sumAmountsFunc == nil {
		return 0, errors.New("unexpected SumAmounts call")
	}
	return s.sumAmountsFunc(ctx)
}
