package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bistro-boss/api/internal/domain"
	"github.com/bistro-boss/api/internal/payments"
	"github.com/bistro-boss/api/internal/platform/auth"
	"github.com/bistro-boss/api/internal/services"
)

type stubCheckoutService struct {
	checkoutFunc func(ctx context.Context, cmd services.CheckoutCommand) (services.CheckoutResult, error)
	historyFunc  func(ctx context.Context, ownerEmail string) ([]domain.PaymentRecord, error)
}

func (s *stubCheckoutService) Checkout(ctx context.Context, cmd services.CheckoutCommand) (services.CheckoutResult, error) {
	if s.checkoutFunc == nil {
		return services.CheckoutResult{}, errors.New("unexpected Checkout call")
	}
	return s.checkoutFunc(ctx, cmd)
}

func (s *stubCheckoutService) HistoryByOwner(ctx context.Context, ownerEmail string) ([]domain.PaymentRecord, error) {
	if s.historyFunc == nil {
		return nil, errors.New("unexpected HistoryByOwner call")
	}
	return s.historyFunc(ctx, ownerEmail)
}

type stubUserService struct {
	registerFunc func(ctx context.Context, cmd services.RegisterUserCommand) (domain.User, bool, error)
	listFunc     func(ctx context.Context) ([]domain.User, error)
	isAdminFunc  func(ctx context.Context, email string) (bool, error)
	roleFunc     func(ctx context.Context, email string) (string, error)
	promoteFunc  func(ctx context.Context, email string) error
	deleteFunc   func(ctx context.Context, email string) error
}

func (s *stubUserService) Register(ctx context.Context, cmd services.RegisterUserCommand) (domain.User, bool, error) {
	if s.registerFunc == nil {
		return domain.User{}, false, errors.New("unexpected Register call")
	}
	return s.registerFunc(ctx, cmd)
}

func (s *stubUserService) List(ctx context.Context) ([]domain.User, error) {
	if s.listFunc == nil {
		return nil, errors.New("unexpected List call")
	}
	return s.listFunc(ctx)
}

func (s *stubUserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	if s.isAdminFunc == nil {
		return false, errors.New("unexpected IsAdmin call")
	}
	return s.isAdminFunc(ctx, email)
}

func (s *stubUserService) RoleByEmail(ctx context.Context, email string) (string, error) {
	if s.roleFunc == nil {
		return "", errors.New("unexpected RoleByEmail call")
	}
	return s.roleFunc(ctx, email)
}

func (s *stubUserService) PromoteToAdmin(ctx context.Context, email string) error {
	if s.promoteFunc == nil {
		return errors.New("unexpected PromoteToAdmin call")
	}
	return s.promoteFunc(ctx, email)
}

func (s *stubUserService) Delete(ctx context.Context, email string) error {
	if s.deleteFunc == nil {
		return errors.New("unexpected Delete call")
	}
	return s.deleteFunc(ctx, email)
}

type stubPaymentProvider struct {
	createFunc func(ctx context.Context, req payments.IntentRequest) (payments.Intent, error)
}

func (s *stubPaymentProvider) CreateIntent(ctx context.Context, req payments.IntentRequest) (payments.Intent, error) {
	if s.createFunc == nil {
		return payments.Intent{}, errors.New("unexpected CreateIntent call")
	}
	return s.createFunc(ctx, req)
}

// withIdentity stamps an authenticated principal onto the request, standing in
// for the bearer-token middleware.
func withIdentity(req *http.Request, email string) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{Email: email}))
}

func doRequest(t *testing.T, handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
