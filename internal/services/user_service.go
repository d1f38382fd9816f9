package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/bistro-boss/api/internal/domain"
	"github.com/bistro-boss/api/internal/repositories"
)

var (
	// ErrUserInvalidInput indicates validation failures for user operations.
	ErrUserInvalidInput = errors.New("user: invalid input")
	// ErrUserNotFound indicates no user is registered under the email.
	ErrUserNotFound = errors.New("user: not found")
)

// UserServiceDeps bundles collaborators required to construct a UserService.
type UserServiceDeps struct {
	Users repositories.UserRepository
	Clock func() time.Time
}

type userService struct {
	users repositories.UserRepository
	clock func() time.Time
}

// NewUserService wires dependencies into a concrete UserService implementation.
func NewUserService(deps UserServiceDeps) (UserService, error) {
	if deps.Users == nil {
		return nil, errors.New("user service: user repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &userService{
		users: deps.Users,
		clock: func() time.Time {
			return clock().UTC()
		},
	}, nil
}

// Register creates the user on first login. Registering an email that
// already exists is not an error; the existing record is returned unchanged.
func (s *userService) Register(ctx context.Context, cmd RegisterUserCommand) (domain.User, bool, error) {
	email, err := normalizeUserEmail(cmd.Email)
	if err != nil {
		return domain.User{}, false, err
	}

	user := domain.User{
		Email:     email,
		Name:      strings.TrimSpace(cmd.Name),
		Role:      domain.RoleCustomer,
		CreatedAt: s.clock(),
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if isConflict(err) {
			existing, findErr := s.users.FindByEmail(ctx, email)
			if findErr != nil {
				return domain.User{}, false, findErr
			}
			return existing, false, nil
		}
		return domain.User{}, false, err
	}

	user.ID = email
	return user, true, nil
}

// List returns every registered user.
func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// IsAdmin reports whether the email belongs to an admin. An unregistered
// email is simply not an admin.
func (s *userService) IsAdmin(ctx context.Context, email string) (bool, error) {
	normalized, err := normalizeUserEmail(email)
	if err != nil {
		return false, err
	}

	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin(), nil
}

// RoleByEmail resolves the stored role for authorization checks.
func (s *userService) RoleByEmail(ctx context.Context, email string) (string, error) {
	normalized, err := normalizeUserEmail(email)
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("%w: %s", ErrUserNotFound, normalized)
		}
		return "", err
	}
	return user.Role, nil
}

// PromoteToAdmin grants the admin role to an existing user.
func (s *userService) PromoteToAdmin(ctx context.Context, email string) error {
	normalized, err := normalizeUserEmail(email)
	if err != nil {
		return err
	}

	if err := s.users.Promote(ctx, normalized, domain.RoleAdmin); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, normalized)
		}
		return err
	}
	return nil
}

// Delete removes the user record.
func (s *userService) Delete(ctx context.Context, email string) error {
	normalized, err := normalizeUserEmail(email)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, normalized)
}

func normalizeUserEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", fmt.Errorf("%w: email is required", ErrUserInvalidInput)
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", fmt.Errorf("%w: malformed email", ErrUserInvalidInput)
	}
	return normalized, nil
}

func isNotFound(err error) bool {
	var repoErr repositories.RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}

func isConflict(err error) bool {
	var repoErr repositories.RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsConflict()
}
