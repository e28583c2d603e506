package store

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/istdurstig/istdurstig-server/internal/domain"
	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
)

// initUsers wires the Users entity with a unique, case-insensitive email index.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, userPrefix).
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail,
		)
}

// CreateUser creates a new user account. Returns ErrEmailExists if the
// email is already registered.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		if domainerrors.Is(err, ErrAlreadyExists) {
			return ErrEmailExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.Users.Get(ctx, id)
	if err != nil {
		if domainerrors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email address, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.Users.GetByIndex(ctx, "email", email)
	if err != nil {
		if domainerrors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	return u, nil
}

// UpdateUser replaces an existing user.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	if err := s.Users.Update(ctx, user.ID, user); err != nil {
		switch {
		case domainerrors.Is(err, ErrNotFound):
			return ErrUserNotFound
		case domainerrors.Is(err, ErrAlreadyExists):
			return ErrEmailExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// normalizeEmail trims and case-folds an email address for index lookups.
func normalizeEmail(email string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(email))
}
