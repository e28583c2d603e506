package service

import (
	"context"
	"errors"
	"strings"

	"github.com/istdurstig/istdurstig-server/internal/domain"
	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
)

// UserService exposes read access to the user directory.
type UserService struct {
	users UserDirectory
}

// NewUserService creates a new user service.
func NewUserService(users UserDirectory) *UserService {
	return &UserService{users: users}
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.users.GetUser(ctx, userID)
}

// FindUserByEmail looks a user up by exact email (case-insensitive).
func (s *UserService) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domainerrors.InvalidInput("email is required")
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFoundf("no user registered with email %s", email)
		}
		return nil, err
	}
	return u, nil
}
