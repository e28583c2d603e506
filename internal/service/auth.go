package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/istdurstig/istdurstig-server/internal/auth"
	"github.com/istdurstig/istdurstig-server/internal/clock"
	"github.com/istdurstig/istdurstig-server/internal/domain"
	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
	"github.com/istdurstig/istdurstig-server/internal/id"
	"github.com/istdurstig/istdurstig-server/internal/store"
	"github.com/istdurstig/istdurstig-server/internal/validation"
)

// PasswordHasher hashes passwords for storage.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// AuthService handles sign-up, sign-in and token verification.
type AuthService struct {
	users     UserStore
	tokens    *auth.TokenService
	hasher    PasswordHasher
	validator *validation.Validator
	clock     clock.Clock
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users UserStore,
	tokens *auth.TokenService,
	hasher PasswordHasher,
	validator *validation.Validator,
	c clock.Clock,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		validator: validator,
		clock:     c,
		logger:    logger,
	}
}

// RegisterRequest contains sign-up data.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=1024"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains an access token and the authenticated user.
type AuthResponse struct {
	User        *domain.User
	AccessToken string
	ExpiresAt   time.Time
}

// Register creates a user account and signs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := s.clock.Now()
	user := &domain.User{
		Aggregate:    domain.Aggregate{ID: userID},
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		LastLoginAt:  now,
	}
	user.InitTimestamps(now)

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.Conflict("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", userID, "email", user.Email)

	return s.issue(user)
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			// Don't leak whether the email exists.
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	now := s.clock.Now()
	user.LastLoginAt = now
	user.Touch(now)
	if err := s.users.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("failed to update last login time", "user_id", user.ID, "error", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*AuthResponse, error) {
	token, expires, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &AuthResponse{User: user, AccessToken: token, ExpiresAt: expires}, nil
}

// VerifyAccessToken validates a token and returns the user it belongs to.
// Used by the authentication middleware.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("user no longer exists")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, claims, nil
}
