package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/istdurstig/istdurstig-server/internal/logger"
	"github.com/istdurstig/istdurstig-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "signup",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signup",
		Summary:     "Sign up",
		Description: "Creates a user account and returns an access token",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.rateLimitAuth},
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID: "signin",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signin",
		Summary:     "Sign in",
		Description: "Authenticates a user and returns an access token",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.rateLimitAuth},
	}, s.handleSignin)
}

// === DTOs ===

// SignupRequest is the request body for creating an account.
type SignupRequest struct {
	Email     string `json:"email" doc:"Email address"`
	Password  string `json:"password" doc:"Password, at least 8 characters"`
	FirstName string `json:"first_name" doc:"First name"`
	LastName  string `json:"last_name,omitempty" doc:"Last name"`
}

// SignupInput wraps the signup request for Huma.
type SignupInput struct {
	Body SignupRequest
}

// SigninRequest is the request body for signing in.
type SigninRequest struct {
	Email    string `json:"email" doc:"Email address"`
	Password string `json:"password" doc:"Password"`
}

// SigninInput wraps the signin request for Huma.
type SigninInput struct {
	Body SigninRequest
}

// AuthResponse contains the access token and the signed-in user.
type AuthResponse struct {
	Token     string    `json:"token" doc:"PASETO access token"`
	Type      string    `json:"type" doc:"Token type, always Bearer"`
	ExpiresAt time.Time `json:"expires_at" doc:"Token expiry"`
	ID        string    `json:"id" doc:"User ID"`
	Email     string    `json:"email" doc:"Email address"`
	FirstName string    `json:"first_name" doc:"First name"`
	LastName  string    `json:"last_name" doc:"Last name"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

func newAuthOutput(resp *service.AuthResponse) *AuthOutput {
	return &AuthOutput{
		Body: AuthResponse{
			Token:     resp.AccessToken,
			Type:      "Bearer",
			ExpiresAt: resp.ExpiresAt,
			ID:        resp.User.ID,
			Email:     resp.User.Email,
			FirstName: resp.User.FirstName,
			LastName:  resp.User.LastName,
		},
	}
}

// === Handlers ===

func (s *Server) handleSignup(ctx context.Context, input *SignupInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Email:     input.Body.Email,
		Password:  input.Body.Password,
		FirstName: input.Body.FirstName,
		LastName:  input.Body.LastName,
	})
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	logger.FromContext(ctx, s.logger).Info("user signed up", "user_id", resp.User.ID)
	return newAuthOutput(resp), nil
}

func (s *Server) handleSignin(ctx context.Context, input *SigninInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return newAuthOutput(resp), nil
}
