package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user",
		Tags:        []string{"Users"},
		Security:    bearer,
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchUserByEmail",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/search",
		Summary:     "Find user by email",
		Description: "Looks up a user by exact email, e.g. before sharing a plant list",
		Tags:        []string{"Users"},
		Security:    bearer,
	}, s.handleSearchUser)
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// SearchUserInput contains parameters for looking up a user.
type SearchUserInput struct {
	Email string `query:"email" required:"true" doc:"Exact email address"`
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.GetUser(ctx, userID)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return &UserOutput{Body: newUserResponse(user)}, nil
}

func (s *Server) handleSearchUser(ctx context.Context, input *SearchUserInput) (*UserOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	user, err := s.services.User.FindUserByEmail(ctx, input.Email)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return &UserOutput{Body: newUserResponse(user)}, nil
}
