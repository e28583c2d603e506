package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerPlantListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPlantLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/plant-lists",
		Summary:     "List plant lists",
		Description: "Returns every plant list the caller owns or collaborates on",
		Tags:        []string{"Plant Lists"},
		Security:    bearer,
	}, s.handleListPlantLists)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createPlantList",
		Method:        http.MethodPost,
		Path:          "/api/v1/plant-lists",
		Summary:       "Create plant list",
		Description:   "Creates an empty plant list owned by the caller",
		Tags:          []string{"Plant Lists"},
		Security:      bearer,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreatePlantList)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPlantList",
		Method:      http.MethodGet,
		Path:        "/api/v1/plant-lists/{id}",
		Summary:     "Get plant list",
		Description: "Returns a plant list by ID",
		Tags:        []string{"Plant Lists"},
		Security:    bearer,
	}, s.handleGetPlantList)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePlantList",
		Method:      http.MethodPut,
		Path:        "/api/v1/plant-lists/{id}",
		Summary:     "Update plant list",
		Description: "Renames a plant list or changes its description",
		Tags:        []string{"Plant Lists"},
		Security:    bearer,
	}, s.handleUpdatePlantList)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePlantList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/plant-lists/{id}",
		Summary:     "Delete plant list",
		Description: "Deletes a plant list. Only the owner may do this; the plants themselves are kept",
		Tags:        []string{"Plant Lists"},
		Security:    bearer,
	}, s.handleDeletePlantList)

	huma.Register(s.api, huma.Operation{
		OperationID: "addPlantToList",
		Method:      http.MethodPost,
		Path:        "/api/v1/plant-lists/{id}/plants/{plantId}",
		Summary:     "Add plant to list",
		Description: "Appends an existing plant to the list",
		Tags:        []string{"Plant Lists"},
		Security:    bearer,
	}, s.handleAddPlantToList)

	huma.Register(s.api, huma.Operation{
		OperationID: "removePlantFromList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/plant-lists/{id}/plants/{plantId}",
		Summary:     "Remove plant from list",
		Description: "Removes every occurrence of the plant from the list",
		Tags:        []string{"Plant Lists"},
		Security:    bearer,
	}, s.handleRemovePlantFromList)

	huma.Register(s.api, huma.Operation{
		OperationID: "sharePlantList",
		Method:      http.MethodPost,
		Path:        "/api/v1/plant-lists/{id}/share",
		Summary:     "Share plant list",
		Description: "Adds the user with the given email as a collaborator. Owner only",
		Tags:        []string{"Plant Lists"},
		Security:    bearer,
	}, s.handleSharePlantList)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeCollaborator",
		Method:      http.MethodDelete,
		Path:        "/api/v1/plant-lists/{id}/collaborators/{userId}",
		Summary:     "Remove collaborator",
		Description: "Revokes a collaborator's access to the list. Owner only",
		Tags:        []string{"Plant Lists"},
		Security:    bearer,
	}, s.handleRemoveCollaborator)
}

// === DTOs ===

// PlantListRequest is the request body for creating or updating a plant list.
type PlantListRequest struct {
	Name        string `json:"name" doc:"List name"`
	Description string `json:"description,omitempty" doc:"List description"`
}

// CreatePlantListInput wraps the create request for Huma.
type CreatePlantListInput struct {
	Body PlantListRequest
}

// UpdatePlantListInput wraps the update request for Huma.
type UpdatePlantListInput struct {
	ID   string `path:"id" doc:"Plant list ID"`
	Body PlantListRequest
}

// PlantListIDInput contains the plant list ID path parameter.
type PlantListIDInput struct {
	ID string `path:"id" doc:"Plant list ID"`
}

// PlantListPlantInput addresses one plant on one list.
type PlantListPlantInput struct {
	ID      string `path:"id" doc:"Plant list ID"`
	PlantID string `path:"plantId" doc:"Plant ID"`
}

// ShareRequest is the request body for sharing a plant list.
type ShareRequest struct {
	Email string `json:"email" doc:"Email of the user to add as collaborator"`
}

// SharePlantListInput wraps the share request for Huma.
type SharePlantListInput struct {
	ID   string `path:"id" doc:"Plant list ID"`
	Body ShareRequest
}

// RemoveCollaboratorInput addresses one collaborator on one list.
type RemoveCollaboratorInput struct {
	ID     string `path:"id" doc:"Plant list ID"`
	UserID string `path:"userId" doc:"Collaborator user ID"`
}

// PlantListOutput wraps the plant list response for Huma.
type PlantListOutput struct {
	Body PlantListResponse
}

// ListPlantListsResponse contains a list of plant lists.
type ListPlantListsResponse struct {
	PlantLists []PlantListResponse `json:"plant_lists" doc:"Plant lists"`
}

// ListPlantListsOutput wraps the list response for Huma.
type ListPlantListsOutput struct {
	Body ListPlantListsResponse
}

// === Handlers ===

func (s *Server) handleListPlantLists(ctx context.Context, _ *struct{}) (*ListPlantListsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	lists, err := s.services.PlantList.ListPlantListsForUser(ctx, userID)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	resp := make([]PlantListResponse, len(lists))
	for i, l := range lists {
		resp[i] = newPlantListResponse(l)
	}

	return &ListPlantListsOutput{Body: ListPlantListsResponse{PlantLists: resp}}, nil
}

func (s *Server) handleCreatePlantList(ctx context.Context, input *CreatePlantListInput) (*PlantListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	l, err := s.services.PlantList.CreatePlantList(ctx, userID, input.Body.Name, input.Body.Description)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return &PlantListOutput{Body: newPlantListResponse(l)}, nil
}

func (s *Server) handleGetPlantList(ctx context.Context, input *PlantListIDInput) (*PlantListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	l, err := s.services.PlantList.GetPlantList(ctx, userID, input.ID)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return &PlantListOutput{Body: newPlantListResponse(l)}, nil
}

func (s *Server) handleUpdatePlantList(ctx context.Context, input *UpdatePlantListInput) (*PlantListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	l, err := s.services.PlantList.UpdatePlantList(ctx, userID, input.ID, input.Body.Name, input.Body.Description)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return &PlantListOutput{Body: newPlantListResponse(l)}, nil
}

func (s *Server) handleDeletePlantList(ctx context.Context, input *PlantListIDInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.PlantList.DeletePlantList(ctx, userID, input.ID); err != nil {
		return nil, s.apiError(ctx, err)
	}

	return nil, nil
}

func (s *Server) handleAddPlantToList(ctx context.Context, input *PlantListPlantInput) (*PlantListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	l, err := s.services.PlantList.AddPlantToList(ctx, userID, input.ID, input.PlantID)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return &PlantListOutput{Body: newPlantListResponse(l)}, nil
}

func (s *Server) handleRemovePlantFromList(ctx context.Context, input *PlantListPlantInput) (*PlantListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	l, err := s.services.PlantList.RemovePlantFromList(ctx, userID, input.ID, input.PlantID)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return &PlantListOutput{Body: newPlantListResponse(l)}, nil
}

func (s *Server) handleSharePlantList(ctx context.Context, input *SharePlantListInput) (*PlantListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	l, err := s.services.PlantList.AddCollaboratorByEmail(ctx, userID, input.ID, input.Body.Email)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return &PlantListOutput{Body: newPlantListResponse(l)}, nil
}

func (s *Server) handleRemoveCollaborator(ctx context.Context, input *RemoveCollaboratorInput) (*PlantListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	l, err := s.services.PlantList.RemoveCollaborator(ctx, userID, input.ID, input.UserID)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return &PlantListOutput{Body: newPlantListResponse(l)}, nil
}
