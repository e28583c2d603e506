package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/istdurstig/istdurstig-server/internal/clock"
	"github.com/istdurstig/istdurstig-server/internal/domain"
	"github.com/istdurstig/istdurstig-server/internal/service"
)

func (s *Server) registerPlantRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPlants",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants",
		Summary:     "List plants",
		Description: "Returns every plant on a list the caller owns or collaborates on",
		Tags:        []string{"Plants"},
		Security:    bearer,
	}, s.handleListPlants)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createPlant",
		Method:        http.MethodPost,
		Path:          "/api/v1/plants",
		Summary:       "Create plant",
		Description:   "Creates a plant, optionally appending it to a plant list",
		Tags:          []string{"Plants"},
		Security:      bearer,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreatePlant)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPlantsDueToday",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants/due-today",
		Summary:     "Plants due today",
		Description: "Returns the visible plants that need water today",
		Tags:        []string{"Plants"},
		Security:    bearer,
	}, s.handleListPlantsDueToday)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchPlants",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants/search",
		Summary:     "Search plants",
		Description: "Full-text search over name, type, tags and notes of visible plants",
		Tags:        []string{"Plants"},
		Security:    bearer,
	}, s.handleSearchPlants)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPlant",
		Method:      http.MethodGet,
		Path:        "/api/v1/plants/{id}",
		Summary:     "Get plant",
		Description: "Returns a plant by ID",
		Tags:        []string{"Plants"},
		Security:    bearer,
	}, s.handleGetPlant)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePlant",
		Method:      http.MethodPut,
		Path:        "/api/v1/plants/{id}",
		Summary:     "Update plant",
		Description: "Replaces the editable fields of a plant; the last watering date is kept",
		Tags:        []string{"Plants"},
		Security:    bearer,
	}, s.handleUpdatePlant)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePlant",
		Method:      http.MethodDelete,
		Path:        "/api/v1/plants/{id}",
		Summary:     "Delete plant",
		Description: "Deletes a plant and removes it from every plant list",
		Tags:        []string{"Plants"},
		Security:    bearer,
	}, s.handleDeletePlant)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addCareEvent",
		Method:        http.MethodPost,
		Path:          "/api/v1/plants/{id}/care-events",
		Summary:       "Record care",
		Description:   "Appends a watering, fertilizing or transplanting event to the plant's history",
		Tags:          []string{"Plants"},
		Security:      bearer,
		DefaultStatus: http.StatusCreated,
	}, s.handleAddCareEvent)
}

// === DTOs ===

// PlantRequest is the request body for creating or updating a plant.
type PlantRequest struct {
	Name      string   `json:"name" doc:"Plant name"`
	Type      string   `json:"type,omitempty" doc:"Species or kind"`
	Tags      []string `json:"tags,omitempty" doc:"Tags"`
	Notes     string   `json:"notes,omitempty" doc:"Free-form notes"`
	PhotoURL  string   `json:"photo_url,omitempty" doc:"Photo URL"`
	Frequency string   `json:"frequency" doc:"Watering frequency: FREQUENT, MEDIUM or RARE (case-insensitive)"`
}

func (r PlantRequest) input() service.PlantInput {
	return service.PlantInput{
		Name:      r.Name,
		Type:      r.Type,
		Tags:      r.Tags,
		Notes:     r.Notes,
		PhotoURL:  r.PhotoURL,
		Frequency: r.Frequency,
	}
}

// CreatePlantRequest adds the optional target list to PlantRequest.
type CreatePlantRequest struct {
	PlantRequest
	PlantListID string `json:"plant_list_id,omitempty" doc:"List to append the new plant to"`
}

// CreatePlantInput wraps the create plant request for Huma.
type CreatePlantInput struct {
	Body CreatePlantRequest
}

// UpdatePlantInput wraps the update plant request for Huma.
type UpdatePlantInput struct {
	ID   string `path:"id" doc:"Plant ID"`
	Body PlantRequest
}

// PlantIDInput contains the plant ID path parameter.
type PlantIDInput struct {
	ID string `path:"id" doc:"Plant ID"`
}

// SearchPlantsInput contains parameters for plant search.
type SearchPlantsInput struct {
	Query string `query:"q" required:"true" doc:"Search text"`
	Limit int    `query:"limit" minimum:"0" maximum:"100" doc:"Maximum results (default 20)"`
}

// CareEventRequest is the request body for recording care. Only the fields
// of the chosen type are read; missing ones take their defaults.
type CareEventRequest struct {
	Type           string   `json:"type" doc:"WATERING, FERTILIZING or TRANSPLANTING (case-insensitive)"`
	Notes          string   `json:"notes,omitempty" doc:"Free-form notes"`
	Amount         *float64 `json:"amount,omitempty" doc:"Water given, in liters (watering)"`
	FertilizerType *string  `json:"fertilizer_type,omitempty" doc:"Fertilizer used (fertilizing)"`
	PotSize        *string  `json:"pot_size,omitempty" doc:"New pot size (transplanting)"`
	SoilType       *string  `json:"soil_type,omitempty" doc:"New soil type (transplanting)"`
}

func (r CareEventRequest) fields() map[string]any {
	fields := make(map[string]any)
	if r.Amount != nil {
		fields[domain.FieldAmount] = *r.Amount
	}
	if r.FertilizerType != nil {
		fields[domain.FieldFertilizerType] = *r.FertilizerType
	}
	if r.PotSize != nil {
		fields[domain.FieldPotSize] = *r.PotSize
	}
	if r.SoilType != nil {
		fields[domain.FieldSoilType] = *r.SoilType
	}
	return fields
}

// AddCareEventInput wraps the care event request for Huma.
type AddCareEventInput struct {
	ID   string `path:"id" doc:"Plant ID"`
	Body CareEventRequest
}

// PlantOutput wraps the plant response for Huma.
type PlantOutput struct {
	Body PlantResponse
}

// ListPlantsResponse contains a list of plants.
type ListPlantsResponse struct {
	Plants []PlantResponse `json:"plants" doc:"Plants"`
}

// ListPlantsOutput wraps the list plants response for Huma.
type ListPlantsOutput struct {
	Body ListPlantsResponse
}

// === Handlers ===

func (s *Server) plantOutput(p *domain.Plant) *PlantOutput {
	return &PlantOutput{Body: newPlantResponse(p, clock.Today(s.clock))}
}

func (s *Server) plantsOutput(plants []*domain.Plant) *ListPlantsOutput {
	return &ListPlantsOutput{Body: ListPlantsResponse{Plants: newPlantResponses(plants, clock.Today(s.clock))}}
}

func (s *Server) handleListPlants(ctx context.Context, _ *struct{}) (*ListPlantsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	plants, err := s.services.Plant.ListPlantsForUser(ctx, userID)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return s.plantsOutput(plants), nil
}

func (s *Server) handleCreatePlant(ctx context.Context, input *CreatePlantInput) (*PlantOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Plant.CreatePlant(ctx, userID, input.Body.PlantListID, input.Body.input())
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return s.plantOutput(p), nil
}

func (s *Server) handleListPlantsDueToday(ctx context.Context, _ *struct{}) (*ListPlantsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	plants, err := s.services.Plant.ListPlantsDueToday(ctx, userID)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return s.plantsOutput(plants), nil
}

func (s *Server) handleSearchPlants(ctx context.Context, input *SearchPlantsInput) (*ListPlantsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	plants, err := s.services.Plant.SearchPlants(ctx, userID, input.Query, input.Limit)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return s.plantsOutput(plants), nil
}

func (s *Server) handleGetPlant(ctx context.Context, input *PlantIDInput) (*PlantOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Plant.GetPlant(ctx, userID, input.ID)
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return s.plantOutput(p), nil
}

func (s *Server) handleUpdatePlant(ctx context.Context, input *UpdatePlantInput) (*PlantOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Plant.UpdatePlant(ctx, userID, input.ID, input.Body.input())
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return s.plantOutput(p), nil
}

func (s *Server) handleDeletePlant(ctx context.Context, input *PlantIDInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Plant.DeletePlant(ctx, userID, input.ID); err != nil {
		return nil, s.apiError(ctx, err)
	}

	return nil, nil
}

func (s *Server) handleAddCareEvent(ctx context.Context, input *AddCareEventInput) (*PlantOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Plant.AddCareEvent(ctx, userID, input.ID, service.CareEventRequest{
		Type:   input.Body.Type,
		Notes:  input.Body.Notes,
		Fields: input.Body.fields(),
	})
	if err != nil {
		return nil, s.apiError(ctx, err)
	}

	return s.plantOutput(p), nil
}
