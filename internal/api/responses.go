package api

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/istdurstig/istdurstig-server/internal/domain"
)

// UserResponse is the public view of a user. It never includes the password hash.
type UserResponse struct {
	ID        string    `json:"id" doc:"User ID"`
	Email     string    `json:"email" doc:"Email address"`
	FirstName string    `json:"first_name" doc:"First name"`
	LastName  string    `json:"last_name" doc:"Last name"`
	CreatedAt time.Time `json:"created_at" doc:"Registration time"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

// ScheduleResponse is a plant's watering schedule as of today.
type ScheduleResponse struct {
	Frequency        string `json:"frequency" enum:"FREQUENT,MEDIUM,RARE" doc:"Watering frequency"`
	IntervalDays     int    `json:"interval_days" doc:"Days between waterings"`
	LastWatered      string `json:"last_watered,omitempty" format:"date" doc:"Date of the last watering"`
	NextWateringDate string `json:"next_watering_date" format:"date" doc:"Date the plant should next be watered"`
}

// CareEventResponse is one care history entry. Only the fields of the
// event's type are set.
type CareEventResponse struct {
	ID             string    `json:"id" doc:"Event ID"`
	Type           string    `json:"type" enum:"WATERING,FERTILIZING,TRANSPLANTING" doc:"Event type"`
	Timestamp      time.Time `json:"timestamp" doc:"When the care happened"`
	Notes          string    `json:"notes,omitempty" doc:"Free-form notes"`
	AuthorID       string    `json:"author_id" doc:"User who recorded the event"`
	AmountLiters   *float64  `json:"amount_liters,omitempty" doc:"Water given, in liters"`
	FertilizerType *string   `json:"fertilizer_type,omitempty" doc:"Fertilizer used"`
	PotSize        *string   `json:"pot_size,omitempty" doc:"New pot size"`
	SoilType       *string   `json:"soil_type,omitempty" doc:"New soil type"`
}

func newCareEventResponse(e domain.CareEvent) CareEventResponse {
	resp := CareEventResponse{
		ID:        e.ID,
		Type:      string(e.Type()),
		Timestamp: e.Timestamp,
		Notes:     e.Notes,
		AuthorID:  e.AuthorID,
	}
	switch d := e.Details.(type) {
	case domain.Watering:
		resp.AmountLiters = &d.AmountLiters
	case domain.Fertilizing:
		resp.FertilizerType = &d.FertilizerType
	case domain.Transplanting:
		resp.PotSize = &d.PotSize
		resp.SoilType = &d.SoilType
	}
	return resp
}

// PlantResponse contains plant data in API responses.
type PlantResponse struct {
	ID            string              `json:"id" doc:"Plant ID"`
	Name          string              `json:"name" doc:"Plant name"`
	Type          string              `json:"type,omitempty" doc:"Species or kind"`
	Tags          []string            `json:"tags" doc:"Tags"`
	Notes         string              `json:"notes,omitempty" doc:"Free-form notes"`
	PhotoURL      string              `json:"photo_url,omitempty" doc:"Photo URL"`
	Schedule      *ScheduleResponse   `json:"schedule,omitempty" doc:"Watering schedule"`
	NeedsWatering bool                `json:"needs_watering" doc:"Whether the plant is due today"`
	CareHistory   []CareEventResponse `json:"care_history" doc:"Care events, oldest first"`
	Version       int64               `json:"version" doc:"Optimistic concurrency version"`
	CreatedAt     time.Time           `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time           `json:"updated_at" doc:"Last update time"`
}

func newPlantResponse(p *domain.Plant, today civil.Date) PlantResponse {
	resp := PlantResponse{
		ID:            p.ID,
		Name:          p.Name,
		Type:          p.Type,
		Tags:          p.Tags,
		Notes:         p.Notes,
		PhotoURL:      p.PhotoURL,
		NeedsWatering: p.NeedsWatering(today),
		CareHistory:   make([]CareEventResponse, len(p.CareHistory)),
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	for i, e := range p.CareHistory {
		resp.CareHistory[i] = newCareEventResponse(e)
	}

	if next, ok := p.NextWateringDate(today); ok {
		resp.Schedule = &ScheduleResponse{
			Frequency:        p.Schedule.Frequency.String(),
			IntervalDays:     p.Schedule.Frequency.Days(),
			NextWateringDate: next.String(),
		}
		if p.Schedule.LastWatered != nil {
			resp.Schedule.LastWatered = p.Schedule.LastWatered.String()
		}
	}
	return resp
}

func newPlantResponses(plants []*domain.Plant, today civil.Date) []PlantResponse {
	out := make([]PlantResponse, len(plants))
	for i, p := range plants {
		out[i] = newPlantResponse(p, today)
	}
	return out
}

// PlantListResponse contains plant list data in API responses.
type PlantListResponse struct {
	ID              string    `json:"id" doc:"Plant list ID"`
	Name            string    `json:"name" doc:"List name"`
	Description     string    `json:"description,omitempty" doc:"List description"`
	OwnerID         string    `json:"owner_id" doc:"Owner user ID"`
	CollaboratorIDs []string  `json:"collaborator_ids" doc:"Collaborator user IDs"`
	PlantIDs        []string  `json:"plant_ids" doc:"Plant IDs in list order; may repeat"`
	Version         int64     `json:"version" doc:"Optimistic concurrency version"`
	CreatedAt       time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time `json:"updated_at" doc:"Last update time"`
}

func newPlantListResponse(l *domain.PlantList) PlantListResponse {
	resp := PlantListResponse{
		ID:              l.ID,
		Name:            l.Name,
		Description:     l.Description,
		OwnerID:         l.OwnerID,
		CollaboratorIDs: l.CollaboratorIDs,
		PlantIDs:        l.PlantIDs,
		Version:         l.Version,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
	if resp.CollaboratorIDs == nil {
		resp.CollaboratorIDs = []string{}
	}
	if resp.PlantIDs == nil {
		resp.PlantIDs = []string{}
	}
	return resp
}
