package domain

import (
	"slices"
	"strings"
	"time"

	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
)

// PlantList is a shared group of plants. The owner and every collaborator
// can see and water the plants on it; only the owner manages membership
// and can delete the list.
type PlantList struct {
	Aggregate
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	OwnerID         string   `json:"owner_id"`
	CollaboratorIDs []string `json:"collaborator_ids"`
	PlantIDs        []string `json:"plant_ids"` // Ordered, duplicates allowed
}

// NewPlantList creates an empty list owned by ownerID.
func NewPlantList(id, ownerID, name, description string, now time.Time) (*PlantList, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domainerrors.InvalidInput("plant list name is required")
	}

	l := &PlantList{
		Aggregate:       Aggregate{ID: id},
		Name:            strings.TrimSpace(name),
		Description:     description,
		OwnerID:         ownerID,
		CollaboratorIDs: []string{},
		PlantIDs:        []string{},
	}
	l.InitTimestamps(now)
	return l, nil
}

// UpdateDetails changes the name and description.
func (l *PlantList) UpdateDetails(name, description string, now time.Time) error {
	if strings.TrimSpace(name) == "" {
		return domainerrors.InvalidInput("plant list name is required")
	}
	l.Name = strings.TrimSpace(name)
	l.Description = description
	l.Touch(now)
	return nil
}

// IsOwner reports whether userID owns the list.
func (l *PlantList) IsOwner(userID string) bool {
	return l.OwnerID == userID
}

// HasCollaborator reports whether userID is a collaborator.
func (l *PlantList) HasCollaborator(userID string) bool {
	return slices.Contains(l.CollaboratorIDs, userID)
}

// IsUserAllowed reports whether userID is the owner or a collaborator.
func (l *PlantList) IsUserAllowed(userID string) bool {
	return l.IsOwner(userID) || l.HasCollaborator(userID)
}

// Members returns the owner followed by the collaborators.
func (l *PlantList) Members() []string {
	members := make([]string, 0, len(l.CollaboratorIDs)+1)
	members = append(members, l.OwnerID)
	return append(members, l.CollaboratorIDs...)
}

// AddCollaborator shares the list with userID.
func (l *PlantList) AddCollaborator(userID string, now time.Time) error {
	if l.IsOwner(userID) {
		return domainerrors.Conflict("the owner cannot be added as a collaborator")
	}
	if l.HasCollaborator(userID) {
		return domainerrors.Conflict("user is already a collaborator")
	}
	l.CollaboratorIDs = append(l.CollaboratorIDs, userID)
	l.Touch(now)
	return nil
}

// RemoveCollaborator revokes userID's access. Removing a non-collaborator is a no-op
// apart from the timestamp.
func (l *PlantList) RemoveCollaborator(userID string, now time.Time) {
	l.CollaboratorIDs = slices.DeleteFunc(l.CollaboratorIDs, func(id string) bool {
		return id == userID
	})
	l.Touch(now)
}

// AddPlant appends plantID to the list.
func (l *PlantList) AddPlant(plantID string, now time.Time) {
	l.PlantIDs = append(l.PlantIDs, plantID)
	l.Touch(now)
}

// RemovePlant removes every occurrence of plantID.
// Returns false, leaving the list untouched, if the plant was not present.
func (l *PlantList) RemovePlant(plantID string, now time.Time) bool {
	if !l.ContainsPlant(plantID) {
		return false
	}
	l.PlantIDs = slices.DeleteFunc(l.PlantIDs, func(id string) bool {
		return id == plantID
	})
	l.Touch(now)
	return true
}

// ContainsPlant reports whether plantID is in the list.
func (l *PlantList) ContainsPlant(plantID string) bool {
	return slices.Contains(l.PlantIDs, plantID)
}
