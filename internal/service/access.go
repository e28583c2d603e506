package service

import (
	"context"
	"fmt"

	"github.com/istdurstig/istdurstig-server/internal/clock"
	"github.com/istdurstig/istdurstig-server/internal/domain"
	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
)

// AccessResolver derives plant visibility from list membership. Nothing is
// stored on the plant itself: a user sees a plant exactly when some list
// they own or collaborate on contains it.
type AccessResolver struct {
	lists  PlantListStore
	plants PlantStore
	clock  clock.Clock
}

// NewAccessResolver creates an access resolver.
func NewAccessResolver(lists PlantListStore, plants PlantStore, c clock.Clock) *AccessResolver {
	return &AccessResolver{lists: lists, plants: plants, clock: c}
}

// HasAccessToPlant reports whether userID can see plantID through any of their lists.
func (r *AccessResolver) HasAccessToPlant(ctx context.Context, userID, plantID string) (bool, error) {
	lists, err := r.lists.FindPlantListsByMember(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("find lists for user: %w", err)
	}
	return domain.CanAccessPlant(lists, userID, plantID), nil
}

// RequirePlantAccess returns AccessDenied unless userID can see plantID.
func (r *AccessResolver) RequirePlantAccess(ctx context.Context, userID, plantID string) error {
	ok, err := r.HasAccessToPlant(ctx, userID, plantID)
	if err != nil {
		return err
	}
	if !ok {
		return domainerrors.AccessDenied("you do not have access to this plant")
	}
	return nil
}

// AccessiblePlantIDs returns every plant id visible to userID, deduplicated.
func (r *AccessResolver) AccessiblePlantIDs(ctx context.Context, userID string) ([]string, error) {
	lists, err := r.lists.FindPlantListsByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find lists for user: %w", err)
	}
	return domain.AccessiblePlantIDs(lists, userID), nil
}

// PlantsForUser loads every plant visible to userID.
func (r *AccessResolver) PlantsForUser(ctx context.Context, userID string) ([]*domain.Plant, error) {
	ids, err := r.AccessiblePlantIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	plants, err := r.plants.FindPlantsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load plants: %w", err)
	}
	return plants, nil
}

// PlantsDueToday returns the visible plants that need watering today.
func (r *AccessResolver) PlantsDueToday(ctx context.Context, userID string) ([]*domain.Plant, error) {
	plants, err := r.PlantsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := clock.Today(r.clock)
	due := make([]*domain.Plant, 0, len(plants))
	for _, p := range plants {
		if p.NeedsWatering(today) {
			due = append(due, p)
		}
	}
	return due, nil
}
