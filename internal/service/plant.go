package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/istdurstig/istdurstig-server/internal/clock"
	"github.com/istdurstig/istdurstig-server/internal/domain"
	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
	"github.com/istdurstig/istdurstig-server/internal/id"
	"github.com/istdurstig/istdurstig-server/internal/validation"
)

const (
	// cascadeConcurrency bounds the list updates a plant delete runs at once.
	cascadeConcurrency = 4

	defaultSearchLimit = 20
)

// PlantInput carries the editable fields of a plant as received from a client.
type PlantInput struct {
	Name      string   `json:"name" validate:"required,max=100"`
	Type      string   `json:"type" validate:"max=100"`
	Tags      []string `json:"tags" validate:"max=50,dive,max=50"`
	Notes     string   `json:"notes" validate:"max=2000"`
	PhotoURL  string   `json:"photo_url" validate:"omitempty,url"`
	Frequency string   `json:"frequency" validate:"required,frequency"`
}

func (in PlantInput) attributes() (domain.PlantAttributes, error) {
	f, err := domain.ParseFrequency(in.Frequency)
	if err != nil {
		return domain.PlantAttributes{}, err
	}
	return domain.PlantAttributes{
		Name:      in.Name,
		Type:      in.Type,
		Tags:      in.Tags,
		Notes:     in.Notes,
		PhotoURL:  in.PhotoURL,
		Frequency: f,
	}, nil
}

// CareEventRequest describes a care action to record.
type CareEventRequest struct {
	Type   string         `json:"type" validate:"required,care_event_type"`
	Notes  string         `json:"notes" validate:"max=2000"`
	Fields map[string]any `json:"-"`
}

// PlantService orchestrates plant operations behind the access rules.
type PlantService struct {
	plants  PlantStore
	lists   PlantListStore
	access  *AccessResolver
	indexer   PlantIndexer
	validator *validation.Validator
	clock     clock.Clock
	logger    *slog.Logger
}

// NewPlantService creates a new plant service. indexer may be nil.
func NewPlantService(
	plants PlantStore,
	lists PlantListStore,
	access *AccessResolver,
	indexer PlantIndexer,
	validator *validation.Validator,
	c clock.Clock,
	logger *slog.Logger,
) *PlantService {
	return &PlantService{
		plants:    plants,
		lists:     lists,
		access:    access,
		indexer:   indexer,
		validator: validator,
		clock:     c,
		logger:    logger,
	}
}

// CreatePlant creates a plant and, when listID is set, appends it to that
// list. The caller must be allowed to add plants to the list. A plant
// created without a list is stored but visible to nobody until added to one.
func (s *PlantService) CreatePlant(ctx context.Context, userID, listID string, in PlantInput) (*domain.Plant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	attrs, err := in.attributes()
	if err != nil {
		return nil, err
	}

	if listID != "" {
		list, err := s.lists.GetPlantList(ctx, listID)
		if err != nil {
			return nil, err
		}
		if err := list.Authorize(userID, domain.ListActionAddPlant); err != nil {
			return nil, err
		}
	}

	plantID, err := id.Generate(id.PrefixPlant)
	if err != nil {
		return nil, fmt.Errorf("generate plant ID: %w", err)
	}

	plant, err := domain.NewPlant(plantID, s.clock.Now(), attrs)
	if err != nil {
		return nil, err
	}
	if err := s.plants.SavePlant(ctx, plant); err != nil {
		return nil, fmt.Errorf("create plant: %w", err)
	}

	if listID != "" {
		if _, err := s.appendToList(ctx, userID, listID, plantID); err != nil {
			if delErr := s.plants.DeletePlant(ctx, plantID); delErr != nil {
				s.logger.Warn("failed to roll back plant after list update failed",
					"plant_id", plantID,
					"list_id", listID,
					"error", delErr,
				)
			}
			return nil, err
		}
	}

	s.index(ctx, plant)

	s.logger.Info("plant created",
		"plant_id", plantID,
		"user_id", userID,
		"list_id", listID,
		"frequency", attrs.Frequency,
	)

	return plant, nil
}

// appendToList adds plantID to listID under the add-plant policy.
func (s *PlantService) appendToList(ctx context.Context, userID, listID, plantID string) (*domain.PlantList, error) {
	return retryOnConflict(ctx, func() (*domain.PlantList, error) {
		list, err := s.lists.GetPlantList(ctx, listID)
		if err != nil {
			return nil, err
		}
		if err := list.Authorize(userID, domain.ListActionAddPlant); err != nil {
			return nil, err
		}
		list.AddPlant(plantID, s.clock.Now())
		if err := s.lists.SavePlantList(ctx, list); err != nil {
			return nil, err
		}
		return list, nil
	})
}

// GetPlant returns a plant the caller can see.
// A missing plant is NotFound; an existing plant outside the caller's lists is AccessDenied.
func (s *PlantService) GetPlant(ctx context.Context, userID, plantID string) (*domain.Plant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plant, err := s.plants.GetPlant(ctx, plantID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequirePlantAccess(ctx, userID, plantID); err != nil {
		return nil, err
	}
	return plant, nil
}

// UpdatePlant replaces the editable fields of a plant. The last watered
// date and the care history are preserved.
func (s *PlantService) UpdatePlant(ctx context.Context, userID, plantID string, in PlantInput) (*domain.Plant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	attrs, err := in.attributes()
	if err != nil {
		return nil, err
	}
	if _, err := s.plants.GetPlant(ctx, plantID); err != nil {
		return nil, err
	}
	if err := s.access.RequirePlantAccess(ctx, userID, plantID); err != nil {
		return nil, err
	}

	plant, err := retryOnConflict(ctx, func() (*domain.Plant, error) {
		p, err := s.plants.GetPlant(ctx, plantID)
		if err != nil {
			return nil, err
		}
		if err := p.Update(attrs, s.clock.Now()); err != nil {
			return nil, err
		}
		if err := s.plants.SavePlant(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	s.index(ctx, plant)
	s.logger.Info("plant updated", "plant_id", plantID, "user_id", userID)
	return plant, nil
}

// DeletePlant removes a plant from every list that holds it and then
// deletes it. Deleting a plant that no longer exists succeeds.
func (s *PlantService) DeletePlant(ctx context.Context, userID, plantID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.plants.GetPlant(ctx, plantID); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.access.RequirePlantAccess(ctx, userID, plantID); err != nil {
		return err
	}

	holders, err := s.lists.FindPlantListsContainingPlant(ctx, plantID)
	if err != nil {
		return fmt.Errorf("find lists containing plant: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cascadeConcurrency)
	for _, holder := range holders {
		listID := holder.ID
		g.Go(func() error {
			return s.detachFromList(gctx, listID, plantID)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("remove plant from lists: %w", err)
	}

	if err := s.plants.DeletePlant(ctx, plantID); err != nil {
		return fmt.Errorf("delete plant: %w", err)
	}

	if s.indexer != nil {
		if err := s.indexer.DeletePlant(ctx, plantID); err != nil {
			s.logger.Warn("failed to remove plant from search index", "plant_id", plantID, "error", err)
		}
	}

	s.logger.Info("plant deleted",
		"plant_id", plantID,
		"user_id", userID,
		"lists_updated", len(holders),
	)
	return nil
}

// detachFromList removes every occurrence of plantID from listID.
// A list that vanished in the meantime is fine.
func (s *PlantService) detachFromList(ctx context.Context, listID, plantID string) error {
	_, err := retryOnConflict(ctx, func() (struct{}, error) {
		list, err := s.lists.GetPlantList(ctx, listID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return struct{}{}, nil
			}
			return struct{}{}, err
		}
		if !list.RemovePlant(plantID, s.clock.Now()) {
			return struct{}{}, nil
		}
		return struct{}{}, s.lists.SavePlantList(ctx, list)
	})
	return err
}

// AddCareEvent records a care action on a plant the caller can see.
// The event is stamped with the current time and the caller as author.
func (s *PlantService) AddCareEvent(ctx context.Context, userID, plantID string, req CareEventRequest) (*domain.Plant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.plants.GetPlant(ctx, plantID); err != nil {
		return nil, err
	}
	if err := s.access.RequirePlantAccess(ctx, userID, plantID); err != nil {
		return nil, err
	}

	eventID, err := id.NewEventID()
	if err != nil {
		return nil, err
	}

	plant, err := retryOnConflict(ctx, func() (*domain.Plant, error) {
		p, err := s.plants.GetPlant(ctx, plantID)
		if err != nil {
			return nil, err
		}
		now := s.clock.Now()
		event, err := domain.NewCareEvent(eventID, now, domain.CareEventInput{
			Type:     req.Type,
			Notes:    req.Notes,
			AuthorID: userID,
			Fields:   req.Fields,
		})
		if err != nil {
			return nil, err
		}
		p.AddCareEvent(event, now)
		if err := s.plants.SavePlant(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	s.index(ctx, plant)
	s.logger.Info("care event recorded",
		"plant_id", plantID,
		"user_id", userID,
		"event_id", eventID,
		"type", strings.ToUpper(strings.TrimSpace(req.Type)),
	)
	return plant, nil
}

// ListPlantsForUser returns every plant visible to the caller.
func (s *PlantService) ListPlantsForUser(ctx context.Context, userID string) ([]*domain.Plant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.access.PlantsForUser(ctx, userID)
}

// ListPlantsDueToday returns the visible plants that need water today.
func (s *PlantService) ListPlantsDueToday(ctx context.Context, userID string) ([]*domain.Plant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.access.PlantsDueToday(ctx, userID)
}

// SearchPlants finds visible plants matching query by name, type, tags or notes.
// Without an indexer it falls back to a case-insensitive name match.
func (s *PlantService) SearchPlants(ctx context.Context, userID, query string, limit int) ([]*domain.Plant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.InvalidInput("search query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	visible, err := s.access.AccessiblePlantIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.indexer == nil {
		plants, err := s.plants.FindPlantsByIDs(ctx, visible)
		if err != nil {
			return nil, err
		}
		needle := strings.ToLower(query)
		matches := slices.DeleteFunc(plants, func(p *domain.Plant) bool {
			return !strings.Contains(strings.ToLower(p.Name), needle)
		})
		if len(matches) > limit {
			matches = matches[:limit]
		}
		return matches, nil
	}

	hits, err := s.indexer.SearchWithin(ctx, query, visible, limit)
	if err != nil {
		return nil, fmt.Errorf("search plants: %w", err)
	}

	return s.plants.FindPlantsByIDs(ctx, hits)
}

// index refreshes the search entry for p. Index failures never fail the
// write that triggered them.
func (s *PlantService) index(ctx context.Context, p *domain.Plant) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexPlant(ctx, p); err != nil {
		s.logger.Warn("failed to index plant", "plant_id", p.ID, "error", err)
	}
}
