package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/istdurstig/istdurstig-server/internal/clock"
	"github.com/istdurstig/istdurstig-server/internal/domain"
	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
	"github.com/istdurstig/istdurstig-server/internal/id"
	"github.com/istdurstig/istdurstig-server/internal/validation"
)

// PlantListService orchestrates plant list operations with the owner and
// collaborator policy.
type PlantListService struct {
	lists     PlantListStore
	plants    PlantStore
	users     UserDirectory
	validator *validation.Validator
	clock     clock.Clock
	logger    *slog.Logger
}

// plantListInput carries the editable fields of a plant list.
type plantListInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// NewPlantListService creates a new plant list service.
func NewPlantListService(
	lists PlantListStore,
	plants PlantStore,
	users UserDirectory,
	validator *validation.Validator,
	c clock.Clock,
	logger *slog.Logger,
) *PlantListService {
	return &PlantListService{
		lists:     lists,
		plants:    plants,
		users:     users,
		validator: validator,
		clock:     c,
		logger:    logger,
	}
}

// CreatePlantList creates an empty list owned by the caller.
func (s *PlantListService) CreatePlantList(ctx context.Context, userID, name, description string) (*domain.PlantList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(plantListInput{Name: name, Description: description}); err != nil {
		return nil, err
	}

	listID, err := id.Generate(id.PrefixPlantList)
	if err != nil {
		return nil, fmt.Errorf("generate plant list ID: %w", err)
	}

	list, err := domain.NewPlantList(listID, userID, name, description, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.lists.SavePlantList(ctx, list); err != nil {
		return nil, fmt.Errorf("create plant list: %w", err)
	}

	s.logger.Info("plant list created",
		"list_id", listID,
		"owner_id", userID,
		"name", list.Name,
	)
	return list, nil
}

// GetPlantList returns a list the caller owns or collaborates on.
func (s *PlantListService) GetPlantList(ctx context.Context, userID, listID string) (*domain.PlantList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	list, err := s.lists.GetPlantList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if err := list.Authorize(userID, domain.ListActionRead); err != nil {
		return nil, err
	}
	return list, nil
}

// ListPlantListsForUser returns every list the caller owns or collaborates on.
func (s *PlantListService) ListPlantListsForUser(ctx context.Context, userID string) ([]*domain.PlantList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lists, err := s.lists.FindPlantListsByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find plant lists: %w", err)
	}
	return lists, nil
}

// UpdatePlantList changes the name and description.
func (s *PlantListService) UpdatePlantList(ctx context.Context, userID, listID, name, description string) (*domain.PlantList, error) {
	if err := s.validator.Validate(plantListInput{Name: name, Description: description}); err != nil {
		return nil, err
	}

	list, err := s.mutate(ctx, userID, listID, domain.ListActionUpdate, func(l *domain.PlantList) (bool, error) {
		return true, l.UpdateDetails(name, description, s.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("plant list updated", "list_id", listID, "user_id", userID)
	return list, nil
}

// DeletePlantList deletes a list. Only the owner may do this.
// The plants on the list are left alone.
func (s *PlantListService) DeletePlantList(ctx context.Context, userID, listID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	list, err := s.lists.GetPlantList(ctx, listID)
	if err != nil {
		return err
	}
	if err := list.Authorize(userID, domain.ListActionDelete); err != nil {
		return err
	}
	if err := s.lists.DeletePlantList(ctx, listID); err != nil {
		return fmt.Errorf("delete plant list: %w", err)
	}

	s.logger.Info("plant list deleted",
		"list_id", listID,
		"owner_id", userID,
		"plants", len(list.PlantIDs),
	)
	return nil
}

// AddPlantToList appends an existing plant to the list.
func (s *PlantListService) AddPlantToList(ctx context.Context, userID, listID, plantID string) (*domain.PlantList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The plant lookup runs after authorization so non-members learn nothing about plant IDs.
	list, err := s.mutate(ctx, userID, listID, domain.ListActionAddPlant, func(l *domain.PlantList) (bool, error) {
		if _, err := s.plants.GetPlant(ctx, plantID); err != nil {
			return false, err
		}
		l.AddPlant(plantID, s.clock.Now())
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("plant added to list",
		"list_id", listID,
		"plant_id", plantID,
		"user_id", userID,
	)
	return list, nil
}

// RemovePlantFromList removes every occurrence of the plant from the list.
// Removing a plant that is not on the list succeeds without a write.
func (s *PlantListService) RemovePlantFromList(ctx context.Context, userID, listID, plantID string) (*domain.PlantList, error) {
	list, err := s.mutate(ctx, userID, listID, domain.ListActionRemovePlant, func(l *domain.PlantList) (bool, error) {
		return l.RemovePlant(plantID, s.clock.Now()), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("plant removed from list",
		"list_id", listID,
		"plant_id", plantID,
		"user_id", userID,
	)
	return list, nil
}

// AddCollaboratorByEmail shares the list with the user registered under
// email. Only the owner may share.
func (s *PlantListService) AddCollaboratorByEmail(ctx context.Context, userID, listID, email string) (*domain.PlantList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domainerrors.InvalidInput("email is required")
	}

	// Non-owners learn nothing about which emails are registered.
	current, err := s.lists.GetPlantList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if err := current.Authorize(userID, domain.ListActionAddCollaborator); err != nil {
		return nil, err
	}

	collaborator, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFoundf("no user registered with email %s", email)
		}
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	list, err := s.mutate(ctx, userID, listID, domain.ListActionAddCollaborator, func(l *domain.PlantList) (bool, error) {
		return true, l.AddCollaborator(collaborator.ID, s.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("plant list shared",
		"list_id", listID,
		"owner_id", userID,
		"collaborator_id", collaborator.ID,
	)
	return list, nil
}

// RemoveCollaborator revokes a collaborator's access. Only the owner may do
// this, and removing someone who is not a collaborator succeeds.
func (s *PlantListService) RemoveCollaborator(ctx context.Context, userID, listID, collaboratorID string) (*domain.PlantList, error) {
	list, err := s.mutate(ctx, userID, listID, domain.ListActionRemoveCollaborator, func(l *domain.PlantList) (bool, error) {
		l.RemoveCollaborator(collaboratorID, s.clock.Now())
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("collaborator removed",
		"list_id", listID,
		"owner_id", userID,
		"collaborator_id", collaboratorID,
	)
	return list, nil
}

// mutate loads the list, checks action against the policy, applies fn and
// saves when fn reports a change. The whole sequence is retried from a fresh
// load if another writer got there first.
func (s *PlantListService) mutate(
	ctx context.Context,
	userID, listID string,
	action domain.ListAction,
	fn func(*domain.PlantList) (bool, error),
) (*domain.PlantList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return retryOnConflict(ctx, func() (*domain.PlantList, error) {
		list, err := s.lists.GetPlantList(ctx, listID)
		if err != nil {
			return nil, err
		}
		if err := list.Authorize(userID, action); err != nil {
			return nil, err
		}
		changed, err := fn(list)
		if err != nil {
			return nil, err
		}
		if !changed {
			return list, nil
		}
		if err := s.lists.SavePlantList(ctx, list); err != nil {
			return nil, err
		}
		return list, nil
	})
}
