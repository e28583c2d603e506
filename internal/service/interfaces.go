package service

import (
	"context"

	"github.com/istdurstig/istdurstig-server/internal/domain"
)

// PlantStore persists plants. SavePlant must reject stale versions with
// store.ErrVersionConflict.
type PlantStore interface {
	GetPlant(ctx context.Context, id string) (*domain.Plant, error)
	SavePlant(ctx context.Context, p *domain.Plant) error
	DeletePlant(ctx context.Context, id string) error
	FindPlantsByIDs(ctx context.Context, ids []string) ([]*domain.Plant, error)
}

// PlantListStore persists plant lists. SavePlantList must reject stale
// versions with store.ErrVersionConflict.
type PlantListStore interface {
	GetPlantList(ctx context.Context, id string) (*domain.PlantList, error)
	SavePlantList(ctx context.Context, l *domain.PlantList) error
	DeletePlantList(ctx context.Context, id string) error
	FindPlantListsByMember(ctx context.Context, userID string) ([]*domain.PlantList, error)
	FindPlantListsContainingPlant(ctx context.Context, plantID string) ([]*domain.PlantList, error)
}

// UserDirectory resolves users by id and email.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserStore is the UserDirectory plus the writes registration needs.
type UserStore interface {
	UserDirectory
	CreateUser(ctx context.Context, u *domain.User) error
	UpdateUser(ctx context.Context, u *domain.User) error
}

// PlantIndexer keeps a full-text index of plants.
type PlantIndexer interface {
	IndexPlant(ctx context.Context, p *domain.Plant) error
	DeletePlant(ctx context.Context, plantID string) error
	SearchWithin(ctx context.Context, query string, ids []string, limit int) ([]string, error)
}
