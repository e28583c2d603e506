package store

import (
	"errors"

	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
)

// Sentinel errors. The coded ones match their domain code with errors.Is,
// so errors.Is(store.ErrPlantNotFound, domainerrors.ErrNotFound) holds.
var (
	ErrNotFound          = domainerrors.NotFound("resource not found")
	ErrAlreadyExists     = domainerrors.Conflict("resource already exists")
	ErrPlantNotFound     = domainerrors.NotFound("plant not found")
	ErrPlantListNotFound = domainerrors.NotFound("plant list not found")
	ErrUserNotFound      = domainerrors.NotFound("user not found")
	ErrEmailExists       = domainerrors.Conflict("email already in use")
)

// ErrVersionConflict is returned when a save races another writer. It has no
// domain code, so it never matches domainerrors.ErrConflict.
var ErrVersionConflict = errors.New("store: aggregate was modified concurrently")
