package domain

import (
	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
)

// ListAction is an operation a user attempts on a plant list.
type ListAction int

const (
	// ListActionRead views the list and its plants.
	ListActionRead ListAction = iota
	// ListActionUpdate changes name or description.
	ListActionUpdate
	// ListActionAddPlant appends a plant.
	ListActionAddPlant
	// ListActionRemovePlant removes a plant.
	ListActionRemovePlant
	// ListActionDelete deletes the list.
	ListActionDelete
	// ListActionAddCollaborator shares the list.
	ListActionAddCollaborator
	// ListActionRemoveCollaborator revokes a share.
	ListActionRemoveCollaborator
)

// String returns the string representation of the action.
func (a ListAction) String() string {
	switch a {
	case ListActionRead:
		return "read"
	case ListActionUpdate:
		return "update"
	case ListActionAddPlant:
		return "add plant"
	case ListActionRemovePlant:
		return "remove plant"
	case ListActionDelete:
		return "delete"
	case ListActionAddCollaborator:
		return "add collaborator"
	case ListActionRemoveCollaborator:
		return "remove collaborator"
	default:
		return "unknown"
	}
}

// OwnerOnly reports whether only the list owner may perform the action.
func (a ListAction) OwnerOnly() bool {
	switch a {
	case ListActionDelete, ListActionAddCollaborator, ListActionRemoveCollaborator:
		return true
	case ListActionRead, ListActionUpdate, ListActionAddPlant, ListActionRemovePlant:
		return false
	default:
		return true
	}
}

// Authorize returns AccessDenied unless userID may perform action on the list.
func (l *PlantList) Authorize(userID string, action ListAction) error {
	if action.OwnerOnly() {
		if !l.IsOwner(userID) {
			return domainerrors.AccessDeniedf("only the owner can %s on this plant list", action)
		}
		return nil
	}
	if !l.IsUserAllowed(userID) {
		return domainerrors.AccessDeniedf("not allowed to %s on this plant list", action)
	}
	return nil
}
