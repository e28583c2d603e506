package store

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/istdurstig/istdurstig-server/internal/domain"
)

// GetPlantList retrieves a plant list by ID.
func (s *Store) GetPlantList(ctx context.Context, id string) (*domain.PlantList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var l *domain.PlantList
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		l, err = readJSON[domain.PlantList](txn, plantListKey(id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get plant list: %w", err)
	}
	if l == nil {
		return nil, ErrPlantListNotFound
	}
	return l, nil
}

// SavePlantList creates or updates a list with compare-and-swap on its
// version and keeps the member and plant indexes in step.
// On success l.Version is incremented.
func (s *Store) SavePlantList(ctx context.Context, l *domain.PlantList) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	next := *l
	next.Version++

	err := s.update(func(txn *badger.Txn) error {
		old, err := readJSON[domain.PlantList](txn, plantListKey(l.ID))
		if err != nil {
			return err
		}
		stored := int64(-1)
		if old != nil {
			stored = old.Version
		}
		if err := checkVersion(l.Version, stored, ErrPlantListNotFound); err != nil {
			return err
		}

		if err := syncIndexKeys(txn, listIndexKeys(old), listIndexKeys(&next)); err != nil {
			return err
		}
		return writeJSON(txn, plantListKey(l.ID), &next)
	})
	if err != nil {
		return err
	}

	l.Version = next.Version
	if s.logger != nil {
		s.logger.Debug("plant list saved", "list_id", l.ID, "version", l.Version)
	}
	return nil
}

// DeletePlantList removes a list and its index entries. Deleting a missing
// list is not an error.
func (s *Store) DeletePlantList(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.update(func(txn *badger.Txn) error {
		old, err := readJSON[domain.PlantList](txn, plantListKey(id))
		if err != nil || old == nil {
			return err
		}
		if err := syncIndexKeys(txn, listIndexKeys(old), nil); err != nil {
			return err
		}
		return txn.Delete(plantListKey(id))
	})
	if err != nil {
		return fmt.Errorf("delete plant list: %w", err)
	}
	return nil
}

// FindPlantListsByMember returns every list userID owns or collaborates on.
func (s *Store) FindPlantListsByMember(ctx context.Context, userID string) ([]*domain.PlantList, error) {
	return s.findListsByIndex(ctx, memberIndexPrefix(userID))
}

// FindPlantListsContainingPlant returns every list that holds plantID,
// regardless of who owns it.
func (s *Store) FindPlantListsContainingPlant(ctx context.Context, plantID string) ([]*domain.PlantList, error) {
	return s.findListsByIndex(ctx, plantIndexPrefix(plantID))
}

func (s *Store) findListsByIndex(ctx context.Context, prefix []byte) ([]*domain.PlantList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lists []*domain.PlantList
	err := s.db.View(func(txn *badger.Txn) error {
		for _, listID := range scanIDs(txn, prefix) {
			if err := ctx.Err(); err != nil {
				return err
			}
			l, err := readJSON[domain.PlantList](txn, plantListKey(listID))
			if err != nil {
				return err
			}
			if l == nil {
				// Dangling index entry; the list is gone.
				continue
			}
			lists = append(lists, l)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find plant lists: %w", err)
	}
	return lists, nil
}

// listIndexKeys returns the index keys a list occupies. A nil list occupies none.
func listIndexKeys(l *domain.PlantList) map[string]struct{} {
	keys := make(map[string]struct{})
	if l == nil {
		return keys
	}
	for _, member := range l.Members() {
		keys[string(memberIndexKey(member, l.ID))] = struct{}{}
	}
	for _, plantID := range l.PlantIDs {
		keys[string(plantIndexKey(plantID, l.ID))] = struct{}{}
	}
	return keys
}

// syncIndexKeys deletes keys present only in old and sets keys present only in want.
func syncIndexKeys(txn *badger.Txn, old, want map[string]struct{}) error {
	for k := range old {
		if _, keep := want[k]; keep {
			continue
		}
		if err := txn.Delete([]byte(k)); err != nil {
			return fmt.Errorf("delete index key: %w", err)
		}
	}
	for k := range want {
		if _, have := old[k]; have {
			continue
		}
		if err := txn.Set([]byte(k), []byte{}); err != nil {
			return fmt.Errorf("set index key: %w", err)
		}
	}
	return nil
}
