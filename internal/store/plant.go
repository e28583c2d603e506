package store

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/dgraph-io/badger/v4"

	"github.com/istdurstig/istdurstig-server/internal/domain"
)

// GetPlant retrieves a plant by ID.
func (s *Store) GetPlant(ctx context.Context, id string) (*domain.Plant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var p *domain.Plant
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		p, err = readJSON[domain.Plant](txn, plantKey(id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get plant: %w", err)
	}
	if p == nil {
		return nil, ErrPlantNotFound
	}
	return p, nil
}

// SavePlant creates or updates a plant with compare-and-swap on its version.
// A plant with Version 0 must not exist yet; otherwise the stored version
// must equal p.Version. On success p.Version is incremented.
func (s *Store) SavePlant(ctx context.Context, p *domain.Plant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	next := *p
	next.Version++

	err := s.update(func(txn *badger.Txn) error {
		old, err := readJSON[domain.Plant](txn, plantKey(p.ID))
		if err != nil {
			return err
		}
		stored := int64(-1)
		if old != nil {
			stored = old.Version
		}
		if err := checkVersion(p.Version, stored, ErrPlantNotFound); err != nil {
			return err
		}
		return writeJSON(txn, plantKey(p.ID), &next)
	})
	if err != nil {
		return err
	}

	p.Version = next.Version
	if s.logger != nil {
		s.logger.Debug("plant saved", "plant_id", p.ID, "version", p.Version)
	}
	return nil
}

// DeletePlant removes a plant. Deleting a missing plant is not an error.
// Callers are expected to have removed the plant from every list first.
func (s *Store) DeletePlant(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.update(func(txn *badger.Txn) error {
		return txn.Delete(plantKey(id))
	}); err != nil {
		return fmt.Errorf("delete plant: %w", err)
	}
	return nil
}

// FindPlantsByIDs loads the given plants in order, silently skipping ids
// that no longer exist.
func (s *Store) FindPlantsByIDs(ctx context.Context, ids []string) ([]*domain.Plant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plants := make([]*domain.Plant, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := readJSON[domain.Plant](txn, plantKey(id))
			if err != nil {
				return err
			}
			if p != nil {
				plants = append(plants, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find plants: %w", err)
	}
	return plants, nil
}

// ListPlants iterates every stored plant.
func (s *Store) ListPlants(ctx context.Context) iter.Seq2[*domain.Plant, error] {
	return func(yield func(*domain.Plant, error) bool) {
		_ = s.db.View(func(txn *badger.Txn) error {
			prefix := []byte(plantPrefix)
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return err
				}

				var p domain.Plant
				if err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &p)
				}); err != nil {
					yield(nil, err)
					return err
				}
				if !yield(&p, nil) {
					return nil
				}
			}
			return nil
		})
	}
}
