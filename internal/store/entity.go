package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic CRUD with unique secondary indexes for
// non-versioned types. Index keys are prefix + "idx:" + name + ":" + value
// and hold the owning id.
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []Index[T]
}

// Index defines a unique secondary index on an entity.
type Index[T any] struct {
	name            string
	keyGen          func(*T) []string
	lookupTransform func(string) string
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{store: s, prefix: prefix}
}

// WithIndex adds a unique secondary index.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	return e.WithIndexTransform(name, keyGen, nil)
}

// WithIndexTransform adds a unique secondary index whose lookups pass
// through lookupTransform first (case folding, trimming and so on).
func (e *Entity[T]) WithIndexTransform(name string, keyGen func(*T) []string, lookupTransform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:            name,
		keyGen:          keyGen,
		lookupTransform: lookupTransform,
	})
	return e
}

func (e *Entity[T]) key(id string) []byte {
	return []byte(e.prefix + id)
}

func (e *Entity[T]) indexKey(name, value string) []byte {
	return []byte(e.prefix + "idx:" + name + ":" + value)
}

// indexEntries returns every index key the entity occupies.
func (e *Entity[T]) indexEntries(entity *T) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, idx := range e.indexes {
		for _, v := range idx.keyGen(entity) {
			keys[string(e.indexKey(idx.name, v))] = struct{}{}
		}
	}
	return keys
}

// claimIndexes fails with ErrAlreadyExists if any key in want is taken by
// another entity, then points every key at id.
func claimIndexes(txn *badger.Txn, want, owned map[string]struct{}, id string) error {
	for k := range want {
		if _, mine := owned[k]; mine {
			continue
		}
		_, err := txn.Get([]byte(k))
		if err == nil {
			return fmt.Errorf("index conflict on %s: %w", k, ErrAlreadyExists)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check index key: %w", err)
		}
	}
	for k := range want {
		if err := txn.Set([]byte(k), []byte(id)); err != nil {
			return fmt.Errorf("set index key: %w", err)
		}
	}
	return nil
}

// Create stores a new entity. Returns ErrAlreadyExists if the id or any
// unique index value is taken.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.update(func(txn *badger.Txn) error {
		existing, err := readJSON[T](txn, e.key(id))
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyExists
		}
		if err := claimIndexes(txn, e.indexEntries(entity), nil, id); err != nil {
			return err
		}
		return writeJSON(txn, e.key(id), entity)
	})
}

// Get retrieves an entity by id. Returns ErrNotFound if absent.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entity *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		var err error
		entity, err = readJSON[T](txn, e.key(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrNotFound
	}
	return entity, nil
}

// GetByIndex retrieves an entity through a secondary index.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			value = idx.lookupTransform(value)
			break
		}
	}

	var entity *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(e.indexKey(indexName, value))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}
		entity, err = readJSON[T](txn, e.key(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrNotFound
	}
	return entity, nil
}

// Update replaces an existing entity and moves its index entries.
// Returns ErrNotFound if absent.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.update(func(txn *badger.Txn) error {
		old, err := readJSON[T](txn, e.key(id))
		if err != nil {
			return err
		}
		if old == nil {
			return ErrNotFound
		}

		owned := e.indexEntries(old)
		want := e.indexEntries(entity)
		for k := range owned {
			if _, keep := want[k]; keep {
				continue
			}
			if err := txn.Delete([]byte(k)); err != nil {
				return fmt.Errorf("delete index key: %w", err)
			}
		}
		if err := claimIndexes(txn, want, owned, id); err != nil {
			return err
		}
		return writeJSON(txn, e.key(id), entity)
	})
}

// Delete removes an entity and its index entries. Deleting a missing entity is not an error.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.update(func(txn *badger.Txn) error {
		old, err := readJSON[T](txn, e.key(id))
		if err != nil || old == nil {
			return err
		}
		for k := range e.indexEntries(old) {
			if err := txn.Delete([]byte(k)); err != nil {
				return fmt.Errorf("delete index key: %w", err)
			}
		}
		return txn.Delete(e.key(id))
	})
}

// List returns an iterator over all entities.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		_ = e.store.db.View(func(txn *badger.Txn) error {
			prefix := []byte(e.prefix)
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return err
				}

				if strings.HasPrefix(string(it.Item().Key()[len(prefix):]), "idx:") {
					continue
				}

				var entity T
				if err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				}); err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&entity, nil) {
					return nil
				}
			}
			return nil
		})
	}
}
