// Package store persists plants, plant lists and users in Badger.
//
// Values are JSON documents under a type prefix ("plant:", "plist:", "user:").
// Secondary indexes are empty-valued keys under "idx:" whose suffix carries
// the referenced id, so lookups are prefix scans that never touch values.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/istdurstig/istdurstig-server/internal/domain"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Users *Entity[domain.User]
}

// New opens (or creates) the database at path. An empty path opens an
// in-memory database, which is what the tests use when they do not care
// about restarts.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
		opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup
	}
	opts.Logger = nil // Disable Badger's internal logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}
	s.initUsers()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path, "in_memory", path == "")
	}

	return s, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// Ping checks that the database still answers reads.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// readJSON decodes the value at key into a new T. It returns (nil, nil)
// when the key does not exist.
func readJSON[T any](txn *badger.Txn, key []byte) (*T, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var v T
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &v)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return &v, nil
}

// writeJSON encodes value and sets it at key.
func writeJSON(txn *badger.Txn, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set(key, data)
}

// checkVersion enforces compare-and-swap semantics for a versioned save.
// stored is the persisted version, or -1 when nothing is stored yet.
func checkVersion(expected, stored int64, notFound error) error {
	switch {
	case expected == 0 && stored >= 0:
		return ErrVersionConflict
	case expected > 0 && stored < 0:
		return notFound
	case expected > 0 && stored != expected:
		return ErrVersionConflict
	default:
		return nil
	}
}

// update runs fn in a read-write transaction and folds Badger's own
// optimistic conflict into ErrVersionConflict.
func (s *Store) update(fn func(txn *badger.Txn) error) error {
	err := s.db.Update(fn)
	if errors.Is(err, badger.ErrConflict) {
		return ErrVersionConflict
	}
	return err
}

// scanIDs returns the trailing id component of every key under prefix.
func scanIDs(txn *badger.Txn, prefix []byte) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		ids = append(ids, string(it.Item().Key()[len(prefix):]))
	}
	return ids
}
