package search

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/istdurstig/istdurstig-server/internal/domain"
)

// batchSize bounds the documents committed per Bleve batch.
const batchSize = 500

// PlantIndex wraps an in-memory Bleve index of plants.
//
// Thread safety: All public methods are safe for concurrent use.
// The mutex protects against index swaps during Rebuild.
type PlantIndex struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewPlantIndex creates an empty in-memory index. The store is the source of
// truth, so the index is rebuilt from it on every start.
func NewPlantIndex(logger *slog.Logger) (*PlantIndex, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &PlantIndex{
		index:  index,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources.
func (s *PlantIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexPlant adds or replaces the document for p.
func (s *PlantIndex) IndexPlant(ctx context.Context, p *domain.Plant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := NewPlantDocument(p)
	if err := s.index.Index(doc.ID, doc.ToMap()); err != nil {
		return fmt.Errorf("index plant %s: %w", p.ID, err)
	}
	return nil
}

// IndexPlants indexes every plant yielded by plants in batches.
// It returns the number of plants indexed.
func (s *PlantIndex) IndexPlants(ctx context.Context, plants iter.Seq2[*domain.Plant, error]) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	total := 0

	flush := func() error {
		if batch.Size() == 0 {
			return nil
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch: %w", err)
		}
		batch.Reset()
		return nil
	}

	for p, err := range plants {
		if err != nil {
			return total, err
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}

		doc := NewPlantDocument(p)
		if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
			return total, fmt.Errorf("batch index %s: %w", doc.ID, err)
		}
		total++

		if batch.Size() >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}

	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

// DeletePlant removes a plant's document. Deleting an unknown id is not an error.
func (s *PlantIndex) DeletePlant(ctx context.Context, plantID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(plantID)
}

// DocumentCount returns the number of indexed plants.
func (s *PlantIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild swaps in a fresh empty index and fills it from plants.
//
// Searches block until the swap is done.
func (s *PlantIndex) Rebuild(ctx context.Context, plants iter.Seq2[*domain.Plant, error]) (int, error) {
	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return 0, fmt.Errorf("create index: %w", err)
	}

	s.mu.Lock()
	old := s.index
	s.index = fresh
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		s.logger.Warn("failed to close previous search index", "error", err)
	}

	n, err := s.IndexPlants(ctx, plants)
	if err != nil {
		return n, err
	}

	s.logger.Info("rebuilt search index", "plants", n)
	return n, nil
}
