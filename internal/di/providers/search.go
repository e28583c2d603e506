package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/istdurstig/istdurstig-server/internal/logger"
	"github.com/istdurstig/istdurstig-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.PlantIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve index, filled from the
// store before the server starts taking requests.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.NewPlantIndex(log.Logger)
	if err != nil {
		return nil, err
	}

	n, err := index.Rebuild(context.Background(), storeHandle.ListPlants(context.Background()))
	if err != nil {
		_ = index.Close()
		return nil, err
	}

	log.Info("Search index initialized", "documents", n)

	return &SearchIndexHandle{PlantIndex: index}, nil
}
