package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/istdurstig/istdurstig-server/internal/api"
	"github.com/istdurstig/istdurstig-server/internal/clock"
	"github.com/istdurstig/istdurstig-server/internal/config"
	"github.com/istdurstig/istdurstig-server/internal/logger"
	"github.com/istdurstig/istdurstig-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer builds the API and starts listening in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	clk := do.MustInvoke[clock.Clock](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	limiterHandle := do.MustInvoke[*AuthRateLimiterHandle](i)

	services := &api.Services{
		Auth:      do.MustInvoke[*service.AuthService](i),
		User:      do.MustInvoke[*service.UserService](i),
		Plant:     do.MustInvoke[*service.PlantService](i),
		PlantList: do.MustInvoke[*service.PlantListService](i),
	}

	handler := api.NewServer(services, api.Options{
		Clock:           clk,
		Database:        storeHandle.Store,
		SearchIndex:     indexHandle.PlantIndex,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		AuthRateLimiter: limiterHandle.KeyedRateLimiter,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
