// Package di provides dependency injection configuration for the istdurstig server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/istdurstig/istdurstig-server/internal/auth"
	"github.com/istdurstig/istdurstig-server/internal/clock"
	"github.com/istdurstig/istdurstig-server/internal/config"
	"github.com/istdurstig/istdurstig-server/internal/di/providers"
	"github.com/istdurstig/istdurstig-server/internal/logger"
	"github.com/istdurstig/istdurstig-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideClock)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAuthRateLimiter)

	// Business services
	do.Provide(injector, providers.ProvideAccessResolver)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvidePlantService)
	do.Provide(injector, providers.ProvidePlantListService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
// Providers are lazy; invoking them here surfaces configuration and storage
// errors before the process starts waiting for signals.
func Bootstrap(injector *do.RootScope) error {
	steps := []func() error{
		invoke[*config.Config](injector),
		invoke[*logger.Logger](injector),
		invoke[clock.Clock](injector),
		invoke[providers.AuthKey](injector),
		invoke[*providers.StoreHandle](injector),
		invoke[*providers.SearchIndexHandle](injector),
		invoke[*auth.TokenService](injector),
		invoke[*providers.AuthRateLimiterHandle](injector),
		invoke[*service.AuthService](injector),
		invoke[*service.PlantService](injector),
		invoke[*service.PlantListService](injector),
		invoke[*providers.HTTPServerHandle](injector),
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func invoke[T any](injector do.Injector) func() error {
	return func() error {
		_, err := do.Invoke[T](injector)
		return err
	}
}
