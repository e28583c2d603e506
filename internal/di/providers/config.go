// Package providers contains dependency injection providers for the istdurstig server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/istdurstig/istdurstig-server/internal/clock"
	"github.com/istdurstig/istdurstig-server/internal/config"
	"github.com/istdurstig/istdurstig-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting istdurstig server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"timezone", cfg.App.Timezone,
	)

	return log, nil
}

// ProvideClock provides the system clock in the configured timezone.
// Watering due dates are calendar days in this zone.
func ProvideClock(i do.Injector) (clock.Clock, error) {
	cfg := do.MustInvoke[*config.Config](i)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return clock.NewSystem(loc), nil
}
