package providers

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/istdurstig/istdurstig-server/internal/config"
	"github.com/istdurstig/istdurstig-server/internal/logger"
	"github.com/istdurstig/istdurstig-server/internal/ratelimit"
)

// AuthRateLimiterHandle wraps the auth rate limiter, whose background sweep
// must be stopped on shutdown.
type AuthRateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *AuthRateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideAuthRateLimiter provides the per-IP limiter for sign-up and sign-in.
func ProvideAuthRateLimiter(i do.Injector) (*AuthRateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	limiter := ratelimit.New(ratelimit.PerInterval(cfg.RateLimit.AuthPerMinute, time.Minute), cfg.RateLimit.AuthBurst)

	log.Info("Auth rate limiter started",
		"per_minute", cfg.RateLimit.AuthPerMinute,
		"burst", cfg.RateLimit.AuthBurst,
	)

	return &AuthRateLimiterHandle{KeyedRateLimiter: limiter}, nil
}
