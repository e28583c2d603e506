package api

import (
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/istdurstig/istdurstig-server/internal/logger"
)

// rateLimitAuth is a huma middleware that limits auth attempts per client IP.
// Returns 429 Too Many Requests when limit is exceeded.
func (s *Server) rateLimitAuth(ctx huma.Context, next func(huma.Context)) {
	if s.authRateLimiter == nil {
		next(ctx)
		return
	}

	key := clientIP(ctx.RemoteAddr())
	if !s.authRateLimiter.Allow(key) {
		u := ctx.URL()
		logger.FromContext(ctx.Context(), s.logger).Warn("Rate limit exceeded",
			"ip", key,
			"path", u.Path,
		)
		ctx.SetHeader("Retry-After", "60")
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	next(ctx)
}

// clientIP strips the port from a remote address. middleware.RealIP has
// already replaced it with X-Forwarded-For or X-Real-IP when present.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
