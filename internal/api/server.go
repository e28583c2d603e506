// Package api provides the HTTP API server and handlers for the istdurstig application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/istdurstig/istdurstig-server/internal/clock"
	"github.com/istdurstig/istdurstig-server/internal/ratelimit"
	"github.com/istdurstig/istdurstig-server/internal/service"
)

// Services groups the business services used by the API server.
type Services struct {
	Auth      *service.AuthService
	User      *service.UserService
	Plant     *service.PlantService
	PlantList *service.PlantListService
}

// Options configures the parts of the server that are not services.
// Nil health sources are reported as degraded.
type Options struct {
	// Clock decides what "today" means for schedules. Defaults to the system clock in UTC.
	Clock          clock.Clock
	Database       DatabasePinger
	SearchIndex    DocumentCounter
	AllowedOrigins []string

	// AuthRateLimiter throttles sign-up and sign-in per client IP. Nil disables it.
	AuthRateLimiter *ratelimit.KeyedRateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services        *Services
	clock           clock.Clock
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	database        DatabasePinger
	searchIndex     DocumentCounter
	authRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, opts Options, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         int((5 * time.Minute).Seconds()),
		}))
	}
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("istdurstig API", "1.0.0")
	humaConfig.Info.Description = "Household plant care: plants, watering schedules and shared plant lists."
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	if opts.Clock == nil {
		opts.Clock = clock.NewSystem(time.UTC)
	}

	s := &Server{
		services:        services,
		clock:           opts.Clock,
		router:          router,
		api:             api,
		logger:          logger,
		database:        opts.Database,
		searchIndex:     opts.SearchIndex,
		authRateLimiter: opts.AuthRateLimiter,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerPlantRoutes()
	s.registerPlantListRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the underlying huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// bearer is the security requirement shared by every authenticated operation.
var bearer = []map[string][]string{{"bearer": {}}}
