// Package api provides the HTTP API for the Studly aggregation services.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/auth"
	"github.com/HaMeD1379/Studly-sub001/internal/metrics"
	"github.com/HaMeD1379/Studly-sub001/internal/ratelimit"
	"github.com/HaMeD1379/Studly-sub001/internal/service"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Services groups the business services used by the API server.
type Services struct {
	Stats       *service.StatsService
	Badges      *service.BadgeService
	Leaderboard *service.LeaderboardService
	Sessions    *service.SessionService
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const defaultLeaderboardPerMinute = 30

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	// LeaderboardPerMinute limits leaderboard computations per user.
	LeaderboardPerMinute int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services           *Services
	tokens             *auth.TokenService
	db                 Pinger
	metrics            *metrics.Metrics
	leaderboardLimiter *ratelimit.KeyedRateLimiter
	router             *chi.Mux
	api                huma.API
	logger             *slog.Logger
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(services *Services, tokens *auth.TokenService, db Pinger, m *metrics.Metrics, opts Options, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	if opts.LeaderboardPerMinute <= 0 {
		opts.LeaderboardPerMinute = defaultLeaderboardPerMinute
	}

	s := &Server{
		services:           services,
		tokens:             tokens,
		db:                 db,
		metrics:            m,
		leaderboardLimiter: ratelimit.PerMinute(opts.LeaderboardPerMinute),
		router:             router,
		logger:             logger,
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Studly API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	if m != nil {
		router.Handle("/metrics", m.Handler())
	}
	s.registerHealthRoutes()
	s.registerStatsRoutes()
	s.registerBadgeRoutes()
	s.registerLeaderboardRoutes()
	s.registerSessionRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, for OpenAPI generation and tests.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	s.leaderboardLimiter.Stop()
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
	if len(opts.AllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
}

// requestLogger logs one line per request through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
