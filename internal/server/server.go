// Package server provides the HTTP server and routing for Foresight.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/foresight/internal/config"
	"github.com/aristath/foresight/internal/database"
	"github.com/aristath/foresight/internal/modules/history"
	"github.com/aristath/foresight/internal/modules/simulation"
	simulationhandlers "github.com/aristath/foresight/internal/modules/simulation/handlers"
	"github.com/aristath/foresight/internal/montecarlo"
)

// Config holds server configuration
type Config struct {
	Log     zerolog.Logger
	DB      *database.DB
	CacheDB *database.DB
	Config  *config.Config
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	db             *database.DB
	cacheDB        *database.DB
	cfg            *config.Config
	service        *simulation.Service
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server with all services wired
func New(cfg Config) *Server {
	simulator := montecarlo.NewSimulator(cfg.Log)
	historyDB := history.NewDB(cfg.DB, cfg.Log)
	repo := simulation.NewRepository(cfg.DB, cfg.Log)

	var cache *simulation.ResultCache
	if cfg.CacheDB != nil {
		cache = simulation.NewResultCache(cfg.CacheDB, cfg.Log)
	}

	service := simulation.NewService(
		simulator,
		historyDB,
		repo,
		cache,
		simulation.Limits{MaxPaths: cfg.Config.MaxPaths, MaxHorizon: cfg.Config.MaxHorizon},
		cfg.Config.SimWorkers,
		cfg.Log,
	)

	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		db:             cfg.DB,
		cacheDB:        cfg.CacheDB,
		cfg:            cfg.Config,
		service:        service,
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.Config.DataDir, cfg.DB, cfg.CacheDB),
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Service exposes the simulation service for callers outside the HTTP layer.
func (s *Server) Service() *simulation.Service {
	return s.service
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	// Large simulations can take a while.
	s.router.Use(middleware.Timeout(120 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		simulationhandlers.NewHandler(s.service, s.log).RegisterRoutes(r)

		r.Get("/system/status", s.systemHandlers.HandleSystemStatus)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router returns the underlying router, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
