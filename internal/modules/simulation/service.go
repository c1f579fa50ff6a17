// Package simulation wires the Monte Carlo engine to its collaborators:
// historical statistics resolution, run persistence, result caching, and
// the HTTP surface.
package simulation

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/foresight/internal/montecarlo"
	"github.com/aristath/foresight/pkg/formulas"
)

// Default request parameters, matching the observed use of the engine.
const (
	DefaultPaths       = 10000
	DefaultHorizonDays = 252
)

// StatisticsProvider resolves historical statistics for a stored symbol.
// Implemented by the history module.
type StatisticsProvider interface {
	StatisticsForSymbol(symbol string, lookback int) (montecarlo.HistoricalStats, error)
}

// Limits bound what API callers may request.
type Limits struct {
	MaxPaths   int
	MaxHorizon int
}

// Request describes one simulation request as accepted from callers.
// Statistics come either inline (Stats) or from stored history (Symbol);
// inline wins when both are present. The horizon may be given in trading
// days or in years (x252); the engine only sees the resolved day count.
type Request struct {
	Symbol       string                      `json:"symbol,omitempty"`
	LookbackDays int                         `json:"lookback_days,omitempty"`
	Stats        *montecarlo.HistoricalStats `json:"historical_stats,omitempty"`

	Paths             int     `json:"paths,omitempty"`
	HorizonDays       int     `json:"horizon_days,omitempty"`
	HorizonYears      float64 `json:"horizon_years,omitempty"`
	InitialInvestment float64 `json:"initial_investment"`

	// Seed selects the deterministic random sequence. Zero means "pick one",
	// for callers that want variety rather than reproducibility.
	Seed int64 `json:"seed,omitempty"`

	IncludePaths     bool      `json:"include_paths,omitempty"`
	PercentileLevels []float64 `json:"percentile_levels,omitempty"`
}

// Response pairs the stored run ID with the full engine output.
type Response struct {
	RunID  string             `json:"run_id"`
	Cached bool               `json:"cached"`
	Result *montecarlo.Result `json:"result"`
}

// Service orchestrates simulation requests end to end.
type Service struct {
	simulator *montecarlo.Simulator
	stats     StatisticsProvider
	repo      *Repository
	cache     *ResultCache
	limits    Limits
	workers   int
	log       zerolog.Logger
}

// NewService creates a new simulation service. cache may be nil to disable
// result caching.
func NewService(
	simulator *montecarlo.Simulator,
	stats StatisticsProvider,
	repo *Repository,
	cache *ResultCache,
	limits Limits,
	workers int,
	log zerolog.Logger,
) *Service {
	return &Service{
		simulator: simulator,
		stats:     stats,
		repo:      repo,
		cache:     cache,
		limits:    limits,
		workers:   workers,
		log:       log.With().Str("component", "simulation_service").Logger(),
	}
}

// Run resolves the request, executes (or replays) the simulation, and
// persists the run summary.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	stats, err := s.resolveStats(req)
	if err != nil {
		return nil, err
	}

	cfg, err := s.resolveConfig(req)
	if err != nil {
		return nil, err
	}

	var result *montecarlo.Result
	cached := false
	if s.cache != nil {
		if hit := s.cache.Get(cfg, stats); hit != nil {
			result = hit
			cached = true
		}
	}

	if result == nil {
		result, err = s.simulator.Simulate(ctx, cfg, stats)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Put(cfg, stats, result)
		}
	}

	rec := RunRecord{
		ID:        uuid.New().String(),
		Symbol:    req.Symbol,
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
		Stats:     stats,
		Risk:      result.Risk,
		Summary:   result.Summary,
	}
	if err := s.repo.Insert(rec); err != nil {
		// The simulation itself succeeded; a persistence failure should not
		// cost the caller the result.
		s.log.Error().Err(err).Str("run_id", rec.ID).Msg("Failed to persist simulation run")
	}

	s.log.Info().
		Str("run_id", rec.ID).
		Str("symbol", req.Symbol).
		Int("paths", cfg.Paths).
		Int("horizon_days", cfg.HorizonDays).
		Bool("cached", cached).
		Float64("expected_value", result.Summary.ExpectedValue).
		Msg("Simulation run completed")

	return &Response{RunID: rec.ID, Cached: cached, Result: result}, nil
}

// resolveStats picks inline statistics or derives them from stored history.
func (s *Service) resolveStats(req Request) (montecarlo.HistoricalStats, error) {
	if req.Stats != nil {
		return *req.Stats, nil
	}
	if req.Symbol == "" {
		return montecarlo.HistoricalStats{}, fmt.Errorf(
			"%w: either historical_stats or symbol is required", montecarlo.ErrInvalidConfig)
	}
	if s.stats == nil {
		return montecarlo.HistoricalStats{}, fmt.Errorf(
			"%w: no statistics provider configured for symbol lookup", montecarlo.ErrInvalidConfig)
	}
	return s.stats.StatisticsForSymbol(req.Symbol, req.LookbackDays)
}

// resolveConfig applies defaults, resolves the horizon, and enforces limits.
func (s *Service) resolveConfig(req Request) (montecarlo.Config, error) {
	cfg := montecarlo.Config{
		Paths:             req.Paths,
		HorizonDays:       req.HorizonDays,
		InitialInvestment: req.InitialInvestment,
		Seed:              req.Seed,
		PercentileLevels:  req.PercentileLevels,
		IncludePaths:      req.IncludePaths,
		Workers:           s.workers,
	}

	if cfg.Paths == 0 {
		cfg.Paths = DefaultPaths
	}
	if cfg.HorizonDays == 0 && req.HorizonYears > 0 {
		cfg.HorizonDays = int(math.Round(req.HorizonYears * formulas.TradingDaysPerYear))
	}
	if cfg.HorizonDays == 0 {
		cfg.HorizonDays = DefaultHorizonDays
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if s.limits.MaxPaths > 0 && cfg.Paths > s.limits.MaxPaths {
		return montecarlo.Config{}, fmt.Errorf(
			"%w: paths %d exceeds limit %d", montecarlo.ErrInvalidConfig, cfg.Paths, s.limits.MaxPaths)
	}
	if s.limits.MaxHorizon > 0 && cfg.HorizonDays > s.limits.MaxHorizon {
		return montecarlo.Config{}, fmt.Errorf(
			"%w: horizon %d days exceeds limit %d", montecarlo.ErrInvalidConfig, cfg.HorizonDays, s.limits.MaxHorizon)
	}

	return cfg, nil
}

// GetRun returns one stored run summary.
func (s *Service) GetRun(id string) (*RunRecord, error) {
	return s.repo.GetByID(id)
}

// ListRuns returns recent stored run summaries.
func (s *Service) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRecent(limit)
}
