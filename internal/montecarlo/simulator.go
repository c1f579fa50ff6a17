package montecarlo

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Simulator is the orchestrator: a single entry point composing the path
// simulator, percentile bands, risk metrics and summary statistics into one
// pure (config, stats) -> result computation.
type Simulator struct {
	log zerolog.Logger
}

// NewSimulator creates a new simulator
func NewSimulator(log zerolog.Logger) *Simulator {
	return &Simulator{
		log: log.With().Str("component", "montecarlo").Logger(),
	}
}

// Simulate runs the full projection. Configuration errors fail fast before
// any simulation work; a cancelled context aborts between runs and returns
// the context error. Numerical degeneracies (sigma = 0) are valid inputs.
func (s *Simulator) Simulate(ctx context.Context, cfg Config, stats HistoricalStats) (*Result, error) {
	if err := cfg.Validate(stats.CurrentPrice); err != nil {
		return nil, err
	}

	started := time.Now()

	matrix, err := simulatePaths(ctx, cfg, stats)
	if err != nil {
		return nil, err
	}

	initialShares := cfg.InitialInvestment / stats.CurrentPrice

	terminalReturns := make([]float64, cfg.Paths)
	terminalValues := make([]float64, cfg.Paths)
	nonFinite := 0
	for i, price := range matrix.Terminal {
		terminalReturns[i] = price/stats.CurrentPrice - 1
		terminalValues[i] = price * initialShares
		if !isFinite(price) {
			nonFinite++
		}
	}

	// Overflowed paths propagate unmodified, but a caller should know the
	// distribution is degenerate.
	if nonFinite > 0 {
		s.log.Warn().
			Int("non_finite_terminals", nonFinite).
			Int("paths", cfg.Paths).
			Msg("Simulation produced non-finite terminal prices")
	}

	result := &Result{
		Config:          cfg,
		Stats:           stats,
		InitialShares:   initialShares,
		Matrix:          matrix,
		TerminalPrices:  matrix.Terminal,
		TerminalReturns: terminalReturns,
		TerminalValues:  terminalValues,
		Bands:           computeBands(matrix, cfg.levels()),
		SamplePaths:     samplePaths(matrix),
		Risk:            computeRiskMetrics(terminalReturns),
		Summary:         computeSummary(terminalValues, terminalReturns),
	}

	s.log.Debug().
		Int("paths", cfg.Paths).
		Int("horizon_days", cfg.HorizonDays).
		Bool("include_paths", cfg.IncludePaths).
		Dur("elapsed", time.Since(started)).
		Msg("Simulation completed")

	return result, nil
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
