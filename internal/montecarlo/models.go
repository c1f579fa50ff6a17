// Package montecarlo implements the Monte Carlo price-path projection
// engine: a deterministic random source, a Geometric Brownian Motion path
// simulator, and the percentile/risk/summary reductions over the simulated
// outcome distribution.
//
// The engine is pure computation. It performs no I/O, trusts its inputs
// (historical statistics are derived elsewhere), and returns an immutable
// result that is safe for concurrent readers.
package montecarlo

import (
	"errors"
	"fmt"
	"runtime"
)

// DefaultPercentileLevels are the fan-chart bands computed when the config
// does not request specific levels.
var DefaultPercentileLevels = []float64{10, 25, 50, 75, 90}

// MaxSamplePaths caps how many full price paths are retained on the result
// for visualization consumers.
const MaxSamplePaths = 100

// ErrInvalidConfig is wrapped by all configuration validation failures.
// These are caller errors, raised before any simulation work begins.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config describes one simulation request.
type Config struct {
	Paths             int     `json:"paths"`              // number of simulated runs (N)
	HorizonDays       int     `json:"horizon_days"`       // trading days to project (T)
	InitialInvestment float64 `json:"initial_investment"` // capital deployed at day 0
	Seed              int64   `json:"seed"`

	// PercentileLevels selects the fan-chart bands (0-100). Empty means
	// DefaultPercentileLevels.
	PercentileLevels []float64 `json:"percentile_levels,omitempty"`

	// IncludePaths materializes the full (T+1) x N price matrix so that
	// percentile bands and sample paths can be computed. When false the
	// simulator keeps terminal prices only, cutting memory to O(N).
	IncludePaths bool `json:"include_paths"`

	// Workers is the number of concurrent simulation workers.
	// Zero or negative means GOMAXPROCS.
	Workers int `json:"workers,omitempty"`
}

// Validate checks the configuration before any simulation work.
func (c Config) Validate(currentPrice float64) error {
	if c.Paths <= 0 {
		return fmt.Errorf("%w: paths must be positive, got %d", ErrInvalidConfig, c.Paths)
	}
	if c.HorizonDays <= 0 {
		return fmt.Errorf("%w: horizon days must be positive, got %d", ErrInvalidConfig, c.HorizonDays)
	}
	if c.InitialInvestment <= 0 {
		return fmt.Errorf("%w: initial investment must be positive, got %g", ErrInvalidConfig, c.InitialInvestment)
	}
	if currentPrice <= 0 {
		return fmt.Errorf("%w: current price must be positive, got %g", ErrInvalidConfig, currentPrice)
	}
	for _, p := range c.PercentileLevels {
		if p < 0 || p > 100 {
			return fmt.Errorf("%w: percentile level %g outside [0, 100]", ErrInvalidConfig, p)
		}
	}
	return nil
}

// levels returns the percentile levels to compute.
func (c Config) levels() []float64 {
	if len(c.PercentileLevels) == 0 {
		return DefaultPercentileLevels
	}
	return c.PercentileLevels
}

// workerCount resolves the effective worker count.
func (c Config) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// HistoricalStats are the per-instrument inputs derived from a historical
// price series by the history module (or supplied directly by a caller).
// The engine trusts them as-is.
type HistoricalStats struct {
	CurrentPrice    float64 `json:"current_price"`     // P0
	MeanDailyReturn float64 `json:"mean_daily_return"` // mu, daily log-return mean
	DailyVolatility float64 `json:"daily_volatility"`  // sigma, daily log-return stddev

	// Display-only derived fields, carried through for consumers.
	AnnualizedReturn     float64 `json:"annualized_return,omitempty"`
	AnnualizedVolatility float64 `json:"annualized_volatility,omitempty"`
}

// PathMatrix holds simulated prices as (T+1) day rows of N run columns.
// Row 0 is uniformly the current price. Prices is nil in terminal-only
// mode; Terminal always holds the day-T cross-section.
type PathMatrix struct {
	Days     int         `json:"days"` // T
	Runs     int         `json:"runs"` // N
	Prices   [][]float64 `json:"prices,omitempty"`
	Terminal []float64   `json:"terminal"`
}

// Row returns the price cross-section for a single day.
func (m *PathMatrix) Row(day int) []float64 {
	if m.Prices != nil {
		return m.Prices[day]
	}
	if day == m.Days {
		return m.Terminal
	}
	return nil
}

// PercentileBand is one fan-chart band: the per-day value of a single
// percentile level across all runs.
type PercentileBand struct {
	Level  float64   `json:"level"`
	Values []float64 `json:"values"` // length T+1
}

// RiskMetrics summarizes the distribution of terminal simple returns.
type RiskMetrics struct {
	MeanReturn        float64 `json:"mean_return"`
	MedianReturn      float64 `json:"median_return"`
	ProbabilityOfLoss float64 `json:"probability_of_loss"`
	ValueAtRisk5      float64 `json:"var_5"`  // 5th-percentile return
	ValueAtRisk1      float64 `json:"var_1"`  // 1st-percentile return
	ConditionalVaR5   float64 `json:"cvar_5"` // mean return in the 5% tail
	Volatility        float64 `json:"volatility"`
}

// Summary holds extremal and expected descriptors over terminal investment
// values and returns.
type Summary struct {
	ExpectedValue float64 `json:"expected_value"`
	MinValue      float64 `json:"min_value"`
	MaxValue      float64 `json:"max_value"`
	BestReturn    float64 `json:"best_return"`
	WorstReturn   float64 `json:"worst_return"`
}

// Result is the immutable output of one Simulate call. Constructed once,
// never mutated afterwards; safe to hand to multiple consumers.
type Result struct {
	Config        Config          `json:"config"`
	Stats         HistoricalStats `json:"historical_stats"`
	InitialShares float64         `json:"initial_shares"`

	// Matrix is the raw price grid. Excluded from serialized forms to keep
	// responses and cache entries bounded; API consumers get bands and
	// sample paths instead.
	Matrix *PathMatrix `json:"-" msgpack:"-"`

	TerminalPrices  []float64 `json:"terminal_prices"`
	TerminalReturns []float64 `json:"terminal_returns"`
	TerminalValues  []float64 `json:"terminal_values"`

	Bands       []PercentileBand `json:"percentile_bands,omitempty"`
	SamplePaths [][]float64      `json:"sample_paths,omitempty"` // first <=100 price paths

	Risk    RiskMetrics `json:"risk_metrics"`
	Summary Summary     `json:"summary"`
}
