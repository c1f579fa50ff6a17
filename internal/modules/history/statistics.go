package history

import (
	"fmt"

	"github.com/aristath/foresight/internal/montecarlo"
	"github.com/aristath/foresight/pkg/formulas"
)

// MinClosesForStatistics is the smallest series that yields a usable
// volatility estimate (two closes give one return; stddev needs two).
const MinClosesForStatistics = 3

// Statistics reduces a chronological series of daily closes to the inputs
// the simulation engine consumes: the last close as the current price, and
// the sample mean / sample standard deviation (Bessel's correction) of the
// daily log returns. Annualized figures are attached for display.
func Statistics(closes []float64) (montecarlo.HistoricalStats, error) {
	if len(closes) < MinClosesForStatistics {
		return montecarlo.HistoricalStats{}, fmt.Errorf(
			"need at least %d closes to derive statistics, got %d", MinClosesForStatistics, len(closes))
	}

	current := closes[len(closes)-1]
	if current <= 0 {
		return montecarlo.HistoricalStats{}, fmt.Errorf("last close must be positive, got %g", current)
	}

	logReturns := formulas.LogReturns(closes)
	mu := formulas.Mean(logReturns)
	sigma := formulas.StdDev(logReturns)

	return montecarlo.HistoricalStats{
		CurrentPrice:         current,
		MeanDailyReturn:      mu,
		DailyVolatility:      sigma,
		AnnualizedReturn:     formulas.AnnualizedReturn(mu),
		AnnualizedVolatility: formulas.AnnualizedVolatility(logReturns),
	}, nil
}

// StatisticsForSymbol loads the stored closes for a symbol and derives the
// simulation inputs. lookback <= 0 uses the full stored series.
func (h *DB) StatisticsForSymbol(symbol string, lookback int) (montecarlo.HistoricalStats, error) {
	prices, err := h.GetDailyCloses(symbol, lookback)
	if err != nil {
		return montecarlo.HistoricalStats{}, err
	}

	closes := make([]float64, len(prices))
	for i, p := range prices {
		closes[i] = p.Close
	}

	stats, err := Statistics(closes)
	if err != nil {
		return montecarlo.HistoricalStats{}, fmt.Errorf("symbol %s: %w", symbol, err)
	}
	return stats, nil
}
