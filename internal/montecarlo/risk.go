package montecarlo

import (
	"sort"

	"github.com/aristath/foresight/pkg/formulas"
)

// computeRiskMetrics calculates the scalar risk indicators over the
// distribution of terminal simple returns.
//
// Volatility uses the population standard deviation (N denominator): the
// simulated outcomes are a fully enumerated distribution, not a sample
// estimating a parameter. VaR figures are returns, not loss magnitudes;
// callers negate for a positive-loss convention.
func computeRiskMetrics(returns []float64) RiskMetrics {
	n := len(returns)
	if n == 0 {
		return RiskMetrics{}
	}

	sorted := make([]float64, n)
	copy(sorted, returns)
	sort.Float64s(sorted)

	losses := 0
	for _, r := range returns {
		if r < 0 {
			losses++
		}
	}

	var5 := formulas.PercentileSorted(sorted, 5)

	// Expected shortfall: mean of the tail at or below VaR5. The sorted
	// slice makes the tail a prefix.
	tailSum := 0.0
	tailCount := 0
	for _, r := range sorted {
		if r > var5 {
			break
		}
		tailSum += r
		tailCount++
	}
	cvar5 := var5
	if tailCount > 0 {
		cvar5 = tailSum / float64(tailCount)
	}

	return RiskMetrics{
		MeanReturn:        formulas.Mean(returns),
		MedianReturn:      formulas.PercentileSorted(sorted, 50),
		ProbabilityOfLoss: float64(losses) / float64(n),
		ValueAtRisk5:      var5,
		ValueAtRisk1:      formulas.PercentileSorted(sorted, 1),
		ConditionalVaR5:   cvar5,
		Volatility:        formulas.PopStdDev(returns),
	}
}
