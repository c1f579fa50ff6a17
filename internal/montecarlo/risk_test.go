package montecarlo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRiskMetrics(t *testing.T) {
	// 10 returns, 3 of them negative.
	returns := []float64{-0.10, -0.05, -0.01, 0.00, 0.02, 0.03, 0.05, 0.08, 0.10, 0.18}

	risk := computeRiskMetrics(returns)

	assert.InDelta(t, 0.03, risk.MeanReturn, 1e-12)
	assert.InDelta(t, 0.025, risk.MedianReturn, 1e-12) // between 0.02 and 0.03
	assert.InDelta(t, 0.3, risk.ProbabilityOfLoss, 1e-12)

	// p5 over 10 sorted points: idx = 0.45 between -0.10 and -0.05.
	assert.InDelta(t, -0.0775, risk.ValueAtRisk5, 1e-12)
	assert.LessOrEqual(t, risk.ValueAtRisk1, risk.ValueAtRisk5)
	// Tail at or below VaR5 is just the worst return.
	assert.InDelta(t, -0.10, risk.ConditionalVaR5, 1e-12)
	assert.Greater(t, risk.Volatility, 0.0)
}

func TestComputeRiskMetrics_AllGains(t *testing.T) {
	risk := computeRiskMetrics([]float64{0.01, 0.02, 0.03})

	assert.Equal(t, 0.0, risk.ProbabilityOfLoss)
	assert.GreaterOrEqual(t, risk.ValueAtRisk5, 0.0)
}

func TestComputeRiskMetrics_UniformDistribution(t *testing.T) {
	// A degenerate distribution has zero volatility and every percentile
	// equal to the single value.
	risk := computeRiskMetrics([]float64{0.05, 0.05, 0.05, 0.05})

	assert.Equal(t, 0.05, risk.MeanReturn)
	assert.Equal(t, 0.05, risk.MedianReturn)
	assert.Equal(t, 0.05, risk.ValueAtRisk5)
	assert.Equal(t, 0.05, risk.ConditionalVaR5)
	assert.Equal(t, 0.0, risk.Volatility)
}

func TestComputeRiskMetrics_Empty(t *testing.T) {
	assert.Equal(t, RiskMetrics{}, computeRiskMetrics(nil))
}

func TestComputeSummary(t *testing.T) {
	values := []float64{90000, 110000, 130000, 70000}
	returns := []float64{-0.10, 0.10, 0.30, -0.30}

	summary := computeSummary(values, returns)

	assert.InDelta(t, 100000, summary.ExpectedValue, 1e-9)
	assert.Equal(t, 70000.0, summary.MinValue)
	assert.Equal(t, 130000.0, summary.MaxValue)
	assert.Equal(t, 0.30, summary.BestReturn)
	assert.Equal(t, -0.30, summary.WorstReturn)
}

func TestComputeSummary_SingleRun(t *testing.T) {
	summary := computeSummary([]float64{100000}, []float64{0})

	assert.Equal(t, 100000.0, summary.ExpectedValue)
	assert.Equal(t, 100000.0, summary.MinValue)
	assert.Equal(t, 100000.0, summary.MaxValue)
	assert.Equal(t, 0.0, summary.BestReturn)
	assert.Equal(t, 0.0, summary.WorstReturn)
}
