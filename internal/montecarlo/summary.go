package montecarlo

import "github.com/aristath/foresight/pkg/formulas"

// computeSummary reduces terminal investment values and returns to their
// expected and extremal descriptors. Pure reductions; callers guarantee at
// least one run.
func computeSummary(values, returns []float64) Summary {
	minValue, maxValue := values[0], values[0]
	for _, v := range values[1:] {
		if v < minValue {
			minValue = v
		}
		if v > maxValue {
			maxValue = v
		}
	}

	best, worst := returns[0], returns[0]
	for _, r := range returns[1:] {
		if r > best {
			best = r
		}
		if r < worst {
			worst = r
		}
	}

	return Summary{
		ExpectedValue: formulas.Mean(values),
		MinValue:      minValue,
		MaxValue:      maxValue,
		BestReturn:    best,
		WorstReturn:   worst,
	}
}
