package formulas

import (
	"math"
	"sort"
)

// PercentileSorted returns the p-th percentile (0-100) of an ascending
// slice, using linear interpolation between the surrounding order
// statistics: idx = (p/100)*(n-1), result = sorted[lower]*(1-w) +
// sorted[upper]*w. The upper index is clamped to the last element.
//
// The input must already be sorted; callers that query several levels on
// the same data should sort once and reuse the slice.
func PercentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := (p / 100.0) * float64(n-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))

	if lower < 0 {
		return sorted[0]
	}
	if upper >= n {
		return sorted[n-1]
	}

	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Percentile returns the p-th percentile of unsorted data. The input is
// copied before sorting.
func Percentile(data []float64, p float64) float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return PercentileSorted(sorted, p)
}
