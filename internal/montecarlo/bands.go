package montecarlo

import (
	"sort"

	"github.com/aristath/foresight/pkg/formulas"
)

// computeBands calculates the fan-chart percentile bands of the price
// distribution at each day. Each day's cross-section is sorted once and
// queried for every requested level.
//
// Non-finite prices from overflowing paths sort to the top and flow into
// the high bands; the math stays well defined, the interpretation is the
// caller's problem.
func computeBands(matrix *PathMatrix, levels []float64) []PercentileBand {
	if matrix.Prices == nil {
		return nil
	}

	bands := make([]PercentileBand, len(levels))
	for i, level := range levels {
		bands[i] = PercentileBand{
			Level:  level,
			Values: make([]float64, matrix.Days+1),
		}
	}

	buf := make([]float64, matrix.Runs)
	for t := 0; t <= matrix.Days; t++ {
		copy(buf, matrix.Prices[t])
		sort.Float64s(buf)
		for i, level := range levels {
			bands[i].Values[t] = formulas.PercentileSorted(buf, level)
		}
	}

	return bands
}

// samplePaths extracts the first min(MaxSamplePaths, N) price paths as
// day-indexed rows, for visualization consumers that want raw trajectories
// alongside the bands.
func samplePaths(matrix *PathMatrix) [][]float64 {
	if matrix.Prices == nil {
		return nil
	}

	count := matrix.Runs
	if count > MaxSamplePaths {
		count = MaxSamplePaths
	}

	paths := make([][]float64, count)
	for s := 0; s < count; s++ {
		path := make([]float64, matrix.Days+1)
		for t := 0; t <= matrix.Days; t++ {
			path[t] = matrix.Prices[t][s]
		}
		paths[s] = path
	}

	return paths
}
