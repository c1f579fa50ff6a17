package montecarlo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBands_KnownMatrix(t *testing.T) {
	matrix := &PathMatrix{
		Days: 1,
		Runs: 5,
		Prices: [][]float64{
			{100, 100, 100, 100, 100},
			{50, 20, 40, 10, 30}, // unsorted on purpose
		},
		Terminal: []float64{50, 20, 40, 10, 30},
	}

	bands := computeBands(matrix, []float64{10, 50, 90})
	require.Len(t, bands, 3)

	// Day 0 is uniform, every band sits at 100.
	for _, band := range bands {
		assert.Equal(t, 100.0, band.Values[0], "level %g", band.Level)
	}

	// Day 1 over sorted [10,20,30,40,50].
	assert.InDelta(t, 14.0, bands[0].Values[1], 1e-12)
	assert.InDelta(t, 30.0, bands[1].Values[1], 1e-12)
	assert.InDelta(t, 46.0, bands[2].Values[1], 1e-12)

	// The matrix itself must not have been reordered by the sorting.
	assert.Equal(t, []float64{50, 20, 40, 10, 30}, matrix.Prices[1])
}

func TestComputeBands_TerminalOnlyMatrix(t *testing.T) {
	matrix := &PathMatrix{Days: 5, Runs: 3, Terminal: []float64{1, 2, 3}}

	assert.Nil(t, computeBands(matrix, DefaultPercentileLevels))
}

func TestSamplePaths(t *testing.T) {
	matrix := &PathMatrix{
		Days: 2,
		Runs: 3,
		Prices: [][]float64{
			{100, 100, 100},
			{101, 99, 102},
			{103, 97, 104},
		},
		Terminal: []float64{103, 97, 104},
	}

	paths := samplePaths(matrix)
	require.Len(t, paths, 3) // fewer runs than the cap

	assert.Equal(t, []float64{100, 101, 103}, paths[0])
	assert.Equal(t, []float64{100, 99, 97}, paths[1])
	assert.Equal(t, []float64{100, 102, 104}, paths[2])
}
