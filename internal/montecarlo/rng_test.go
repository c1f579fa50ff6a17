package montecarlo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalSource_Reproducible(t *testing.T) {
	a := NewNormalSource(42)
	b := NewNormalSource(42)

	for i := 0; i < 1000; i++ {
		assert.Equal(t, a.Next(), b.Next(), "sequences diverged at draw %d", i)
	}
}

func TestNormalSource_SeedsDiffer(t *testing.T) {
	a := NewNormalSource(1)
	b := NewNormalSource(2)

	same := true
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds produced identical sequences")
}

func TestNormalSource_DistributionMoments(t *testing.T) {
	rng := NewNormalSource(7)

	const n = 100000
	sum, sumSq := 0.0, 0.0
	for i := 0; i < n; i++ {
		z := rng.Next()
		assert.False(t, math.IsNaN(z) || math.IsInf(z, 0))
		sum += z
		sumSq += z * z
	}

	mean := sum / n
	variance := sumSq/n - mean*mean

	assert.InDelta(t, 0.0, mean, 0.02)
	assert.InDelta(t, 1.0, variance, 0.02)
}

func TestNormalSource_ZeroStateDoesNotDiverge(t *testing.T) {
	// Seed 0 makes the first LCG output the bare increment; the redraw
	// guard must keep ln(u1) finite regardless.
	rng := &NormalSource{state: 0}
	z := rng.Next()

	assert.False(t, math.IsInf(z, 0))
	assert.False(t, math.IsNaN(z))
}

func TestRunSeed_DeterministicAndSpread(t *testing.T) {
	assert.Equal(t, runSeed(42, 0), runSeed(42, 0))
	assert.NotEqual(t, runSeed(42, 0), runSeed(42, 1))
	assert.NotEqual(t, runSeed(42, 0), runSeed(43, 0))

	// Adjacent runs must not collide over a realistic range.
	seen := make(map[int64]bool, 10000)
	for s := 0; s < 10000; s++ {
		seed := runSeed(42, s)
		assert.False(t, seen[seed], "seed collision at run %d", s)
		seen[seed] = true
	}
}
