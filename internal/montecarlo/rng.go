package montecarlo

import "math"

// Linear congruential generator constants (Numerical Recipes). The modulus
// is 2^32, implicit in the uint32 arithmetic.
const (
	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
)

// NormalSource produces a reproducible sequence of standard-normal deviates
// from an integer seed. It layers a Box-Muller transform over an LCG
// uniform generator, caching the second Box-Muller sample as a one-slot
// spare so only every other call draws fresh uniforms.
//
// All state is explicit on the struct: two sources built with the same seed
// and advanced the same number of times produce bit-identical sequences,
// and each worker or run can own an independent instance.
type NormalSource struct {
	state    uint32
	spare    float64
	hasSpare bool
}

// NewNormalSource creates a generator seeded with the low 32 bits of seed.
func NewNormalSource(seed int64) *NormalSource {
	return &NormalSource{state: uint32(seed)}
}

// uniform advances the LCG and returns a value in [0, 1).
func (s *NormalSource) uniform() float64 {
	s.state = s.state*lcgMultiplier + lcgIncrement
	return float64(s.state) / 4294967296.0
}

// Next returns the next standard-normal deviate.
func (s *NormalSource) Next() float64 {
	if s.hasSpare {
		s.hasSpare = false
		return s.spare
	}

	// u1 must stay off zero or the log below diverges. The LCG hits zero
	// once per period, so a redraw loop terminates immediately.
	u1 := s.uniform()
	for u1 == 0 {
		u1 = s.uniform()
	}
	u2 := s.uniform()

	mag := math.Sqrt(-2 * math.Log(u1))
	s.spare = mag * math.Sin(2*math.Pi*u2)
	s.hasSpare = true

	return mag * math.Cos(2*math.Pi*u2)
}

// runSeed derives the generator state for one simulation run from the base
// seed, splitmix64-style. Seeding per run (rather than per worker) keeps
// results bit-identical for any worker count, since a run's draws depend
// only on its own index.
func runSeed(base int64, run int) int64 {
	x := uint64(base) + 0x9E3779B97F4A7C15*uint64(run+1)
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return int64(x)
}
