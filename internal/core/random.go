package core

import (
	"math/rand"
	"time"
)

// Random is the source of randomness consumed by the scene.
// Implementations must be deterministic for a given seed.
type Random interface {
	// Uniform returns a float64 uniformly distributed in [lower, upper).
	Uniform(lower, upper float64) float64
	// Intn returns an int uniformly distributed in [0, n).
	Intn(n int) int
}

type randSource struct {
	rng *rand.Rand
}

// NewRandom creates a Random seeded with seed.
func NewRandom(seed int64) Random {
	return &randSource{rng: rand.New(rand.NewSource(seed))}
}

func (r *randSource) Uniform(lower, upper float64) float64 {
	return lower + r.rng.Float64()*(upper-lower)
}

func (r *randSource) Intn(n int) int {
	return r.rng.Intn(n)
}

// ResolveSeed turns the "0 = random" convention into a concrete seed.
func ResolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}
