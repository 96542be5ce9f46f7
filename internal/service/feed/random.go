package feed

import (
	"math"
	"math/rand/v2"
)

// Rand is the source of randomness used by selection. *rand.Rand from
// math/rand/v2 satisfies it. Implementations need not be safe for
// concurrent use; the service creates one per request.
type Rand interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

const (
	gumbelLow  = 1e-12
	gumbelHigh = 1 - 1e-12
)

// gumbel draws a standard Gumbel(0,1) variate.
func gumbel(r Rand) float64 {
	u := min(max(r.Float64(), gumbelLow), gumbelHigh)
	return -math.Log(-math.Log(u))
}

// NewRand returns a PCG-backed generator seeded with the given values.
func NewRand(seed1, seed2 uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}

func randomRand() Rand {
	return NewRand(rand.Uint64(), rand.Uint64())
}
