package valuation

import (
	"math"
	"math/rand/v2"
	"sync"
)

// Source yields uniform draws in [0, 1). Implementations must be safe for
// concurrent use because a single Source is shared by every request.
type Source interface {
	Float64() float64
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a deterministic, seeded Source.
func NewSource(seed uint64) Source {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// GlobalSource returns the process-wide generator, randomly seeded at startup.
func GlobalSource() Source {
	return globalSource{}
}

// Uniform draws a value from the half-open interval [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	v := lo + (hi-lo)*src.Float64()
	if v >= hi {
		return math.Nextafter(hi, lo)
	}
	return v
}

// Weighted returns the index of the bucket hit by one draw, where each bucket
// is as wide as its weight. weights must be non-empty.
func Weighted(src Source, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}

	r := src.Float64() * total
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}
