// Package entropy provides the deterministic random stream that drives
// world generation. Every stochastic decision in the pipeline draws from
// a Stream, so identical seed and configuration reproduce an identical
// world bit-for-bit.
package entropy

import (
	"hash/fnv"
	"math/rand"
)

// Stream is a seeded source of uniform random values in [0, 1).
type Stream struct {
	seed int64
	rng  *rand.Rand
}

// New creates a stream from a seed.
func New(seed int64) *Stream {
	return &Stream{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed this stream was created with.
func (s *Stream) Seed() int64 {
	return s.seed
}

// Float returns the next uniform value in [0, 1).
func (s *Stream) Float() float64 {
	return s.rng.Float64()
}

// IntN returns a uniform integer in [0, n). Returns 0 when n <= 0.
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}

// Range returns a uniform value in [lo, hi).
func (s *Stream) Range(lo, hi float64) float64 {
	return lo + s.Float()*(hi-lo)
}

// Jitter returns a symmetric perturbation in [-amount, amount).
func (s *Stream) Jitter(amount float64) float64 {
	return (s.Float()*2 - 1) * amount
}

// WeightedIndex samples an index proportionally to the given weights.
// Negative weights count as zero. When the total weight is not positive
// the draw degenerates to uniform, which is how degenerate field ranges
// are tie-broken during growth.
func (s *Stream) WeightedIndex(weights []float64) int {
	if len(weights) == 0 {
		return 0
	}
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return s.IntN(len(weights))
	}
	target := s.Float() * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}

// Shuffle performs a Fisher-Yates shuffle of n elements via swap.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// Fork derives a child stream whose seed depends only on the parent seed
// and the label. Pipeline stages fork their own streams so that inserting
// draws into one stage cannot shift the sequence seen by another.
func (s *Stream) Fork(label string) *Stream {
	h := fnv.New64a()
	h.Write([]byte(label))
	return New(s.seed ^ int64(h.Sum64()))
}
