package entropy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rich-choy/flux-worldkit-sub000/internal/entropy"
)

func TestStreamDeterminism(t *testing.T) {
	a := entropy.New(12345)
	b := entropy.New(12345)

	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Float(), b.Float(), "draw %d diverged", i)
	}
}

func TestStreamSeedSeparation(t *testing.T) {
	a := entropy.New(1)
	b := entropy.New(2)

	same := 0
	for i := 0; i < 100; i++ {
		if a.Float() == b.Float() {
			same++
		}
	}
	require.Less(t, same, 5, "different seeds should not track each other")
}

func TestFloatRange(t *testing.T) {
	s := entropy.New(7)
	for i := 0; i < 10000; i++ {
		v := s.Float()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestWeightedIndex(t *testing.T) {
	s := entropy.New(99)

	// A dominant weight should win almost always.
	counts := make([]int, 3)
	for i := 0; i < 1000; i++ {
		counts[s.WeightedIndex([]float64{0.01, 100, 0.01})]++
	}
	require.Greater(t, counts[1], 950)

	// All-zero weights degenerate to uniform, never panic.
	for i := 0; i < 100; i++ {
		idx := s.WeightedIndex([]float64{0, 0, 0, 0})
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 4)
	}

	require.Equal(t, 0, s.WeightedIndex(nil))
}

func TestForkIndependence(t *testing.T) {
	a := entropy.New(42).Fork("weather")
	b := entropy.New(42).Fork("weather")
	c := entropy.New(42).Fork("growth")

	require.Equal(t, a.Float(), b.Float(), "same label must reproduce")
	require.NotEqual(t, a.Seed(), c.Seed(), "labels must separate streams")
}

func TestJitterBounds(t *testing.T) {
	s := entropy.New(3)
	for i := 0; i < 1000; i++ {
		j := s.Jitter(0.5)
		require.GreaterOrEqual(t, j, -0.5)
		require.Less(t, j, 0.5)
	}
}
