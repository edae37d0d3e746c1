// Package growth provides the two graph growth engines that seed a world
// with its initial connected vertex/edge structure: the discharge-fractal
// engine and the eastward flow-growth engine. Both are swappable behind
// the Strategy interface and share one direction-weighting table.
package growth

import (
	"fmt"

	"github.com/rich-choy/flux-worldkit-sub000/internal/entropy"
	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// Strategy grows an initial connected graph from configuration, bands,
// and a deterministic stream. A stalled engine returns the partial graph
// it built, flagged in stats, never an error; errors are reserved for
// programming mistakes, not awkward configurations.
type Strategy interface {
	Name() string
	Grow(cfg worldgen.Config, bands []worldgen.Band, rng *entropy.Stream) (*worldgen.Graph, worldgen.GrowthStats, error)
}

// ForConfig returns the strategy selected by cfg.Strategy.
func ForConfig(cfg worldgen.Config) (Strategy, error) {
	switch cfg.Strategy {
	case worldgen.StrategyDischarge:
		return &Discharge{}, nil
	case worldgen.StrategyFlow:
		return &Flow{}, nil
	default:
		return nil, fmt.Errorf("unknown growth strategy %q", cfg.Strategy)
	}
}
