// Package pipeline runs the full world synthesis sequence: band model,
// growth, the three post-processing passes, weather, and address
// finalization. One invocation owns its graph exclusively; the pipeline
// is synchronous end to end.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/rich-choy/flux-worldkit-sub000/internal/entropy"
	"github.com/rich-choy/flux-worldkit-sub000/internal/export"
	"github.com/rich-choy/flux-worldkit-sub000/internal/growth"
	"github.com/rich-choy/flux-worldkit-sub000/internal/topology"
	"github.com/rich-choy/flux-worldkit-sub000/internal/weather"
	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// Generate synthesizes a complete world from configuration. Everything
// is a pure function of seed and config; two calls with equal inputs
// return bit-identical worlds.
func Generate(cfg worldgen.Config) (*worldgen.Result, []weather.Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	bands := worldgen.MakeBands(cfg)
	strat, err := growth.ForConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	rng := entropy.New(cfg.Seed)

	slog.Info("generating world",
		"strategy", strat.Name(),
		"seed", cfg.Seed,
		"grid", fmt.Sprintf("%dx%d", cfg.GridCols(), cfg.GridRows()),
		"bands", len(bands),
	)

	g, growthStats, err := strat.Grow(cfg, bands, rng.Fork("growth"))
	if err != nil {
		return nil, nil, fmt.Errorf("growth: %w", err)
	}

	// Post-processing, fixed order. Each pass only adds edges.
	topology.CompleteSquares(g)
	ditherStats := topology.Dither(g, bands, cfg.DitherStrength, rng.Fork("dither"))
	connStats := topology.AdjustConnectivity(g, cfg)

	snaps := weather.Synthesize(g, cfg, rng.Fork("weather"))

	// Addresses only exist after dithering and the marsh post-pass, so
	// they can never go stale.
	if err := export.FinalizeAddresses(g); err != nil {
		return nil, nil, fmt.Errorf("finalize addresses: %w", err)
	}

	origin := g.OriginVertex()
	res := &worldgen.Result{
		Graph:        g,
		Bands:        bands,
		Config:       cfg,
		Origin:       origin.ID,
		Metrics:      worldgen.ComputeMetrics(g, cfg),
		Growth:       growthStats,
		Dither:       ditherStats,
		Connectivity: connStats,
	}
	return res, snaps, nil
}
