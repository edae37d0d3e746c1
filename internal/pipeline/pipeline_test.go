package pipeline_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rich-choy/flux-worldkit-sub000/internal/entropy"
	"github.com/rich-choy/flux-worldkit-sub000/internal/export"
	"github.com/rich-choy/flux-worldkit-sub000/internal/growth"
	"github.com/rich-choy/flux-worldkit-sub000/internal/pipeline"
	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// TestReferenceWorld pins the default configuration: seed 12345 on a
// 14.5 x 9 km world.
func TestReferenceWorld(t *testing.T) {
	cfg := worldgen.DefaultConfig()
	cfg.Seed = 12345

	res, snaps, err := pipeline.Generate(cfg)
	require.NoError(t, err)

	require.Len(t, res.Bands, 5, "exactly 5 ecosystem bands")

	origin := res.Graph.OriginVertex()
	require.NotNil(t, origin)
	require.Equal(t, 0, origin.Col, "origin at grid column 0")
	require.Equal(t, cfg.CenterRow(), origin.Row, "origin vertically centered")
	require.Equal(t, export.OriginAddress, origin.Address)

	for _, e := range res.Graph.Edges() {
		require.Zero(t, e.AngleDeg%45, "every edge angle a multiple of 45")
	}

	require.Less(t, res.Metrics.BoundaryRowFraction, 0.3)
	require.Len(t, snaps, res.Graph.VertexCount())
	require.Len(t, res.Graph.ConnectedComponents(), 1)
}

func TestByteIdenticalDeterminism(t *testing.T) {
	for _, strategy := range []string{worldgen.StrategyFlow, worldgen.StrategyDischarge} {
		cfg := worldgen.DefaultConfig()
		cfg.Strategy = strategy
		cfg.Seed = 777

		stamp := time.Unix(0, 0)
		var a, b bytes.Buffer

		resA, snapsA, err := pipeline.Generate(cfg)
		require.NoError(t, err)
		require.NoError(t, export.Write(&a, resA, snapsA, stamp))

		resB, snapsB, err := pipeline.Generate(cfg)
		require.NoError(t, err)
		require.NoError(t, export.Write(&b, resB, snapsB, stamp))

		require.Equal(t, a.String(), b.String(),
			"%s: identical seed and config must export byte-identically", strategy)
	}
}

func TestEdgeCountNeverRegresses(t *testing.T) {
	cfg := worldgen.DefaultConfig()

	// Replay the growth stage alone on the same forked stream the
	// pipeline uses, so its edge count is the true pre-pass baseline.
	strat, err := growth.ForConfig(cfg)
	require.NoError(t, err)
	bands := worldgen.MakeBands(cfg)
	grown, _, err := strat.Grow(cfg, bands, entropy.New(cfg.Seed).Fork("growth"))
	require.NoError(t, err)

	res, _, err := pipeline.Generate(cfg)
	require.NoError(t, err)

	require.Equal(t, grown.VertexCount(), res.Graph.VertexCount(),
		"post-processing never adds or removes vertices")
	require.GreaterOrEqual(t, res.Graph.EdgeCount(), grown.EdgeCount(),
		"post-processing only adds edges")
	require.GreaterOrEqual(t, grown.EdgeCount(), grown.VertexCount()-1)
}

func TestDitherAdjacencyHoldsEndToEnd(t *testing.T) {
	cfg := worldgen.DefaultConfig()
	cfg.DitherStrength = 1.0
	res, _, err := pipeline.Generate(cfg)
	require.NoError(t, err)

	for _, v := range res.Graph.Vertices() {
		home := worldgen.BandForX(res.Bands, v.X)
		allowed := map[worldgen.Ecosystem]bool{home.Ecosystem: true}
		for _, adj := range worldgen.AdjacentBands(res.Bands, home) {
			allowed[adj.Ecosystem] = true
		}
		require.True(t, allowed[v.Ecosystem],
			"vertex at (%d,%d): %s is more than one band from %s",
			v.Col, v.Row, v.Ecosystem, home.Ecosystem)
	}
}

func TestFullRoundTrip(t *testing.T) {
	cfg := worldgen.DefaultConfig()
	res, snaps, err := pipeline.Generate(cfg)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, export.Write(&out, res, snaps, time.Unix(0, 0)))

	imp, err := export.Read(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	require.Equal(t, res.Graph.VertexCount(), imp.Graph.VertexCount())
	require.Equal(t, cfg.Seed, imp.Meta.Config.Seed)

	// Address set survives the trip exactly.
	want := make(map[string]bool)
	for _, v := range res.Graph.Vertices() {
		want[v.Address] = true
	}
	got := make(map[string]bool)
	for _, v := range imp.Graph.Vertices() {
		got[v.Address] = true
	}
	require.Equal(t, want, got)
}

func TestInvalidConfigRefused(t *testing.T) {
	cfg := worldgen.DefaultConfig()
	cfg.SpacingM = -1
	_, _, err := pipeline.Generate(cfg)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "invalid config"))
}
