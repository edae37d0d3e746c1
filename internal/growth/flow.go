package growth

import (
	"log/slog"

	"github.com/rich-choy/flux-worldkit-sub000/internal/entropy"
	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// Flow grows the world column-by-column eastward from a single origin at
// the westernmost column, vertically centered. Active vertices ("flow
// heads") spawn 1-3 children into weighted neighbor cells until no heads
// remain or the east edge is reached.
type Flow struct{}

// Name implements Strategy.
func (f *Flow) Name() string { return worldgen.StrategyFlow }

// When the branching factor is this low, the candidate set drops pure
// vertical moves so growth does not wander in place.
const reducedCandidateThreshold = 0.25

// Grow implements Strategy.
func (f *Flow) Grow(cfg worldgen.Config, bands []worldgen.Band, rng *entropy.Stream) (*worldgen.Graph, worldgen.GrowthStats, error) {
	g := worldgen.NewGraph()
	var stats worldgen.GrowthStats

	cols, rows := cfg.GridCols(), cfg.GridRows()
	jitterAmt := cfg.SpacingM * 0.15

	originID, err := addCellVertex(g, cfg, bands, 0, cfg.CenterRow(), 0, 0)
	if err != nil {
		return nil, stats, err
	}
	g.Vertex(originID).Origin = true

	candidates := flowCandidates
	if cfg.BranchingFactor < reducedCandidateThreshold {
		candidates = flowCandidatesReduced
	}

	heads := []worldgen.VertexID{originID}
	maxIterations := cols * rows * 4
	reachedEast := false

	for len(heads) > 0 && stats.Iterations < maxIterations {
		stats.Iterations++
		head := heads[0]
		heads = heads[1:]
		hv := g.Vertex(head)

		branches := branchCount(cfg.BranchingFactor, rng)
		for spawn := 0; spawn < branches; spawn++ {
			weights := make([]float64, len(candidates))
			any := false
			for i, d := range candidates {
				w := directionWeight(d, hv.Col, hv.Row, cols, rows)
				if w > 0 {
					if _, taken := g.VertexAt(hv.Col+d.dCol, hv.Row+d.dRow); taken {
						w = 0
					}
				}
				weights[i] = w
				any = any || w > 0
			}
			if !any {
				break // head is boxed in
			}

			d := candidates[rng.WeightedIndex(weights)]
			col, row := hv.Col+d.dCol, hv.Row+d.dRow
			if _, taken := g.VertexAt(col, row); taken {
				continue
			}

			childID, err := addCellVertex(g, cfg, bands, col, row, rng.Jitter(jitterAmt), rng.Jitter(jitterAmt))
			if err != nil {
				continue
			}
			if _, err := g.AddEdge(head, childID); err != nil {
				return nil, stats, err
			}

			if col >= cols-1 {
				reachedEast = true
			} else {
				heads = append(heads, childID)
			}
		}
	}

	if !reachedEast {
		stats.Stalled = true
		slog.Warn("flow growth stalled before the east edge",
			"vertices", g.VertexCount(),
			"iterations", stats.Iterations,
		)
	}

	slog.Info("flow growth finished",
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount(),
		"iterations", stats.Iterations,
		"stalled", stats.Stalled,
	)
	return g, stats, nil
}

// branchCount draws 1-3 children weighted by the branching factor.
func branchCount(factor float64, rng *entropy.Stream) int {
	weights := []float64{
		1.5 - factor,
		0.4 + factor,
		0.1 + factor*factor*0.8,
	}
	return rng.WeightedIndex(weights) + 1
}

// addCellVertex places a vertex on a grid cell with sub-cell jitter on
// its world coordinates and an ecosystem assigned immediately from the
// band its world X falls into.
func addCellVertex(g *worldgen.Graph, cfg worldgen.Config, bands []worldgen.Band, col, row int, jitterX, jitterY float64) (worldgen.VertexID, error) {
	x := cfg.CellX(col) + jitterX
	y := cfg.CellY(row) + jitterY
	eco := worldgen.EcosystemForX(bands, x)
	return g.AddVertex(worldgen.Vertex{
		X: x, Y: y,
		Col: col, Row: row,
		Ecosystem:         eco,
		OriginalEcosystem: eco,
	})
}
