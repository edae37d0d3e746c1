package growth

import (
	"log/slog"
	"math"

	"github.com/rich-choy/flux-worldkit-sub000/internal/entropy"
	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// Discharge grows the world as an electrical breakdown pattern: sink
// cells near the east edge pull a frontier of candidate cells toward
// them with a strong inverse-distance field, while already-claimed
// source cells push back weakly, encouraging branching away from claimed
// territory. Growth halts on sink contact, vertex budget, or frontier
// exhaustion; channels walked back from terminals to roots become the
// vertex/edge graph, reduced to its largest connected component.
type Discharge struct{}

// Name implements Strategy.
func (d *Discharge) Name() string { return worldgen.StrategyDischarge }

const (
	sinkStrength   = 10.0
	sourceStrength = 0.25
	fieldPower     = 3.0
	maxReSparks    = 5
	maxRetries     = 10
	channelLimit   = 4096 // parent-walk bound, guards against cycles
)

type cell struct {
	col, row int
}

type dischargeState struct {
	cols, rows int
	sinks      []cell

	sources     map[cell]bool
	sourceOrder []cell // promotion order, keeps sampling deterministic
	roots       map[cell]bool
	parentOf    map[cell]cell
	childCount  map[cell]int

	frontierKeys []cell
	frontierVal  map[cell]float64

	finished bool
}

func newDischargeState(cols, rows int) *dischargeState {
	return &dischargeState{
		cols:        cols,
		rows:        rows,
		sources:     make(map[cell]bool),
		roots:       make(map[cell]bool),
		parentOf:    make(map[cell]cell),
		childCount:  make(map[cell]int),
		frontierVal: make(map[cell]float64),
	}
}

// Grow implements Strategy.
func (d *Discharge) Grow(cfg worldgen.Config, bands []worldgen.Band, rng *entropy.Stream) (*worldgen.Graph, worldgen.GrowthStats, error) {
	var stats worldgen.GrowthStats
	cols, rows := cfg.GridCols(), cfg.GridRows()
	minV := cfg.TargetMinVertices()
	maxV := cols * rows * 3 / 4

	st := newDischargeState(cols, rows)
	root := cell{0, rows / 2}
	st.addRoot(root)
	for _, r := range []int{rows / 2, rows / 6, rows * 5 / 6} {
		s := cell{cols - 1, r}
		if !containsCell(st.sinks, s) {
			st.sinks = append(st.sinks, s)
		}
	}

	st.run(minV, maxV, rng, &stats)

	g := worldgen.NewGraph()
	st.extractChannels(g, cfg, bands, rng, &stats)
	g, dropped := g.LargestComponent()
	stats.DroppedEdges += dropped

	// Regrow locally from the surviving component's terminals until the
	// minimum vertex target is met or growth stops moving.
	for retry := 0; g.VertexCount() < minV && retry < maxRetries; retry++ {
		stats.ComponentRetries++
		before := g.VertexCount()

		st = stateFromGraph(g, cols, rows, st.sinks)
		st.run(minV, maxV, rng, &stats)
		st.extractChannels(g, cfg, bands, rng, &stats)
		g, dropped = g.LargestComponent()
		stats.DroppedEdges += dropped

		if g.VertexCount() <= before {
			stats.Stalled = true
			slog.Warn("discharge regrowth stalled below vertex target",
				"vertices", g.VertexCount(), "target", minV)
			break
		}
	}

	designateOrigin(g, root)

	slog.Info("discharge growth finished",
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount(),
		"iterations", stats.Iterations,
		"resparks", stats.ReSparks,
		"retries", stats.ComponentRetries,
	)
	return g, stats, nil
}

// run drives the frontier-sampling loop until sink contact, the vertex
// budget, or frontier exhaustion. Re-sparks fire only while the source
// count is below the minimum target.
func (st *dischargeState) run(minV, maxV int, rng *entropy.Stream, stats *worldgen.GrowthStats) {
	maxIterations := st.cols * st.rows * 6
	resparks := 0

	for i := 0; i < maxIterations; i++ {
		if st.finished || len(st.sources) >= maxV {
			return
		}
		if len(st.frontierKeys) == 0 {
			if len(st.sources) < minV && resparks < maxReSparks && st.respark(rng) {
				resparks++
				stats.ReSparks++
				continue
			}
			return
		}
		stats.Iterations++
		st.step(rng)
	}
}

// step samples one frontier cell with probability proportional to its
// normalized field value raised to fieldPower and promotes it.
func (st *dischargeState) step(rng *entropy.Stream) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range st.frontierKeys {
		v := st.frontierVal[c]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	weights := make([]float64, len(st.frontierKeys))
	if span := hi - lo; span > 1e-12 {
		for i, c := range st.frontierKeys {
			weights[i] = math.Pow((st.frontierVal[c]-lo)/span, fieldPower)
		}
	}
	// A degenerate span leaves all weights zero; WeightedIndex then
	// breaks the tie uniformly.
	idx := rng.WeightedIndex(weights)
	chosen := st.frontierKeys[idx]
	st.frontierKeys = append(st.frontierKeys[:idx], st.frontierKeys[idx+1:]...)
	delete(st.frontierVal, chosen)

	st.promote(chosen)
}

// promote turns a frontier cell into a source: updates the field of the
// remaining frontier incrementally and expands the cell's neighbors.
func (st *dischargeState) promote(c cell) {
	st.sources[c] = true
	st.sourceOrder = append(st.sourceOrder, c)
	if p, ok := st.parentOf[c]; ok {
		st.childCount[p]++
	}

	for _, f := range st.frontierKeys {
		st.frontierVal[f] -= sourceStrength / dist(f, c)
	}

	st.expand(c)
}

// expand pushes the 8-connected neighbors of a source into the frontier.
// A neighbor that coincides with a sink terminates growth.
func (st *dischargeState) expand(c cell) {
	for _, d := range eightNeighbors {
		n := cell{c.col + d.dCol, c.row + d.dRow}
		if n.col < 0 || n.col >= st.cols || n.row < 0 || n.row >= st.rows {
			continue
		}
		if st.sources[n] {
			continue
		}
		if containsCell(st.sinks, n) {
			st.sources[n] = true
			st.sourceOrder = append(st.sourceOrder, n)
			st.parentOf[n] = c
			st.childCount[c]++
			st.finished = true
			continue
		}
		if _, inFrontier := st.frontierVal[n]; inFrontier {
			continue
		}
		st.parentOf[n] = c
		st.frontierKeys = append(st.frontierKeys, n)
		st.frontierVal[n] = st.fieldAt(n)
	}
}

// fieldAt computes the full field value for a newly tracked cell: strong
// sink attraction minus weak source repulsion, both inverse-distance.
func (st *dischargeState) fieldAt(c cell) float64 {
	v := 0.0
	for _, s := range st.sinks {
		v += sinkStrength / dist(c, s)
	}
	for _, s := range st.sourceOrder {
		v -= sourceStrength / dist(c, s)
	}
	return v
}

// respark promotes a jittered copy of a random existing source to a new
// parentless root, reopening exploration from a second origin.
func (st *dischargeState) respark(rng *entropy.Stream) bool {
	if len(st.sourceOrder) == 0 {
		return false
	}
	for attempt := 0; attempt < 10; attempt++ {
		s := st.sourceOrder[rng.IntN(len(st.sourceOrder))]
		target := cell{
			col: clamp(s.col+rng.IntN(3)-1, 0, st.cols-1),
			row: clamp(s.row+rng.IntN(3)-1, 0, st.rows-1),
		}
		if st.sources[target] {
			continue
		}
		st.addRoot(target)
		return true
	}
	return false
}

func (st *dischargeState) addRoot(c cell) {
	st.roots[c] = true
	st.sources[c] = true
	st.sourceOrder = append(st.sourceOrder, c)
	st.expand(c)
}

// extractChannels walks every terminal source back to any root and
// materializes root-reaching channels into the graph, deduplicating
// vertices by grid cell and jittering world coordinates sub-cell.
func (st *dischargeState) extractChannels(g *worldgen.Graph, cfg worldgen.Config, bands []worldgen.Band, rng *entropy.Stream, stats *worldgen.GrowthStats) {
	jitterAmt := cfg.SpacingM * 0.15

	for _, term := range st.sourceOrder {
		if st.childCount[term] > 0 || st.roots[term] {
			continue
		}

		var path []cell
		cur := term
		reached := false
		for steps := 0; steps < channelLimit; steps++ {
			path = append(path, cur)
			if st.roots[cur] {
				reached = true
				break
			}
			p, ok := st.parentOf[cur]
			if !ok {
				break
			}
			cur = p
		}
		if !reached {
			stats.DiscardedChanns++
			continue
		}

		prev := worldgen.VertexID(-1)
		for _, c := range path {
			id, ok := g.VertexAt(c.col, c.row)
			if !ok {
				var err error
				id, err = addCellVertex(g, cfg, bands, c.col, c.row,
					rng.Jitter(jitterAmt), rng.Jitter(jitterAmt))
				if err != nil {
					prev = -1
					continue
				}
			}
			if prev >= 0 {
				if _, err := g.AddEdge(prev, id); err != nil {
					slog.Debug("channel edge rejected", "error", err)
				}
			}
			prev = id
		}
	}
}

// stateFromGraph rebuilds growth state around an existing component: all
// of its cells count as claimed roots (so new channels stop at the first
// existing vertex), and the frontier reopens only around its terminals.
func stateFromGraph(g *worldgen.Graph, cols, rows int, sinks []cell) *dischargeState {
	st := newDischargeState(cols, rows)
	st.sinks = sinks

	for _, v := range g.Vertices() {
		c := cell{v.Col, v.Row}
		st.sources[c] = true
		st.roots[c] = true
	}
	for _, id := range g.TerminalVertices() {
		v := g.Vertex(id)
		st.expand(cell{v.Col, v.Row})
	}
	return st
}

// designateOrigin flags the vertex at the primary root cell, falling
// back to the westernmost vertex nearest the vertical center when the
// root did not survive component reduction.
func designateOrigin(g *worldgen.Graph, root cell) {
	if g.VertexCount() == 0 {
		return
	}
	if id, ok := g.VertexAt(root.col, root.row); ok {
		g.Vertex(id).Origin = true
		return
	}
	best := g.Vertices()[0]
	for _, v := range g.Vertices()[1:] {
		if v.Col < best.Col || (v.Col == best.Col && abs(v.Row-root.row) < abs(best.Row-root.row)) {
			best = v
		}
	}
	best.Origin = true
}

func dist(a, b cell) float64 {
	return math.Hypot(float64(a.col-b.col), float64(a.row-b.row))
}

func containsCell(s []cell, c cell) bool {
	for _, x := range s {
		if x == c {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
