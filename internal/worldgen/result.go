package worldgen

// Metrics summarizes the spatial shape of a generated world.
type Metrics struct {
	GridCols int
	GridRows int
	WidthM   float64
	HeightM  float64

	VertexCount int
	EdgeCount   int

	// Fraction of vertices sitting on the top or bottom grid row.
	// Boundary-avoidance in the growth weighting keeps this low.
	BoundaryRowFraction float64
}

// GrowthStats reports what happened inside a growth engine.
type GrowthStats struct {
	Iterations       int
	ReSparks         int
	DiscardedChanns  int
	ComponentRetries int
	DroppedEdges     int
	Stalled          bool
}

// DitherStats reports ecosystem reassignment counts.
type DitherStats struct {
	Considered  int
	Reassigned  int
	ForcedMarsh int
	// Transitions counts moves keyed by "from>to".
	Transitions map[string]int
}

// ConnectivityStats reports the connectivity-adjustment pass.
type ConnectivityStats struct {
	EdgesAdded   int
	PerEcosystem map[Ecosystem]int
	// Starved counts ecosystems that ran out of eligible candidates
	// before reaching their degree target.
	Starved int
}

// Result is a complete world generation outcome: everything needed to
// reproduce or re-export the world.
type Result struct {
	Graph  *Graph
	Bands  []Band
	Config Config

	Origin VertexID

	Metrics      Metrics
	Growth       GrowthStats
	Dither       DitherStats
	Connectivity ConnectivityStats
}

// ComputeMetrics fills spatial metrics from the graph.
func ComputeMetrics(g *Graph, cfg Config) Metrics {
	m := Metrics{
		GridCols:    cfg.GridCols(),
		GridRows:    cfg.GridRows(),
		WidthM:      cfg.WidthM(),
		HeightM:     cfg.HeightM(),
		VertexCount: g.VertexCount(),
		EdgeCount:   g.EdgeCount(),
	}
	if m.VertexCount == 0 {
		return m
	}
	boundary := 0
	for _, v := range g.Vertices() {
		if v.Row == 0 || v.Row == m.GridRows-1 {
			boundary++
		}
	}
	m.BoundaryRowFraction = float64(boundary) / float64(m.VertexCount)
	return m
}
