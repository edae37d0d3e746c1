package topology

import (
	"log/slog"
	"sort"

	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// DegreeTargets is the desired average connections-per-vertex by
// ecosystem. Open steppe and grassland read as well-trodden and highly
// linked; rugged and remote biomes stay sparser.
var DegreeTargets = map[worldgen.Ecosystem]float64{
	worldgen.EcoSteppe:    3.0,
	worldgen.EcoGrassland: 2.8,
	worldgen.EcoMountain:  2.2,
	worldgen.EcoJungle:    2.1,
	worldgen.EcoMarsh:     2.0,
}

// bridgeRadius bounds the candidate search around an under-connected
// vertex, in cells.
const bridgeRadius = 6

// AdjustConnectivity raises each ecosystem's average degree toward its
// target by linking the least-connected vertex to the nearest
// unconnected candidate found in a preferred-direction search: vertical
// first for mountains, horizontal first otherwise, with a soft
// preference toward the vertical center line on ties. Only adds edges;
// stops per ecosystem when the target is met or no eligible candidate
// remains.
func AdjustConnectivity(g *worldgen.Graph, cfg worldgen.Config) worldgen.ConnectivityStats {
	stats := worldgen.ConnectivityStats{PerEcosystem: make(map[worldgen.Ecosystem]int)}

	for _, eco := range worldgen.Progression {
		target := DegreeTargets[eco]
		ineligible := make(map[worldgen.VertexID]bool)
		guard := g.VertexCount() * 2

		for adds := 0; adds < guard; adds++ {
			members := membersOf(g, eco)
			if len(members) == 0 {
				break
			}
			total := 0
			for _, id := range members {
				total += g.Degree(id)
			}
			if float64(total)/float64(len(members)) >= target {
				break
			}

			sort.Slice(members, func(i, j int) bool {
				di, dj := g.Degree(members[i]), g.Degree(members[j])
				if di != dj {
					return di < dj
				}
				return members[i] < members[j]
			})

			linked := false
			for _, id := range members {
				if ineligible[id] {
					continue
				}
				cand, ok := findBridge(g, cfg, id, eco == worldgen.EcoMountain)
				if !ok {
					ineligible[id] = true
					continue
				}
				if _, err := g.AddEdge(id, cand); err != nil {
					ineligible[id] = true
					continue
				}
				stats.EdgesAdded++
				stats.PerEcosystem[eco]++
				linked = true
				break
			}
			if !linked {
				stats.Starved++
				slog.Warn("connectivity target unreachable",
					"ecosystem", eco, "target", target)
				break
			}
		}
	}

	slog.Info("connectivity adjustment", "edges_added", stats.EdgesAdded, "starved", stats.Starved)
	return stats
}

func membersOf(g *worldgen.Graph, eco worldgen.Ecosystem) []worldgen.VertexID {
	var out []worldgen.VertexID
	for _, v := range g.Vertices() {
		if v.Ecosystem == eco {
			out = append(out, v.ID)
		}
	}
	return out
}

// findBridge searches outward from a vertex for the nearest occupied,
// not-yet-connected cell along the preferred axes, verifying with the
// geometric pathfinder that the straight bridge is clear.
func findBridge(g *worldgen.Graph, cfg worldgen.Config, from worldgen.VertexID, vertical bool) (worldgen.VertexID, bool) {
	v := g.Vertex(from)
	center := cfg.CenterRow()

	// Toward-center first is the soft centerline preference.
	up, down := -1, 1
	if v.Row > center {
		up, down = down, up
	}

	for d := 1; d <= bridgeRadius; d++ {
		var offsets [][2]int
		axisV := [][2]int{{0, d * up}, {0, d * down}}
		axisH := [][2]int{{d, 0}, {-d, 0}}
		diag := [][2]int{{d, d * up}, {d, d * down}, {-d, d * up}, {-d, d * down}}
		if vertical {
			offsets = append(append(axisV, diag...), axisH...)
		} else {
			offsets = append(append(axisH, diag...), axisV...)
		}

		for _, off := range offsets {
			col, row := v.Col+off[0], v.Row+off[1]
			cand, ok := g.VertexAt(col, row)
			if !ok || cand == from || g.Connected(from, cand) {
				continue
			}
			if !bridgeClear(g, cfg, v, g.Vertex(cand)) {
				continue
			}
			return cand, true
		}
	}
	return 0, false
}

// bridgeClear runs the pathfinder between the two cells with every other
// vertex cell marked occupied. An empty path between distinct cells is a
// failed bridge.
func bridgeClear(g *worldgen.Graph, cfg worldgen.Config, a, b *worldgen.Vertex) bool {
	occupied := make(map[GridPoint]bool, g.VertexCount())
	for _, v := range g.Vertices() {
		occupied[GridPoint{v.Col, v.Row}] = true
	}
	start := GridPoint{a.Col, a.Row}
	end := GridPoint{b.Col, b.Row}
	delete(occupied, start)
	delete(occupied, end)

	path := FindPath(start, end, Constraints{
		MaxSteps: bridgeRadius * 2,
		Min:      GridPoint{0, 0},
		Max:      GridPoint{cfg.GridCols(), cfg.GridRows()},
		Occupied: occupied,
	})
	return len(path) > 0
}
