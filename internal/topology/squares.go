package topology

import (
	"log/slog"

	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// CompleteSquares scans all diagonal edges pairwise; wherever two
// diagonals cross inside an exact axis-aligned 2x2 cell, the two missing
// horizontal edges are added to close the square. An X crossing with no
// orthogonal support is visually and topologically ambiguous; the added
// rungs resolve it. Connections are only added, never removed.
func CompleteSquares(g *worldgen.Graph) int {
	type diag struct {
		minCol, minRow int // top-left corner of the 2x2 cell
		rising         bool // true: SW-NE diagonal, false: NW-SE
	}

	var diags []diag
	for _, e := range g.Edges() {
		a, b := g.Vertex(e.From), g.Vertex(e.To)
		dCol, dRow := b.Col-a.Col, b.Row-a.Row
		if dCol == 0 || dRow == 0 || abs(dCol) != 1 || abs(dRow) != 1 {
			continue // orthogonal or longer-than-one-cell diagonal
		}
		d := diag{minCol: min(a.Col, b.Col), minRow: min(a.Row, b.Row)}
		// Rising runs bottom-left to top-right (rows grow southward).
		d.rising = (dCol > 0) != (dRow > 0)
		diags = append(diags, d)
	}

	added := 0
	for i := 0; i < len(diags); i++ {
		for j := i + 1; j < len(diags); j++ {
			a, b := diags[i], diags[j]
			if a.minCol != b.minCol || a.minRow != b.minRow || a.rising == b.rising {
				continue
			}
			// The four corners of the shared 2x2 cell.
			tl, okTL := g.VertexAt(a.minCol, a.minRow)
			tr, okTR := g.VertexAt(a.minCol+1, a.minRow)
			bl, okBL := g.VertexAt(a.minCol, a.minRow+1)
			br, okBR := g.VertexAt(a.minCol+1, a.minRow+1)
			if !okTL || !okTR || !okBL || !okBR {
				continue
			}
			if !g.Connected(tl, tr) {
				if _, err := g.AddEdge(tl, tr); err == nil {
					added++
				}
			}
			if !g.Connected(bl, br) {
				if _, err := g.AddEdge(bl, br); err == nil {
					added++
				}
			}
		}
	}

	if added > 0 {
		slog.Info("square completion", "edges_added", added)
	}
	return added
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
