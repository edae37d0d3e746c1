package worldgen

import (
	"fmt"
	"math"
	"sort"
)

type cellKey struct {
	col, row int
}

// Graph is the vertex/edge arena. Vertices are addressed by their stable
// integer handle; adjacency is stored as handle lists. Passes that need
// a pre-mutation view take a Clone rather than aliasing live slices.
type Graph struct {
	vertices []*Vertex
	edges    []Edge
	cells    map[cellKey]VertexID
}

// NewGraph creates an empty arena.
func NewGraph() *Graph {
	return &Graph{cells: make(map[cellKey]VertexID)}
}

// AddVertex places a vertex on its grid cell and returns its handle.
// The cell-bijectivity invariant is enforced here: a second vertex on an
// occupied cell is an error.
func (g *Graph) AddVertex(v Vertex) (VertexID, error) {
	key := cellKey{v.Col, v.Row}
	if _, taken := g.cells[key]; taken {
		return 0, fmt.Errorf("%w: cell (%d,%d)", ErrCellOccupied, v.Col, v.Row)
	}
	v.ID = VertexID(len(g.vertices))
	stored := v
	g.vertices = append(g.vertices, &stored)
	g.cells[key] = v.ID
	return v.ID, nil
}

// AddEdge links two vertices. The angle is derived from the grid
// displacement and the edge is rejected when the displacement is not
// 45-degree quantizable. Both adjacency lists are updated. Adding an
// already-present link is a no-op returning the existing edge.
func (g *Graph) AddEdge(from, to VertexID) (Edge, error) {
	a, b := g.Vertex(from), g.Vertex(to)
	if a == nil || b == nil {
		return Edge{}, fmt.Errorf("edge %d->%d: unknown vertex", from, to)
	}
	if e, ok := g.findEdge(from, to); ok {
		return e, nil
	}
	angle, err := AngleFromDelta(b.Col-a.Col, b.Row-a.Row)
	if err != nil {
		return Edge{}, fmt.Errorf("edge %d->%d: %w", from, to, err)
	}
	e := Edge{
		ID:       len(g.edges),
		From:     from,
		To:       to,
		AngleDeg: angle,
		LengthM:  math.Hypot(b.X-a.X, b.Y-a.Y),
	}
	g.edges = append(g.edges, e)
	a.Conns = append(a.Conns, to)
	b.Conns = append(b.Conns, from)
	return e, nil
}

func (g *Graph) findEdge(from, to VertexID) (Edge, bool) {
	for _, e := range g.edges {
		if (e.From == from && e.To == to) || (e.From == to && e.To == from) {
			return e, true
		}
	}
	return Edge{}, false
}

// Connected reports whether an edge links a and b in either direction.
func (g *Graph) Connected(a, b VertexID) bool {
	for _, c := range g.Vertex(a).Conns {
		if c == b {
			return true
		}
	}
	return false
}

// Vertex returns the vertex for a handle, or nil for an unknown handle.
func (g *Graph) Vertex(id VertexID) *Vertex {
	if id < 0 || int(id) >= len(g.vertices) {
		return nil
	}
	return g.vertices[id]
}

// VertexAt returns the handle of the vertex occupying a grid cell.
func (g *Graph) VertexAt(col, row int) (VertexID, bool) {
	id, ok := g.cells[cellKey{col, row}]
	return id, ok
}

// Vertices returns all vertices in handle order.
func (g *Graph) Vertices() []*Vertex {
	return g.vertices
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Degree returns the connection count of a vertex.
func (g *Graph) Degree(id VertexID) int {
	return len(g.Vertex(id).Conns)
}

// Clone returns a deep copy of the arena. Post-processing passes that
// need to read pre-mutation state snapshot through Clone instead of
// holding aliases into live adjacency lists.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		vertices: make([]*Vertex, len(g.vertices)),
		edges:    append([]Edge(nil), g.edges...),
		cells:    make(map[cellKey]VertexID, len(g.cells)),
	}
	for i, v := range g.vertices {
		dup := *v
		dup.Conns = append([]VertexID(nil), v.Conns...)
		c.vertices[i] = &dup
	}
	for k, v := range g.cells {
		c.cells[k] = v
	}
	return c
}

// ConnectedComponents returns vertex handle sets, largest first.
func (g *Graph) ConnectedComponents() [][]VertexID {
	seen := make([]bool, len(g.vertices))
	var comps [][]VertexID
	for start := range g.vertices {
		if seen[start] {
			continue
		}
		var comp []VertexID
		queue := []VertexID{VertexID(start)}
		seen[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			comp = append(comp, id)
			for _, n := range g.vertices[id].Conns {
				if !seen[n] {
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		comps = append(comps, comp)
	}
	sort.SliceStable(comps, func(i, j int) bool { return len(comps[i]) > len(comps[j]) })
	return comps
}

// LargestComponent rebuilds the arena keeping only the largest connected
// component. Handles are remapped densely; edges whose endpoints were
// dropped are discarded. The second return value counts discarded edges.
func (g *Graph) LargestComponent() (*Graph, int) {
	comps := g.ConnectedComponents()
	if len(comps) <= 1 {
		return g, 0
	}
	keep := comps[0]
	inKeep := make(map[VertexID]VertexID, len(keep))

	out := NewGraph()
	for _, id := range keep {
		v := *g.vertices[id]
		v.Conns = nil
		newID, err := out.AddVertex(v)
		if err != nil {
			// Cells were unique in the source arena, so this cannot fire.
			continue
		}
		inKeep[id] = newID
	}

	dropped := 0
	for _, e := range g.edges {
		from, okF := inKeep[e.From]
		to, okT := inKeep[e.To]
		if !okF || !okT {
			dropped++
			continue
		}
		if _, err := out.AddEdge(from, to); err != nil {
			dropped++
		}
	}
	return out, dropped
}

// TerminalVertices returns handles of vertices with exactly one
// connection.
func (g *Graph) TerminalVertices() []VertexID {
	var out []VertexID
	for _, v := range g.vertices {
		if len(v.Conns) == 1 {
			out = append(out, v.ID)
		}
	}
	return out
}

// OriginVertex returns the single origin-flagged vertex, or nil when the
// flag count is not exactly one.
func (g *Graph) OriginVertex() *Vertex {
	var found *Vertex
	for _, v := range g.vertices {
		if v.Origin {
			if found != nil {
				return nil
			}
			found = v
		}
	}
	return found
}
