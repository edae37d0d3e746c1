package worldgen

import (
	"errors"
	"fmt"
)

// VertexID is a stable integer handle into the graph arena.
type VertexID int

// Compass direction strings, 45-degree quantized.
const (
	DirEast      = "east"
	DirNortheast = "northeast"
	DirNorth     = "north"
	DirNorthwest = "northwest"
	DirWest      = "west"
	DirSouthwest = "southwest"
	DirSouth     = "south"
	DirSoutheast = "southeast"
)

// Flow classifies an edge's compass angle into five traversal families.
type Flow string

const (
	FlowEastward  Flow = "eastward"
	FlowWestward  Flow = "westward"
	FlowNorthward Flow = "northward"
	FlowSouthward Flow = "southward"
	FlowDiagonal  Flow = "diagonal"
)

// ErrNotQuantized is returned when a grid displacement cannot be
// expressed as a multiple-of-45-degree direction.
var ErrNotQuantized = errors.New("displacement is not 45-degree quantizable")

// ErrCellOccupied is returned when a vertex is placed on a grid cell that
// already holds one. Grid cells map to at most one vertex.
var ErrCellOccupied = errors.New("grid cell already occupied")

// Vertex is one game location. World coordinates carry sub-cell jitter
// for organic appearance; grid coordinates identify the cell.
type Vertex struct {
	ID      VertexID
	Address string // assigned once at finalization, empty until then

	X float64 // world meters, west to east
	Y float64 // world meters, north to south

	Col int
	Row int

	Ecosystem         Ecosystem
	OriginalEcosystem Ecosystem // pre-dither band ecosystem, never mutated

	Origin bool // exactly one vertex per world

	Conns []VertexID
}

// Edge is a directed traversal link. The angle is always a multiple of
// 45 degrees and must agree with the grid displacement of its endpoints.
type Edge struct {
	ID       int
	From     VertexID
	To       VertexID
	AngleDeg int
	LengthM  float64
}

// Flow returns the edge's traversal family.
func (e Edge) Flow() Flow {
	switch e.AngleDeg {
	case 0:
		return FlowEastward
	case 180:
		return FlowWestward
	case 90:
		return FlowNorthward
	case 270:
		return FlowSouthward
	default:
		return FlowDiagonal
	}
}

// AngleFromDelta converts a grid displacement into a compass angle in
// degrees. East is 0, angles grow counter-clockwise; row numbers grow
// southward, so negative dRow points north.
func AngleFromDelta(dCol, dRow int) (int, error) {
	if dCol == 0 && dRow == 0 {
		return 0, fmt.Errorf("%w: zero displacement", ErrNotQuantized)
	}
	if dCol != 0 && dRow != 0 && abs(dCol) != abs(dRow) {
		return 0, fmt.Errorf("%w: delta (%d,%d)", ErrNotQuantized, dCol, dRow)
	}
	switch {
	case dCol > 0 && dRow == 0:
		return 0, nil
	case dCol > 0 && dRow < 0:
		return 45, nil
	case dCol == 0 && dRow < 0:
		return 90, nil
	case dCol < 0 && dRow < 0:
		return 135, nil
	case dCol < 0 && dRow == 0:
		return 180, nil
	case dCol < 0 && dRow > 0:
		return 225, nil
	case dCol == 0 && dRow > 0:
		return 270, nil
	default:
		return 315, nil
	}
}

// DirectionName maps a quantized angle to its compass string.
func DirectionName(angleDeg int) string {
	switch ((angleDeg % 360) + 360) % 360 {
	case 0:
		return DirEast
	case 45:
		return DirNortheast
	case 90:
		return DirNorth
	case 135:
		return DirNorthwest
	case 180:
		return DirWest
	case 225:
		return DirSouthwest
	case 270:
		return DirSouth
	default:
		return DirSoutheast
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
