package growth

// delta is a grid step. Row numbers grow southward.
type delta struct {
	dCol, dRow int
}

var (
	stepNorth     = delta{0, -1}
	stepSouth     = delta{0, 1}
	stepEast      = delta{1, 0}
	stepNortheast = delta{1, -1}
	stepSoutheast = delta{1, 1}
)

// flowCandidates is the full candidate set for flow-growth heads.
var flowCandidates = []delta{stepNorth, stepSouth, stepEast, stepNortheast, stepSoutheast}

// flowCandidatesReduced drops the pure vertical moves; used when the
// branching factor is low enough that sideways wandering would dominate.
var flowCandidatesReduced = []delta{stepNortheast, stepEast, stepSoutheast}

// eightNeighbors covers the full 8-connected frontier expansion used by
// the discharge engine.
var eightNeighbors = []delta{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1},
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

// Base preference per candidate step. Strong eastward bias guarantees
// forward progress; vertical moves are rare detours.
func baseWeight(d delta) float64 {
	switch d {
	case stepEast:
		return 3.0
	case stepNortheast, stepSoutheast:
		return 1.2
	default:
		return 0.5
	}
}

// boundaryRows is how close to the top/bottom edge the avoidance penalty
// starts to bite.
const boundaryRows = 3

// directionWeight computes the sampling weight of one candidate step for
// a head at (col,row) on a cols x rows grid. Encodes the eastward
// preference, the boundary-avoidance penalty biased back toward vertical
// center, and the near-east-edge eastward escalation.
func directionWeight(d delta, col, row, cols, rows int) float64 {
	targetRow := row + d.dRow
	targetCol := col + d.dCol
	if targetCol < 0 || targetCol >= cols || targetRow < 0 || targetRow >= rows {
		return 0
	}

	w := baseWeight(d)

	// Shrink sharply within a few rows of the world edge, and push back
	// toward the center line.
	distTop := targetRow
	distBottom := rows - 1 - targetRow
	edgeDist := distTop
	if distBottom < edgeDist {
		edgeDist = distBottom
	}
	if edgeDist < boundaryRows {
		scale := float64(edgeDist+1) / float64(boundaryRows+1)
		w *= scale * scale

		center := rows / 2
		movesToCenter := (targetRow < row && row > center) || (targetRow > row && row < center)
		if d.dRow != 0 && movesToCenter {
			w *= 3
		}
	}

	// Heads sitting next to the east edge must not stall there.
	if d.dCol > 0 && col >= cols-3 {
		w *= 2.5
	}

	return w
}
