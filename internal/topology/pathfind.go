// Package topology provides the graph post-processing passes applied to
// a freshly grown world — square completion, ecosystem dithering, and
// connectivity adjustment — plus the geometric pathfinder they bridge
// cells with. All passes only ever add edges; none deletes.
package topology

// GridPoint is a bare grid coordinate. The pathfinder knows nothing
// about ecosystems or vertices, only cells.
type GridPoint struct {
	Col int
	Row int
}

// Constraints bounds a pathfinding attempt.
type Constraints struct {
	MaxSteps int
	Min      GridPoint // inclusive
	Max      GridPoint // exclusive
	Occupied map[GridPoint]bool
}

// FindPath walks greedily from start toward end: diagonally while both
// axes differ, then along the single differing axis. The returned path
// excludes start and ends at end. An empty path means start == end or
// the walk hit an occupied/out-of-bounds cell or the step limit —
// callers bridging distinct cells must treat empty as failure, not as
// "already there".
func FindPath(start, end GridPoint, c Constraints) []GridPoint {
	if start == end {
		return nil
	}

	var path []GridPoint
	cur := start
	for steps := 0; steps < c.MaxSteps; steps++ {
		next := cur
		switch {
		case next.Col < end.Col:
			next.Col++
		case next.Col > end.Col:
			next.Col--
		}
		switch {
		case next.Row < end.Row:
			next.Row++
		case next.Row > end.Row:
			next.Row--
		}

		if next.Col < c.Min.Col || next.Col >= c.Max.Col ||
			next.Row < c.Min.Row || next.Row >= c.Max.Row {
			return nil
		}
		if c.Occupied[next] {
			return nil
		}

		path = append(path, next)
		if next == end {
			return path
		}
		cur = next
	}
	return nil
}
