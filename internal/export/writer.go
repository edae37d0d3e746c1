package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/rich-choy/flux-worldkit-sub000/internal/weather"
	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// BuildRecords converts every vertex into its place record. Adjacency
// entries pointing at vertices that no longer exist (the graph may have
// been component-filtered after links were recorded) are skipped with a
// diagnostic, never fatal. Requires finalized addresses and exactly one
// weather snapshot per vertex.
func BuildRecords(g *worldgen.Graph, snaps []weather.Snapshot) ([]PlaceRecord, error) {
	if len(snaps) != g.VertexCount() {
		return nil, fmt.Errorf("weather snapshots: have %d, need %d", len(snaps), g.VertexCount())
	}
	records := make([]PlaceRecord, 0, g.VertexCount())
	skipped := 0

	for i, v := range g.Vertices() {
		if v.Address == "" {
			return nil, fmt.Errorf("%w: vertex %d", ErrNotFinalized, v.ID)
		}

		exits := make(map[string]Exit, len(v.Conns))
		for _, n := range v.Conns {
			nb := g.Vertex(n)
			if nb == nil {
				skipped++
				slog.Warn("skipping dangling connection", "from", v.Address, "to_id", n)
				continue
			}
			angle, err := worldgen.AngleFromDelta(nb.Col-v.Col, nb.Row-v.Row)
			if err != nil {
				skipped++
				slog.Warn("skipping unquantizable connection", "from", v.Address, "to", nb.Address)
				continue
			}
			dir := worldgen.DirectionName(angle)
			if prev, ok := exits[dir]; ok {
				// Two links in the same compass direction: keep the
				// nearer target.
				if prevV := vertexByAddress(g, prev.To); prevV != nil && cellDist(v, prevV) <= cellDist(v, nb) {
					continue
				}
			}
			exits[dir] = Exit{
				Direction: dir,
				Label:     "Path to " + NameFor(nb),
				To:        nb.Address,
			}
		}

		records = append(records, PlaceRecord{
			ID:          v.Address,
			Name:        NameFor(v),
			Description: DescriptionFor(v),
			Exits:       exits,
			Entities:    []string{},
			Ecology:     v.Ecosystem,
			Weather:     snaps[i],
			Coordinates: Coordinates{Col: v.Col, Row: v.Row, X: v.X, Y: v.Y},
		})
	}

	if skipped > 0 {
		slog.Warn("export skipped connections", "count", skipped)
	}
	return records, nil
}

// Write emits the metadata line followed by one place record per line.
// Duplicate addresses or a bad origin count block the write entirely —
// a silently lossy file is worse than no file.
func Write(w io.Writer, res *worldgen.Result, snaps []weather.Snapshot, now time.Time) error {
	g := res.Graph

	seen := make(map[string]bool, g.VertexCount())
	origins := 0
	for _, v := range g.Vertices() {
		if v.Address == "" {
			return fmt.Errorf("%w: vertex %d", ErrNotFinalized, v.ID)
		}
		if seen[v.Address] {
			return fmt.Errorf("%w: %s", ErrDuplicateAddress, v.Address)
		}
		seen[v.Address] = true
		if v.Address == OriginAddress {
			origins++
		}
	}
	if origins != 1 {
		return fmt.Errorf("%w: found %d origin records", ErrOrigin, origins)
	}

	records, err := BuildRecords(g, snaps)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	if err := enc.Encode(NewMeta(res.Config, now)); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write record %s: %w", rec.ID, err)
		}
	}
	return bw.Flush()
}

// WriteFile writes the stream to a file, gzip-compressed when the path
// ends in .gz.
func WriteFile(path string, res *worldgen.Result, snaps []weather.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		zw := gzip.NewWriter(f)
		defer zw.Close()
		w = zw
	}
	if err := Write(w, res, snaps, time.Now()); err != nil {
		return err
	}
	slog.Info("world exported", "path", path, "places", res.Graph.VertexCount())
	return nil
}

func vertexByAddress(g *worldgen.Graph, addr string) *worldgen.Vertex {
	for _, v := range g.Vertices() {
		if v.Address == addr {
			return v
		}
	}
	return nil
}

func cellDist(a, b *worldgen.Vertex) int {
	dc, dr := a.Col-b.Col, a.Row-b.Row
	if dc < 0 {
		dc = -dc
	}
	if dr < 0 {
		dr = -dr
	}
	if dr > dc {
		return dr
	}
	return dc
}
