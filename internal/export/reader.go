package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// Import is a world reconstructed from an export stream.
type Import struct {
	Meta    Meta
	Records []PlaceRecord
	Graph   *worldgen.Graph
}

// Read parses and validates an export stream, reconstructing an
// equivalent graph: vertices from records, edges from exit references.
// Shape problems, duplicate addresses, unresolvable exits, or a bad
// origin are unrecoverable and identify the offending record.
func Read(r io.Reader) (*Import, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !sc.Scan() {
		return nil, fmt.Errorf("%w: empty stream", ErrBadRecord)
	}
	var meta Meta
	if err := json.Unmarshal(sc.Bytes(), &meta); err != nil {
		return nil, fmt.Errorf("%w: metadata line: %v", ErrBadRecord, err)
	}
	if meta.Version == "" {
		return nil, fmt.Errorf("%w: metadata missing version", ErrBadRecord)
	}
	if meta.Config.WidthKm <= 0 || meta.Config.HeightKm <= 0 {
		return nil, fmt.Errorf("%w: metadata missing config", ErrBadRecord)
	}

	imp := &Import{Meta: meta, Graph: worldgen.NewGraph()}
	byAddress := make(map[string]worldgen.VertexID)
	line := 1

	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}

		var shape any
		if err := json.Unmarshal(raw, &shape); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadRecord, line, err)
		}
		if err := compiledPlaceSchema.Validate(shape); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadRecord, line, err)
		}

		var rec PlaceRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadRecord, line, err)
		}
		if err := checkAddressing(rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if _, dup := byAddress[rec.ID]; dup {
			return nil, fmt.Errorf("%w: %s at line %d", ErrDuplicateAddress, rec.ID, line)
		}

		id, err := imp.Graph.AddVertex(worldgen.Vertex{
			X: rec.Coordinates.X, Y: rec.Coordinates.Y,
			Col: rec.Coordinates.Col, Row: rec.Coordinates.Row,
			Ecosystem:         rec.Ecology,
			OriginalEcosystem: rec.Ecology,
			Origin:            rec.ID == OriginAddress,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDuplicateAddress, line, err)
		}
		imp.Graph.Vertex(id).Address = rec.ID
		byAddress[rec.ID] = id
		imp.Records = append(imp.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}

	if len(imp.Records) == 0 {
		return nil, fmt.Errorf("%w: stream has no place records", ErrBadRecord)
	}
	if _, hasOrigin := byAddress[OriginAddress]; !hasOrigin {
		return nil, fmt.Errorf("%w: no origin record", ErrOrigin)
	}

	// Edges from exit references; every endpoint must resolve.
	for _, rec := range imp.Records {
		from := byAddress[rec.ID]
		for _, exit := range rec.Exits {
			to, ok := byAddress[exit.To]
			if !ok {
				return nil, fmt.Errorf("%w: %s exits to unknown %s", ErrBadRecord, rec.ID, exit.To)
			}
			if _, err := imp.Graph.AddEdge(from, to); err != nil {
				return nil, fmt.Errorf("%w: %s -> %s: %v", ErrBadRecord, rec.ID, exit.To, err)
			}
		}
	}
	if imp.Graph.EdgeCount() == 0 {
		return nil, fmt.Errorf("%w: stream has no edges", ErrBadRecord)
	}

	return imp, nil
}

// checkAddressing verifies that a record's address agrees with its
// ecology and coordinates; a stale address is the export layer's
// cardinal sin.
func checkAddressing(rec PlaceRecord) error {
	eco, col, row, origin, err := ParseAddress(rec.ID)
	if err != nil {
		return err
	}
	if origin {
		return nil
	}
	if eco != rec.Ecology {
		return fmt.Errorf("%w: %s carries ecology %q", ErrBadRecord, rec.ID, rec.Ecology)
	}
	if col != rec.Coordinates.Col || row != rec.Coordinates.Row {
		return fmt.Errorf("%w: %s at coordinates (%d,%d)", ErrBadRecord, rec.ID, rec.Coordinates.Col, rec.Coordinates.Row)
	}
	return nil
}

// ReadFile reads an export file, transparently decompressing .gz paths.
func ReadFile(path string) (*Import, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	return Read(r)
}
