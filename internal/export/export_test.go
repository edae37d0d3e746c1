package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rich-choy/flux-worldkit-sub000/internal/export"
	"github.com/rich-choy/flux-worldkit-sub000/internal/weather"
	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// smallWorld builds a four-place world by hand: origin - grassland pair
// - one marsh terminus.
func smallWorld(t *testing.T) *worldgen.Result {
	t.Helper()
	g := worldgen.NewGraph()
	cfg := worldgen.DefaultConfig()

	add := func(col, row int, eco worldgen.Ecosystem, origin bool) worldgen.VertexID {
		id, err := g.AddVertex(worldgen.Vertex{
			Col: col, Row: row,
			X: cfg.CellX(col), Y: cfg.CellY(row),
			Ecosystem: eco, OriginalEcosystem: eco,
			Origin: origin,
		})
		require.NoError(t, err)
		return id
	}

	a := add(0, 9, worldgen.EcoSteppe, true)
	b := add(1, 9, worldgen.EcoGrassland, false)
	c := add(2, 8, worldgen.EcoGrassland, false)
	d := add(3, 8, worldgen.EcoMarsh, false)

	for _, pair := range [][2]worldgen.VertexID{{a, b}, {b, c}, {c, d}} {
		_, err := g.AddEdge(pair[0], pair[1])
		require.NoError(t, err)
	}

	return &worldgen.Result{Graph: g, Config: cfg, Origin: a}
}

func snapsFor(g *worldgen.Graph) []weather.Snapshot {
	snaps := make([]weather.Snapshot, g.VertexCount())
	for i := range snaps {
		snaps[i] = weather.Snapshot{TempC: 20, PressureHPa: 1013, Humidity: 50}
	}
	return snaps
}

func TestFinalizeAddresses(t *testing.T) {
	res := smallWorld(t)
	require.NoError(t, export.FinalizeAddresses(res.Graph))

	origin := res.Graph.OriginVertex()
	require.Equal(t, export.OriginAddress, origin.Address)
	require.Equal(t, "flux:place:grassland:1:9", res.Graph.Vertex(1).Address)

	// Second finalization is refused: addresses are immutable.
	require.Error(t, export.FinalizeAddresses(res.Graph))
}

func TestFinalizeRejectsMissingOrigin(t *testing.T) {
	res := smallWorld(t)
	res.Graph.OriginVertex().Origin = false
	err := export.FinalizeAddresses(res.Graph)
	require.ErrorIs(t, err, export.ErrOrigin)
}

func TestFinalizeRejectsDuplicateOrigin(t *testing.T) {
	res := smallWorld(t)
	res.Graph.Vertex(2).Origin = true
	err := export.FinalizeAddresses(res.Graph)
	require.ErrorIs(t, err, export.ErrOrigin)
}

func TestWriteRefusesDuplicateAddress(t *testing.T) {
	res := smallWorld(t)
	require.NoError(t, export.FinalizeAddresses(res.Graph))

	// Forge a collision after finalization.
	res.Graph.Vertex(2).Address = res.Graph.Vertex(1).Address

	var buf bytes.Buffer
	err := export.Write(&buf, res, snapsFor(res.Graph), time.Now())
	require.ErrorIs(t, err, export.ErrDuplicateAddress)
	require.Zero(t, buf.Len(), "nothing may be emitted on refusal")
}

func TestWriteRequiresFinalization(t *testing.T) {
	res := smallWorld(t)
	var buf bytes.Buffer
	err := export.Write(&buf, res, snapsFor(res.Graph), time.Now())
	require.ErrorIs(t, err, export.ErrNotFinalized)
}

func TestBuildRecordsRequiresMatchingWeather(t *testing.T) {
	res := smallWorld(t)
	require.NoError(t, export.FinalizeAddresses(res.Graph))

	_, err := export.BuildRecords(res.Graph, nil)
	require.Error(t, err, "a snapshot per vertex is the caller's contract")

	short := snapsFor(res.Graph)[:1]
	_, err = export.BuildRecords(res.Graph, short)
	require.Error(t, err)

	recs, err := export.BuildRecords(res.Graph, snapsFor(res.Graph))
	require.NoError(t, err)
	require.Len(t, recs, res.Graph.VertexCount())
}

func TestStreamShape(t *testing.T) {
	res := smallWorld(t)
	require.NoError(t, export.FinalizeAddresses(res.Graph))

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, res, snapsFor(res.Graph), time.Unix(0, 0)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5, "one metadata line plus four records")
	require.Contains(t, lines[0], `"version":"1"`)
	require.Contains(t, lines[0], `"fingerprint"`)
	require.Contains(t, lines[1], export.OriginAddress)
}

func TestRoundTrip(t *testing.T) {
	res := smallWorld(t)
	require.NoError(t, export.FinalizeAddresses(res.Graph))

	var first bytes.Buffer
	require.NoError(t, export.Write(&first, res, snapsFor(res.Graph), time.Unix(0, 0)))

	imp, err := export.Read(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	require.Equal(t, res.Graph.VertexCount(), imp.Graph.VertexCount())
	require.Equal(t, res.Graph.EdgeCount(), imp.Graph.EdgeCount())

	// Re-export of the reconstructed graph preserves address and exit
	// sets exactly.
	reRes := &worldgen.Result{Graph: imp.Graph, Config: imp.Meta.Config}
	var second bytes.Buffer
	require.NoError(t, export.Write(&second, reRes, snapsFor(imp.Graph), time.Unix(0, 0)))

	require.Equal(t, addressAndExitSet(t, first.String()), addressAndExitSet(t, second.String()))
}

func addressAndExitSet(t *testing.T, stream string) map[string]bool {
	t.Helper()
	imp, err := export.Read(strings.NewReader(stream))
	require.NoError(t, err)
	set := make(map[string]bool)
	for _, rec := range imp.Records {
		set[rec.ID] = true
		for _, exit := range rec.Exits {
			set[rec.ID+" "+exit.Direction+" "+exit.To] = true
		}
	}
	return set
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := export.Read(strings.NewReader(""))
	require.ErrorIs(t, err, export.ErrBadRecord)

	_, err = export.Read(strings.NewReader("not json\n"))
	require.ErrorIs(t, err, export.ErrBadRecord)
}

func TestReadRejectsMissingConfig(t *testing.T) {
	_, err := export.Read(strings.NewReader(`{"version":"1"}` + "\n"))
	require.ErrorIs(t, err, export.ErrBadRecord)
}

func TestReadRejectsStaleAddress(t *testing.T) {
	res := smallWorld(t)
	require.NoError(t, export.FinalizeAddresses(res.Graph))
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, res, snapsFor(res.Graph), time.Unix(0, 0)))

	// An address whose ecology no longer matches the record body.
	tampered := strings.Replace(buf.String(), `"ecology":"marsh"`, `"ecology":"jungle"`, 1)
	_, err := export.Read(strings.NewReader(tampered))
	require.ErrorIs(t, err, export.ErrBadRecord)
}

func TestReadRejectsUnresolvableExit(t *testing.T) {
	res := smallWorld(t)
	require.NoError(t, export.FinalizeAddresses(res.Graph))
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, res, snapsFor(res.Graph), time.Unix(0, 0)))

	tampered := strings.Replace(buf.String(),
		`"to":"flux:place:marsh:3:8"`, `"to":"flux:place:marsh:30:8"`, 1)
	_, err := export.Read(strings.NewReader(tampered))
	require.ErrorIs(t, err, export.ErrBadRecord)
}

func TestParseAddress(t *testing.T) {
	eco, col, row, origin, err := export.ParseAddress("flux:place:jungle:12:4")
	require.NoError(t, err)
	require.False(t, origin)
	require.Equal(t, worldgen.EcoJungle, eco)
	require.Equal(t, 12, col)
	require.Equal(t, 4, row)

	_, _, _, origin, err = export.ParseAddress(export.OriginAddress)
	require.NoError(t, err)
	require.True(t, origin)

	_, _, _, _, err = export.ParseAddress("flux:place:lava:1:1")
	require.ErrorIs(t, err, export.ErrBadRecord)
	_, _, _, _, err = export.ParseAddress("urn:not:flux")
	require.ErrorIs(t, err, export.ErrBadRecord)
}

func TestFingerprintStability(t *testing.T) {
	cfg := worldgen.DefaultConfig()
	require.Equal(t, export.Fingerprint(cfg), export.Fingerprint(cfg))

	other := cfg
	other.Seed++
	require.NotEqual(t, export.Fingerprint(cfg), export.Fingerprint(other))
}
