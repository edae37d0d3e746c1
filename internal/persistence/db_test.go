package persistence_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rich-choy/flux-worldkit-sub000/internal/export"
	"github.com/rich-choy/flux-worldkit-sub000/internal/persistence"
	"github.com/rich-choy/flux-worldkit-sub000/internal/pipeline"
	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

func TestArchiveRoundTrip(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "worlds.db"))
	require.NoError(t, err)
	defer db.Close()

	cfg := worldgen.SmallTestConfig()
	res, _, err := pipeline.Generate(cfg)
	require.NoError(t, err)

	require.NoError(t, db.SaveWorld(res))

	fp := export.Fingerprint(cfg)
	g, loadedCfg, err := db.LoadWorld(fp)
	require.NoError(t, err)
	require.Equal(t, cfg.Seed, loadedCfg.Seed)
	require.Equal(t, res.Graph.VertexCount(), g.VertexCount())
	require.Equal(t, res.Graph.EdgeCount(), g.EdgeCount())

	want := make(map[string]bool)
	for _, v := range res.Graph.Vertices() {
		want[v.Address] = true
	}
	for _, v := range g.Vertices() {
		require.True(t, want[v.Address], "unexpected address %s", v.Address)
	}
	require.NotNil(t, g.OriginVertex())

	rows, err := db.ListWorlds()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, fp, rows[0].Fingerprint)
}

func TestSaveIsFullReplace(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "worlds.db"))
	require.NoError(t, err)
	defer db.Close()

	cfg := worldgen.SmallTestConfig()
	res, _, err := pipeline.Generate(cfg)
	require.NoError(t, err)

	require.NoError(t, db.SaveWorld(res))
	require.NoError(t, db.SaveWorld(res), "re-archiving the same world replaces, not duplicates")

	rows, err := db.ListWorlds()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
