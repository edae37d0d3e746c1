// Package persistence provides a SQLite archive of generated worlds, so
// a server can re-load a world without re-running generation.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/rich-choy/flux-worldkit-sub000/internal/export"
	"github.com/rich-choy/flux-worldkit-sub000/internal/worldgen"
)

// DB wraps a SQLite connection for the world archive.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the archive at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS worlds (
		fingerprint TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		vertex_count INTEGER NOT NULL,
		edge_count INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS places (
		world TEXT NOT NULL REFERENCES worlds(fingerprint),
		address TEXT NOT NULL,
		ecology TEXT NOT NULL,
		col INTEGER NOT NULL,
		row INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		origin INTEGER NOT NULL,
		PRIMARY KEY (world, address)
	);

	CREATE TABLE IF NOT EXISTS links (
		world TEXT NOT NULL REFERENCES worlds(fingerprint),
		from_addr TEXT NOT NULL,
		to_addr TEXT NOT NULL,
		angle INTEGER NOT NULL,
		length_m REAL NOT NULL,
		PRIMARY KEY (world, from_addr, to_addr)
	);

	CREATE INDEX IF NOT EXISTS idx_places_world ON places(world);
	CREATE INDEX IF NOT EXISTS idx_links_world ON links(world);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// WorldRow is one archive entry summary.
type WorldRow struct {
	Fingerprint string `db:"fingerprint"`
	Seed        int64  `db:"seed"`
	ConfigJSON  string `db:"config_json"`
	VertexCount int    `db:"vertex_count"`
	EdgeCount   int    `db:"edge_count"`
	CreatedAt   string `db:"created_at"`
}

// SaveWorld archives a generation result (full replace per fingerprint).
// Addresses must already be finalized.
func (db *DB) SaveWorld(res *worldgen.Result) error {
	fp := export.Fingerprint(res.Config)
	cfgJSON, err := json.Marshal(res.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM links WHERE world = ?",
		"DELETE FROM places WHERE world = ?",
		"DELETE FROM worlds WHERE fingerprint = ?",
	} {
		if _, err := tx.Exec(stmt, fp); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO worlds (fingerprint, seed, config_json, vertex_count, edge_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fp, res.Config.Seed, string(cfgJSON),
		res.Graph.VertexCount(), res.Graph.EdgeCount(),
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert world: %w", err)
	}

	placeStmt, err := tx.Preparex(
		`INSERT INTO places (world, address, ecology, col, row, x, y, origin)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer placeStmt.Close()

	for _, v := range res.Graph.Vertices() {
		if v.Address == "" {
			return fmt.Errorf("vertex %d has no address; finalize before archiving", v.ID)
		}
		origin := 0
		if v.Origin {
			origin = 1
		}
		if _, err := placeStmt.Exec(fp, v.Address, string(v.Ecosystem), v.Col, v.Row, v.X, v.Y, origin); err != nil {
			return fmt.Errorf("insert place %s: %w", v.Address, err)
		}
	}

	linkStmt, err := tx.Preparex(
		`INSERT INTO links (world, from_addr, to_addr, angle, length_m)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer linkStmt.Close()

	for _, e := range res.Graph.Edges() {
		from := res.Graph.Vertex(e.From)
		to := res.Graph.Vertex(e.To)
		if _, err := linkStmt.Exec(fp, from.Address, to.Address, e.AngleDeg, e.LengthM); err != nil {
			return fmt.Errorf("insert link %s -> %s: %w", from.Address, to.Address, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("world archived", "fingerprint", fp,
		"places", res.Graph.VertexCount(), "links", res.Graph.EdgeCount())
	return nil
}

// LoadWorld reconstructs an archived graph by fingerprint.
func (db *DB) LoadWorld(fingerprint string) (*worldgen.Graph, worldgen.Config, error) {
	var world WorldRow
	if err := db.conn.Get(&world, "SELECT * FROM worlds WHERE fingerprint = ?", fingerprint); err != nil {
		return nil, worldgen.Config{}, fmt.Errorf("load world %s: %w", fingerprint, err)
	}
	var cfg worldgen.Config
	if err := json.Unmarshal([]byte(world.ConfigJSON), &cfg); err != nil {
		return nil, worldgen.Config{}, fmt.Errorf("parse archived config: %w", err)
	}

	type placeRow struct {
		Address string  `db:"address"`
		Ecology string  `db:"ecology"`
		Col     int     `db:"col"`
		Row     int     `db:"row"`
		X       float64 `db:"x"`
		Y       float64 `db:"y"`
		Origin  int     `db:"origin"`
	}
	var places []placeRow
	if err := db.conn.Select(&places,
		"SELECT address, ecology, col, row, x, y, origin FROM places WHERE world = ? ORDER BY address",
		fingerprint); err != nil {
		return nil, cfg, fmt.Errorf("load places: %w", err)
	}

	g := worldgen.NewGraph()
	byAddress := make(map[string]worldgen.VertexID, len(places))
	for _, p := range places {
		id, err := g.AddVertex(worldgen.Vertex{
			X: p.X, Y: p.Y, Col: p.Col, Row: p.Row,
			Ecosystem:         worldgen.Ecosystem(p.Ecology),
			OriginalEcosystem: worldgen.Ecosystem(p.Ecology),
			Origin:            p.Origin == 1,
		})
		if err != nil {
			return nil, cfg, fmt.Errorf("restore place %s: %w", p.Address, err)
		}
		g.Vertex(id).Address = p.Address
		byAddress[p.Address] = id
	}

	type linkRow struct {
		From string `db:"from_addr"`
		To   string `db:"to_addr"`
	}
	var links []linkRow
	if err := db.conn.Select(&links,
		"SELECT from_addr, to_addr FROM links WHERE world = ? ORDER BY from_addr, to_addr",
		fingerprint); err != nil {
		return nil, cfg, fmt.Errorf("load links: %w", err)
	}
	for _, l := range links {
		from, okF := byAddress[l.From]
		to, okT := byAddress[l.To]
		if !okF || !okT {
			// The archive may predate a component filter; skip, don't fail.
			slog.Warn("skipping archived link with missing endpoint", "from", l.From, "to", l.To)
			continue
		}
		if _, err := g.AddEdge(from, to); err != nil {
			return nil, cfg, fmt.Errorf("restore link %s -> %s: %w", l.From, l.To, err)
		}
	}

	return g, cfg, nil
}

// ListWorlds returns archive summaries, newest first.
func (db *DB) ListWorlds() ([]WorldRow, error) {
	var rows []WorldRow
	err := db.conn.Select(&rows, "SELECT * FROM worlds ORDER BY created_at DESC")
	return rows, err
}
