// Package persistence keeps a SQLite ledger of generation runs: the seed,
// profile and outcome of each run plus its terrain distribution.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexmap/internal/mapgen"
	"github.com/talgya/hexmap/internal/world"
)

// DB wraps a SQLite connection for the run ledger.
type DB struct {
	conn *sqlx.DB
}

// Run is one recorded generation run.
type Run struct {
	ID             string `db:"id" json:"id"`
	Seed           int64  `db:"seed" json:"seed"`
	Width          int    `db:"width" json:"width"`
	Height         int    `db:"height" json:"height"`
	ConfigYAML     string `db:"config_yaml" json:"config_yaml"`
	LandCells      int    `db:"land_cells" json:"land_cells"`
	LandShortfall  int    `db:"land_shortfall" json:"land_shortfall"`
	RiverCells     int    `db:"river_cells" json:"river_cells"`
	RiverShortfall int    `db:"river_shortfall" json:"river_shortfall"`
	CreatedUnix    int64  `db:"created_at" json:"created_at"`
}

// Created returns the run's creation time.
func (r Run) Created() time.Time { return time.Unix(r.CreatedUnix, 0) }

// TerrainCount is the number of cells of one terrain in a run.
type TerrainCount struct {
	Terrain    string `db:"terrain" json:"terrain"`
	Underwater bool   `db:"underwater" json:"underwater"`
	Count      int    `db:"count" json:"count"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
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
	CREATE TABLE IF NOT EXISTS generation_runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		config_yaml TEXT NOT NULL,
		land_cells INTEGER NOT NULL,
		land_shortfall INTEGER NOT NULL,
		river_cells INTEGER NOT NULL,
		river_shortfall INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS terrain_counts (
		run_id TEXT NOT NULL REFERENCES generation_runs(id),
		terrain TEXT NOT NULL,
		underwater INTEGER NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, terrain, underwater)
	);

	CREATE TABLE IF NOT EXISTS ledger_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON generation_runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_seed ON generation_runs(seed);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun records a finished run and the terrain distribution of grid.
func (db *DB) SaveRun(report mapgen.Report, cfg mapgen.Config, grid *world.Grid) (Run, error) {
	profile, err := yaml.Marshal(cfg)
	if err != nil {
		return Run{}, fmt.Errorf("encode profile: %w", err)
	}

	run := Run{
		ID:             uuid.NewString(),
		Seed:           report.Seed,
		Width:          report.Width,
		Height:         report.Height,
		ConfigYAML:     string(profile),
		LandCells:      report.LandCells,
		LandShortfall:  report.LandShortfall,
		RiverCells:     report.RiverCells,
		RiverShortfall: report.RiverShortfall,
		CreatedUnix:    time.Now().Unix(),
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO generation_runs
		(id, seed, width, height, config_yaml, land_cells, land_shortfall,
		 river_cells, river_shortfall, created_at)
		VALUES (:id, :seed, :width, :height, :config_yaml, :land_cells, :land_shortfall,
		 :river_cells, :river_shortfall, :created_at)`, run)
	if err != nil {
		return Run{}, fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.Preparex(`INSERT INTO terrain_counts
		(run_id, terrain, underwater, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return Run{}, err
	}
	defer stmt.Close()

	land, underwater := world.TerrainCounts(grid)
	for _, t := range world.TerrainTypes {
		for _, row := range []struct {
			counts map[world.Terrain]int
			wet    int
		}{{land, 0}, {underwater, 1}} {
			n := row.counts[t]
			if n == 0 {
				continue
			}
			if _, err := stmt.Exec(run.ID, t.String(), row.wet, n); err != nil {
				return Run{}, fmt.Errorf("insert terrain count %s: %w", t, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, err
	}

	slog.Info("generation run recorded", "run", run.ID, "seed", run.Seed)
	return run, nil
}

// RecentRuns returns the most recent runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT * FROM generation_runs ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// GetRun returns the run with the given ID.
func (db *DB) GetRun(id string) (Run, error) {
	var run Run
	err := db.conn.Get(&run, "SELECT * FROM generation_runs WHERE id = ?", id)
	return run, err
}

// TerrainCounts returns the recorded terrain distribution of a run, land
// before underwater, in terrain order.
func (db *DB) TerrainCounts(runID string) ([]TerrainCount, error) {
	var rows []TerrainCount
	err := db.conn.Select(&rows, `SELECT terrain, underwater, count FROM terrain_counts
		WHERE run_id = ? ORDER BY underwater, rowid`, runID)
	return rows, err
}

// SaveMeta stores a key-value pair in ledger metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO ledger_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM ledger_meta WHERE key = ?", key)
	return value, err
}
