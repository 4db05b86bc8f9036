// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists extraction runs and their signals in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/vrss/pkg/types"
)

const defaultDBFile = "vrss.db"

// Store manages the run database.
type Store struct {
	db   *sql.DB
	path string
}

// Run describes one extraction pass.
type Run struct {
	ID           int64     `json:"id" yaml:"id"`
	Source       string    `json:"source" yaml:"source"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	Records      int       `json:"records" yaml:"records"`
	Matched      int       `json:"matched" yaml:"matched"`
	LateralWidth float64   `json:"lateral_width" yaml:"lateral_width"`
}

// NewStore opens or creates the run database at cfg.DBPath and creates the
// schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = defaultDBFile
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL,
			records INTEGER NOT NULL,
			matched INTEGER NOT NULL,
			lateral_width REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS signals (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			record INTEGER NOT NULL,
			pov INTEGER NOT NULL,
			x_b TEXT NOT NULL,
			y_b TEXT NOT NULL,
			v_b TEXT NOT NULL,
			a_b TEXT NOT NULL,
			x_f TEXT NOT NULL,
			y_f TEXT NOT NULL,
			v_f TEXT NOT NULL,
			a_f TEXT NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_run_id ON signals(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun records a run and its signals in one transaction and returns the
// new run ID. CreatedAt defaults to the current time.
func (s *Store) SaveRun(ctx context.Context, run Run, signals []types.Signal) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, created_at, records, matched, lateral_width)
		 VALUES (?, ?, ?, ?, ?)`,
		run.Source, run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Records, run.Matched, run.LateralWidth,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO signals (run_id, seq, record, pov, x_b, y_b, v_b, a_b, x_f, y_f, v_f, a_f)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for seq, sig := range signals {
		args := []any{runID, seq, sig.Record, sig.Pov}
		for _, n := range sig.Fields() {
			args = append(args, n.String())
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("inserting signal %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// DeleteRun removes a run and its signals.
func (s *Store) DeleteRun(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %d not found", id)
	}
	return nil
}
