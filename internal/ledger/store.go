// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records extraction runs in a SQLite database so past runs
// and the files they produced can be listed and exported.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/csv-extractor/pkg/types"
)

// DefaultLimit bounds List when the caller passes a non-positive limit.
const DefaultLimit = 20

// Store manages the run ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			elapsed_ns INTEGER NOT NULL,
			column_name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outputs (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			label TEXT NOT NULL,
			source TEXT NOT NULL,
			path TEXT NOT NULL,
			value_count INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends a finished run and its outputs in one transaction and sets
// summary.ID to the new row ID.
func (s *Store) Record(ctx context.Context, summary *types.RunSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, elapsed_ns, column_name) VALUES (?, ?, ?)`,
		summary.StartedAt.UTC().Format(time.RFC3339Nano), int64(summary.Elapsed), summary.Column,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outputs (run_id, seq, label, source, path, value_count, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range summary.Outputs {
		if _, err := stmt.ExecContext(ctx, id, i, o.Label, o.Source, o.Path, o.Values, o.Skipped); err != nil {
			return fmt.Errorf("inserting output %s: %w", o.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	summary.ID = id
	return nil
}

// List returns up to limit runs, newest first, each with its outputs in run
// order.
func (s *Store) List(ctx context.Context, limit int) ([]types.RunSummary, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, elapsed_ns, column_name FROM runs
		 ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.RunSummary
	for rows.Next() {
		var (
			r         types.RunSummary
			startedAt string
			elapsed   int64
		)
		if err := rows.Scan(&r.ID, &startedAt, &elapsed, &r.Column); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at of run %d: %w", r.ID, err)
		}
		r.Elapsed = time.Duration(elapsed)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		outputs, err := s.outputs(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Outputs = outputs
	}
	return runs, nil
}

func (s *Store) outputs(ctx context.Context, runID int64) ([]types.OutputFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, source, path, value_count, skipped FROM outputs
		 WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outputs of run %d: %w", runID, err)
	}
	defer rows.Close()

	var outputs []types.OutputFile
	for rows.Next() {
		var o types.OutputFile
		if err := rows.Scan(&o.Label, &o.Source, &o.Path, &o.Values, &o.Skipped); err != nil {
			return nil, fmt.Errorf("scanning output: %w", err)
		}
		outputs = append(outputs, o)
	}
	return outputs, rows.Err()
}
