package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/quantmind-br/brewpkg/internal/core"
	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// DB is the converge run journal with separate read/write pools
type DB struct {
	write *sql.DB
	read  *sql.DB
	path  string
}

// New creates a new database instance with separate read/write pools
func New(ctx context.Context, dbPath string) (*DB, error) {
	// Connection string with pragmas
	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)

	// Write pool: MUST be 1 connection only
	write, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open write connection: %w", err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)
	write.SetConnMaxIdleTime(time.Minute)
	write.SetConnMaxLifetime(time.Hour)

	read, err := sql.Open("sqlite", connStr)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("open read connection: %w", err)
	}
	read.SetMaxOpenConns(4)
	read.SetMaxIdleConns(2)
	read.SetConnMaxIdleTime(time.Minute)
	read.SetConnMaxLifetime(time.Hour)

	db := &DB{
		write: write,
		read:  read,
		path:  dbPath,
	}

	if err := db.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Close closes both database connections
func (db *DB) Close() error {
	writeErr := db.write.Close()
	readErr := db.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

// initSchema creates the schema if it doesn't exist
func (db *DB) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    provider TEXT NOT NULL,
    action TEXT NOT NULL,
    package TEXT NOT NULL,
    version TEXT,
    before_state TEXT,
    after_state TEXT,
    outcome TEXT NOT NULL,
    error TEXT,
    started_at DATETIME NOT NULL,
    duration_ms INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_package ON runs(package);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    description TEXT
);
	`

	if _, err := db.write.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	_, err := db.write.ExecContext(ctx,
		"INSERT OR IGNORE INTO schema_migrations (version, description) VALUES (?, ?)",
		schemaVersion, "initial runs journal")
	if err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return nil
}

// Create appends a run record
func (db *DB) Create(ctx context.Context, run *core.RunRecord) error {
	query := `
INSERT INTO runs (run_id, provider, action, package, version, before_state, after_state, outcome, error, started_at, duration_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.write.ExecContext(ctx, query,
		run.RunID,
		run.Provider,
		string(run.Action),
		run.Package,
		run.Version,
		run.Before,
		run.After,
		string(run.Outcome),
		run.Error,
		run.StartedAt.UTC(),
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

const selectRuns = `
SELECT run_id, provider, action, package, version, before_state, after_state, outcome, error, started_at, duration_ms
FROM runs`

// Get retrieves a run record by ID
func (db *DB) Get(ctx context.Context, runID string) (*core.RunRecord, error) {
	row := db.read.QueryRowContext(ctx, selectRuns+" WHERE run_id = ?", runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	return run, nil
}

// List retrieves the newest runs first. A non-positive limit returns all runs.
// A non-empty pkg restricts the result to that package.
func (db *DB) List(ctx context.Context, pkg string, limit int) ([]core.RunRecord, error) {
	query := selectRuns
	var args []any
	if pkg != "" {
		query += " WHERE package = ?"
		args = append(args, pkg)
	}
	query += " ORDER BY started_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.read.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []core.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return runs, nil
}

// Prune deletes runs started before cutoff and returns how many were removed
func (db *DB) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := db.write.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*core.RunRecord, error) {
	var (
		run             core.RunRecord
		action, outcome string
		version, before sql.NullString
		after, errMsg   sql.NullString
		durationMs      int64
	)

	err := s.Scan(
		&run.RunID,
		&run.Provider,
		&action,
		&run.Package,
		&version,
		&before,
		&after,
		&outcome,
		&errMsg,
		&run.StartedAt,
		&durationMs,
	)
	if err != nil {
		return nil, err
	}

	run.Action = core.Action(action)
	run.Outcome = core.Outcome(outcome)
	run.Version = version.String
	run.Before = before.String
	run.After = after.String
	run.Error = errMsg.String
	run.Duration = time.Duration(durationMs) * time.Millisecond
	return &run, nil
}
