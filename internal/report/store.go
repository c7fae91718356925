// Package report persists run history to a local SQLite database so regressions
// can be traced across runs.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"boardcheck/internal/logging"
	"boardcheck/internal/suite"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS case_results (
	run_id          TEXT NOT NULL REFERENCES runs(id),
	name            TEXT NOT NULL,
	project         TEXT NOT NULL,
	task            TEXT NOT NULL,
	expected_column TEXT NOT NULL,
	got_column      TEXT,
	passed          INTEGER NOT NULL,
	error           TEXT,
	missing_tags    TEXT,
	duration_ms     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_case_results_name ON case_results(name);
CREATE INDEX IF NOT EXISTS idx_case_results_run ON case_results(run_id);
`

// Store records suite runs in SQLite.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// RunSummary is one row of run history.
type RunSummary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Passed    int
	Failed    int
}

// CaseRecord is one historical outcome of a named case.
type CaseRecord struct {
	RunID       string
	StartedAt   time.Time
	Passed      bool
	GotColumn   string
	Error       string
	MissingTags []string
}

// NewStore creates or opens the run history database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	logging.Report("Run history store opened at %s", dbPath)
	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun persists a run and all its case results in one transaction.
func (s *Store) RecordRun(ctx context.Context, result *suite.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, passed, failed) VALUES (?, ?, ?, ?, ?)`,
		result.RunID, result.StartedAt.UnixMilli(), result.Duration.Milliseconds(),
		result.Passed(), result.Failed())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO case_results
		 (run_id, name, project, task, expected_column, got_column, passed, error, missing_tags, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare case insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range result.Cases {
		_, err := stmt.ExecContext(ctx,
			result.RunID, c.Case.Name, c.Case.Project, c.Case.Task, c.Case.Column,
			c.GotColumn, c.Passed, c.Err, strings.Join(c.MissingTags, ","),
			c.Duration.Milliseconds())
		if err != nil {
			return fmt.Errorf("insert case %q: %w", c.Case.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	logging.Report("Recorded run %s (%d cases)", result.RunID, len(result.Cases))
	return nil
}

// LastRuns returns up to n most recent runs, newest first.
func (s *Store) LastRuns(ctx context.Context, n int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, passed, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var startedMs, durMs int64
		if err := rows.Scan(&r.RunID, &startedMs, &durMs, &r.Passed, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedMs)
		r.Duration = time.Duration(durMs) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}

// CaseHistory returns up to n most recent outcomes of the named case,
// newest first.
func (s *Store) CaseHistory(ctx context.Context, name string, n int) ([]CaseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.run_id, r.started_at, c.passed, c.got_column, c.error, c.missing_tags
		 FROM case_results c JOIN runs r ON r.id = c.run_id
		 WHERE c.name = ?
		 ORDER BY r.started_at DESC LIMIT ?`, name, n)
	if err != nil {
		return nil, fmt.Errorf("query case history: %w", err)
	}
	defer rows.Close()

	var out []CaseRecord
	for rows.Next() {
		var rec CaseRecord
		var startedMs int64
		var missing string
		if err := rows.Scan(&rec.RunID, &startedMs, &rec.Passed, &rec.GotColumn, &rec.Error, &missing); err != nil {
			return nil, fmt.Errorf("scan case record: %w", err)
		}
		rec.StartedAt = time.UnixMilli(startedMs)
		if missing != "" {
			rec.MissingTags = strings.Split(missing, ",")
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
