// Package storage provides SQLite-based persistence for scatter run
// summaries and their removal events.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// RunRecord represents one persisted simulation run.
type RunRecord struct {
	ID              int64
	RunID           string
	Seed            int64
	InitialShapes   int
	RemainingShapes int
	Iterations      int
	Duration        time.Duration
	CreatedAt       time.Time
	Removals        []RemovalRecord // Only filled on save; use RunRemovals to read
}

// RemovalRecord represents one shape culled during a run.
type RemovalRecord struct {
	Iteration int
	Survivor  string
	Removed   string
}

// Stats contains aggregated statistics over all stored runs.
type Stats struct {
	Runs           int
	TotalRemovals  int
	AvgIterations  float64
	AvgRemaining   float64
	LongestRunTime time.Duration
	LastRun        time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			seed INTEGER NOT NULL,
			initial_shapes INTEGER NOT NULL,
			remaining_shapes INTEGER NOT NULL,
			iterations INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS removals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
			iteration INTEGER NOT NULL,
			survivor TEXT NOT NULL,
			removed TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_removals_run_id ON removals(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a run and all of its removals in one transaction.
// Returns the ID of the inserted run row.
func (s *Store) SaveRun(run RunRecord) (id int64, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			//nolint:errcheck // The insert error is more useful than a rollback failure
			tx.Rollback()
		}
	}()

	res, err := tx.Exec(
		`INSERT INTO runs
		 (run_id, seed, initial_shapes, remaining_shapes, iterations, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.Seed,
		run.InitialShapes,
		run.RemainingShapes,
		run.Iterations,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	if len(run.Removals) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO removals (run_id, iteration, survivor, removed) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot prepare removal insert: %w", err)
		}
		defer stmt.Close()

		for _, rm := range run.Removals {
			if _, err := stmt.Exec(run.RunID, rm.Iteration, rm.Survivor, rm.Removed); err != nil {
				return 0, fmt.Errorf("storage: cannot save removal: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

const runColumns = `id, run_id, seed, initial_shapes, remaining_shapes, iterations, duration_ms, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var r RunRecord
	var durationMs int64
	var createdAt any
	if err := row.Scan(&r.ID, &r.RunID, &r.Seed, &r.InitialShapes, &r.RemainingShapes,
		&r.Iterations, &durationMs, &createdAt); err != nil {
		return r, err
	}
	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunByID retrieves a run by its run ID. Returns nil if it does not exist.
func (s *Store) RunByID(runID string) (*RunRecord, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// RunRemovals retrieves the removals of a run in the order they happened.
func (s *Store) RunRemovals(runID string) ([]RemovalRecord, error) {
	rows, err := s.db.Query(
		`SELECT iteration, survivor, removed
		 FROM removals
		 WHERE run_id = ?
		 ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query removals: %w", err)
	}
	defer rows.Close()

	var removals []RemovalRecord
	for rows.Next() {
		var rm RemovalRecord
		if err := rows.Scan(&rm.Iteration, &rm.Survivor, &rm.Removed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		removals = append(removals, rm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return removals, nil
}

// Stats retrieves aggregated statistics over all stored runs.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	var longestMs int64

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(AVG(iterations), 0), COALESCE(AVG(remaining_shapes), 0), COALESCE(MAX(duration_ms), 0)
		 FROM runs`,
	).Scan(&stats.Runs, &stats.AvgIterations, &stats.AvgRemaining, &longestMs)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	stats.LongestRunTime = time.Duration(longestMs) * time.Millisecond

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM removals`).Scan(&stats.TotalRemovals); err != nil {
		return nil, fmt.Errorf("storage: cannot count removals: %w", err)
	}

	var lastRun any
	err = s.db.QueryRow(`SELECT created_at FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&lastRun)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last run: %w", err)
	}
	if err == nil {
		stats.LastRun = parseTime(lastRun)
	}

	return stats, nil
}
