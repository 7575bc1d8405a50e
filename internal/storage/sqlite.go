// Package storage provides SQLite-based persistence for detection runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/collide/internal/sim"
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one stored scenario run.
type Run struct {
	ID         int64
	RunID      string // uuid assigned on save
	ScenarioID string
	Strategy   string
	Frames     int
	Iterations int
	Overlaps   int
	HintHits   int
	MaxDepth   float64
	Duration   time.Duration
	Passed     bool
	Mismatch   string // empty when Passed
	CreatedAt  time.Time
}

// PerDetection returns the mean time of one detection.
func (r Run) PerDetection() time.Duration {
	n := r.Frames * r.Iterations
	if n == 0 {
		return 0
	}
	return r.Duration / time.Duration(n)
}

// FromReport converts a simulation report into a run ready to save.
func FromReport(rep sim.Report) Run {
	r := Run{
		ScenarioID: rep.Scenario,
		Strategy:   rep.Strategy,
		Frames:     rep.Frames,
		Iterations: rep.Iterations,
		Overlaps:   rep.Overlaps,
		HintHits:   rep.HintHits,
		MaxDepth:   rep.MaxDepth,
		Duration:   rep.Duration,
		Passed:     rep.Passed(),
	}
	if rep.Mismatch != nil {
		r.Mismatch = rep.Mismatch.Error()
	}
	return r
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
			scenario_id TEXT NOT NULL,
			strategy TEXT NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			iterations INTEGER NOT NULL DEFAULT 1,
			overlaps INTEGER NOT NULL DEFAULT 0,
			hint_hits INTEGER NOT NULL DEFAULT 0,
			max_depth REAL NOT NULL DEFAULT 0,
			duration_ns INTEGER NOT NULL DEFAULT 0,
			passed INTEGER NOT NULL DEFAULT 1,
			mismatch TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario_id);
		CREATE INDEX IF NOT EXISTS idx_runs_strategy ON runs(strategy);
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

// SaveRun records a run, assigning it a new RunID.
// Returns the stored run.
func (s *Store) SaveRun(r Run) (Run, error) {
	r.RunID = uuid.NewString()

	result, err := s.db.Exec(
		`INSERT INTO runs
		 (run_id, scenario_id, strategy, frames, iterations, overlaps, hint_hits, max_depth, duration_ns, passed, mismatch)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID,
		r.ScenarioID,
		r.Strategy,
		r.Frames,
		r.Iterations,
		r.Overlaps,
		r.HintHits,
		r.MaxDepth,
		r.Duration.Nanoseconds(),
		r.Passed,
		r.Mismatch,
	)
	if err != nil {
		return r, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return r, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	r.ID = id

	return r, nil
}

const runColumns = `id, run_id, scenario_id, strategy, frames, iterations, overlaps,
	hint_hits, max_depth, duration_ns, passed, mismatch, created_at`

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
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
	return scanRuns(rows)
}

// RunsForScenario retrieves the most recent runs of one scenario, newest first.
func (s *Store) RunsForScenario(scenarioID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE scenario_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		scenarioID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// RunByID retrieves a run by its RunID. Returns nil if it does not exist.
func (s *Store) RunByID(runID string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE run_id = ?`,
		runID,
	)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// ClearRuns deletes the runs of one scenario, or every run if scenarioID is empty.
// Returns the number of deleted runs.
func (s *Store) ClearRuns(scenarioID string) (int64, error) {
	var (
		result sql.Result
		err    error
	)
	if scenarioID == "" {
		result, err = s.db.Exec("DELETE FROM runs")
	} else {
		result, err = s.db.Exec("DELETE FROM runs WHERE scenario_id = ?", scenarioID)
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear runs: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count cleared runs: %w", err)
	}
	return n, nil
}

// StrategyStats contains aggregated statistics for one strategy.
type StrategyStats struct {
	Strategy     string
	Runs         int
	Detections   int64
	AvgDetection time.Duration
	OverlapRatio float64 // overlapping frames over all frames
	Failures     int     // runs whose expectation failed
	LastRun      time.Time
}

// StrategyStats aggregates all runs per strategy, sorted by strategy.
func (s *Store) StrategyStats() ([]StrategyStats, error) {
	rows, err := s.db.Query(
		`SELECT strategy,
		        COUNT(*),
		        COALESCE(SUM(frames * iterations), 0),
		        COALESCE(SUM(duration_ns), 0),
		        COALESCE(SUM(frames), 0),
		        COALESCE(SUM(overlaps), 0),
		        COALESCE(SUM(CASE WHEN passed THEN 0 ELSE 1 END), 0),
		        MAX(created_at)
		 FROM runs
		 GROUP BY strategy
		 ORDER BY strategy`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get strategy stats: %w", err)
	}
	defer rows.Close()

	var stats []StrategyStats
	for rows.Next() {
		var (
			st          StrategyStats
			durationNs  int64
			frames      int64
			overlaps    int64
			lastCreated any
		)
		if err := rows.Scan(&st.Strategy, &st.Runs, &st.Detections, &durationNs, &frames, &overlaps, &st.Failures, &lastCreated); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}

		if st.Detections > 0 {
			st.AvgDetection = time.Duration(durationNs / st.Detections)
		}
		if frames > 0 {
			st.OverlapRatio = float64(overlaps) / float64(frames)
		}
		st.LastRun = parseTime(lastCreated)

		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r          Run
		durationNs int64
		createdAt  any
	)
	err := sc.Scan(
		&r.ID,
		&r.RunID,
		&r.ScenarioID,
		&r.Strategy,
		&r.Frames,
		&r.Iterations,
		&r.Overlaps,
		&r.HintHits,
		&r.MaxDepth,
		&durationNs,
		&r.Passed,
		&r.Mismatch,
		&createdAt,
	)
	if err != nil {
		return r, err
	}
	r.Duration = time.Duration(durationNs)
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
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

// parseTime handles both time.Time and the string form SQLite may return.
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
