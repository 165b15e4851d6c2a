package journal

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on any schema change. The journal is disposable,
// so a mismatch just asks the user to delete the old database.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different
// gridpull version.
var ErrSchemaMismatch = errors.New("journal schema version mismatch")

// Store is the SQLite-backed Recorder.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	var tableExists int
	err := s.db.QueryRow(
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.Exec(schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// BeginRun inserts a new run row and returns its id.
func (s *Store) BeginRun(startedAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO runs (id, started_at) VALUES (?, ?)",
		id, startedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordResult appends one terminal task outcome to a run.
func (s *Store) RecordResult(result TaskResult) error {
	var kind any
	if result.Outcome == OutcomeFailed {
		kind = result.ErrorKind.String()
	}
	_, err := s.db.Exec(
		`INSERT INTO task_results (run_id, year, lat, lon, outcome, error_kind, attempts, bytes, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.Task.Year,
		result.Task.Point.Lat,
		result.Task.Point.Lon,
		result.Outcome,
		kind,
		result.Attempts,
		result.Bytes,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert task result: %w", err)
	}
	return nil
}

// FinishRun stamps the run's completion time and totals.
func (s *Store) FinishRun(run Run) error {
	res, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, succeeded = ?, skipped = ?, failed = ?, bytes = ? WHERE id = ?`,
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Succeeded, run.Skipped, run.Failed, run.Bytes,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("finish run: unknown run id %s", run.ID)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, started_at, finished_at, succeeded, skipped, failed, bytes
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&run.ID, &started, &finished, &run.Succeeded, &run.Skipped, &run.Failed, &run.Bytes); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if finished.Valid {
			if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
				return nil, fmt.Errorf("parse finished_at: %w", err)
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FailedResults lists the failed task rows for a run, ordered as recorded.
func (s *Store) FailedResults(runID string) ([]TaskResult, error) {
	rows, err := s.db.Query(
		`SELECT run_id, year, lat, lon, outcome, COALESCE(error_kind, ''), attempts, bytes
         FROM task_results WHERE run_id = ? AND outcome = ? ORDER BY id`,
		runID, OutcomeFailed,
	)
	if err != nil {
		return nil, fmt.Errorf("query task results: %w", err)
	}
	defer rows.Close()

	var results []TaskResult
	for rows.Next() {
		var result TaskResult
		var kind string
		if err := rows.Scan(
			&result.RunID, &result.Task.Year, &result.Task.Point.Lat, &result.Task.Point.Lon,
			&result.Outcome, &kind, &result.Attempts, &result.Bytes,
		); err != nil {
			return nil, fmt.Errorf("scan task result: %w", err)
		}
		result.ErrorKind = kindFromLabel(kind)
		results = append(results, result)
	}
	return results, rows.Err()
}
