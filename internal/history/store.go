// Package history records generation runs in a SQLite database.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get for unknown run ids.
var ErrNotFound = errors.New("run not found")

// Run is one recorded generation.
type Run struct {
	ID         string     `json:"id"`
	Project    string     `json:"project"`
	Status     string     `json:"status"`
	Files      int        `json:"files"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Store provides persistence for generation runs.
type Store struct {
	conn   *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens or creates the history database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{conn: conn, logger: logger, now: time.Now}
	if err := s.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	logger.Debug("history database opened", "path", path)
	return s, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			project TEXT NOT NULL,
			status TEXT NOT NULL,
			files INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Start records a new running generation for project.
func (s *Store) Start(project string) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Project:   project,
		Status:    StatusRunning,
		StartedAt: s.now().UTC(),
	}
	_, err := s.conn.Exec(
		`INSERT INTO runs (id, project, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Project, run.Status, run.StartedAt.Format(timeLayout),
	)
	if err != nil {
		return Run{}, fmt.Errorf("failed to record run: %w", err)
	}
	return run, nil
}

// Finish marks run id as finished.
func (s *Store) Finish(id string, success bool, errMsg string, files int) error {
	status := StatusSucceeded
	if !success {
		status = StatusFailed
	}
	res, err := s.conn.Exec(
		`UPDATE runs SET status = ?, error = ?, files = ?, finished_at = ? WHERE id = ?`,
		status, nullString(errMsg), files, s.now().UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the most recent runs first. A non-positive limit returns all runs.
func (s *Store) List(limit int) ([]Run, error) {
	query := `SELECT id, project, status, files, error, started_at, finished_at FROM runs ORDER BY started_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns a single run.
func (s *Store) Get(id string) (Run, error) {
	row := s.conn.QueryRow(
		`SELECT id, project, status, files, error, started_at, finished_at FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run      Run
		errMsg   sql.NullString
		started  string
		finished sql.NullString
	)
	if err := row.Scan(&run.ID, &run.Project, &run.Status, &run.Files, &errMsg, &started, &finished); err != nil {
		return Run{}, err
	}
	run.Error = errMsg.String
	t, err := time.Parse(timeLayout, started)
	if err != nil {
		return Run{}, fmt.Errorf("bad started_at %q: %w", started, err)
	}
	run.StartedAt = t
	if finished.Valid {
		ft, err := time.Parse(timeLayout, finished.String)
		if err != nil {
			return Run{}, fmt.Errorf("bad finished_at %q: %w", finished.String, err)
		}
		run.FinishedAt = &ft
	}
	return run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
