// Package history persists run summaries so finding counts and drift can
// be inspected across invocations. It speaks to a local SQLite file by
// default and to PostgreSQL when the DSN points at one; query text is
// shared between the two backends.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/lucasnoah/lintmux/internal/report"
)

const timeFormat = "2006-01-02 15:04:05"

// Store wraps the run-history database connection.
type Store struct {
	db     *sql.DB
	driver string
}

// DefaultPath returns ~/.lintmux/lintmux.db, creating the directory if
// needed.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(home, ".lintmux")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	return filepath.Join(dir, "lintmux.db"), nil
}

// ResolveDSN picks the effective DSN: the LINTMUX_HISTORY_DSN environment
// variable wins over the configured value. Empty means the default local
// database.
func ResolveDSN(configured string) string {
	if v := os.Getenv("LINTMUX_HISTORY_DSN"); v != "" {
		return v
	}
	return configured
}

// driverFor maps a DSN to a database/sql driver name and the DSN to open.
// postgres:// and postgresql:// select pgx; anything else is treated as a
// SQLite path.
func driverFor(dsn string) (string, string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "pgx", dsn
	case strings.HasPrefix(dsn, "file:"):
		return "sqlite", dsn
	default:
		return "sqlite", "file:" + dsn + "?_pragma=busy_timeout=5000"
	}
}

// Open opens the store at the given DSN, or the default local database
// when the DSN is empty.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		dsn = path
	}
	driver, dsn := driverFor(dsn)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history database: %w", err)
	}
	if driver == "sqlite" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set journal mode: %w", err)
		}
	}
	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Schema statements are executed one at a time; the pgx driver rejects
// multi-statement strings.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS runs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at  TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		findings    INTEGER NOT NULL,
		errors      INTEGER NOT NULL,
		warnings    INTEGER NOT NULL,
		infos       INTEGER NOT NULL,
		diagnostics INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS run_tools (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      INTEGER NOT NULL REFERENCES runs(id),
		tool        TEXT NOT NULL,
		exit_code   INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		findings    INTEGER NOT NULL,
		diagnostics INTEGER NOT NULL,
		drift       BOOLEAN NOT NULL,
		error       TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_run_tools_run ON run_tools(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_run_tools_tool ON run_tools(tool)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS runs (
		id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		started_at  TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		findings    INTEGER NOT NULL,
		errors      INTEGER NOT NULL,
		warnings    INTEGER NOT NULL,
		infos       INTEGER NOT NULL,
		diagnostics INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS run_tools (
		id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		run_id      BIGINT NOT NULL REFERENCES runs(id),
		tool        TEXT NOT NULL,
		exit_code   INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		findings    INTEGER NOT NULL,
		diagnostics INTEGER NOT NULL,
		drift       BOOLEAN NOT NULL,
		error       TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_run_tools_run ON run_tools(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_run_tools_tool ON run_tools(tool)`,
}

// Migrate applies the schema for the active backend.
func (s *Store) Migrate() error {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = 1").Scan(&count)
	if err == nil && count > 0 {
		return nil
	}

	schema := sqliteSchema
	if s.driver == "pgx" {
		schema = postgresSchema
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_version (version, applied_at) VALUES ($1, $2)",
		1, time.Now().UTC().Format(timeFormat),
	); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// Run is one row of the runs table.
type Run struct {
	ID          int64  `json:"id"`
	StartedAt   string `json:"started_at"`
	DurationMs  int    `json:"duration_ms"`
	Findings    int    `json:"findings"`
	Errors      int    `json:"errors"`
	Warnings    int    `json:"warnings"`
	Infos       int    `json:"infos"`
	Diagnostics int    `json:"diagnostics"`
}

// LogRun records one run and its per-tool rows in a single transaction and
// returns the new run's id.
func (s *Store) LogRun(startedAt time.Time, durationMs int, sum report.Summary) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(
		`INSERT INTO runs (started_at, duration_ms, findings, errors, warnings, infos, diagnostics)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		startedAt.UTC().Format(timeFormat), durationMs,
		sum.Findings, sum.Errors, sum.Warnings, sum.Infos, sum.Diagnostics,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	for _, t := range sum.Tools {
		if _, err := tx.Exec(
			`INSERT INTO run_tools (run_id, tool, exit_code, duration_ms, findings, diagnostics, drift, error)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, t.Tool, t.ExitCode, t.DurationMs, t.Findings, t.Diagnostics, t.Drift, t.Err,
		); err != nil {
			return 0, fmt.Errorf("insert tool run: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	return id, nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, started_at, duration_ms, findings, errors, warnings, infos, diagnostics
		 FROM runs ORDER BY id DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.DurationMs, &r.Findings,
			&r.Errors, &r.Warnings, &r.Infos, &r.Diagnostics); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ToolStat aggregates one tool's rows across all recorded runs.
type ToolStat struct {
	Tool          string  `json:"tool"`
	Runs          int     `json:"runs"`
	Findings      int     `json:"findings"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
	DriftRuns     int     `json:"drift_runs"`
}

// ToolStats returns per-tool aggregates over the whole history, ordered by
// tool name.
func (s *Store) ToolStats() ([]ToolStat, error) {
	rows, err := s.db.Query(
		`SELECT tool, COUNT(*), SUM(findings), CAST(AVG(duration_ms) AS REAL),
		        SUM(CASE WHEN drift THEN 1 ELSE 0 END)
		 FROM run_tools GROUP BY tool ORDER BY tool`,
	)
	if err != nil {
		return nil, fmt.Errorf("query tool stats: %w", err)
	}
	defer rows.Close()

	var stats []ToolStat
	for rows.Next() {
		var st ToolStat
		if err := rows.Scan(&st.Tool, &st.Runs, &st.Findings, &st.AvgDurationMs, &st.DriftRuns); err != nil {
			return nil, fmt.Errorf("scan tool stat: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
