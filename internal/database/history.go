package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/wikicat/internal/model"
)

// DBFileName is the name of the history database inside the data directory.
const DBFileName = "wikicat.db"

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB stores crawl runs and the pages they visited.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// With CreateIfNotExists unset a missing database is an error, which lets
// read-only commands avoid creating an empty file.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_url TEXT NOT NULL,
		output_path TEXT NOT NULL,
		record_limit INTEGER NOT NULL DEFAULT 0,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL DEFAULT '',
		records INTEGER NOT NULL DEFAULT 0,
		pages INTEGER NOT NULL DEFAULT 0,
		stop_reason TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS visits (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		url TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		hash TEXT NOT NULL,
		records INTEGER NOT NULL,
		next_url TEXT NOT NULL DEFAULT '',
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_visits_url ON visits(url);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// StartRun records the beginning of a run and returns its ID.
func (hdb *HistoryDB) StartRun(ctx context.Context, run *model.Run) (int64, error) {
	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	result, err := hdb.db.ExecContext(ctx, `
	INSERT INTO runs (start_url, output_path, record_limit, started_at)
	VALUES (?, ?, ?, ?)
	`,
		run.StartURL,
		run.OutputPath,
		run.Limit,
		formatTimestamp(startedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	run.ID = id
	run.StartedAt = startedAt
	return id, nil
}

// FinishRun stores the outcome of a run. runErr is recorded as text when non-nil.
func (hdb *HistoryDB) FinishRun(ctx context.Context, id int64, summary model.Summary, runErr error) error {
	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}

	result, err := hdb.db.ExecContext(ctx, `
	UPDATE runs
	SET finished_at = ?, records = ?, pages = ?, stop_reason = ?, error = ?
	WHERE id = ?
	`,
		formatTimestamp(time.Now()),
		summary.Records,
		summary.Pages,
		string(summary.StopReason),
		errText,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return nil
}

// AddVisit records one visited page of a run.
func (hdb *HistoryDB) AddVisit(ctx context.Context, visit *model.Visit) error {
	_, err := hdb.db.ExecContext(ctx, `
	INSERT INTO visits (run_id, seq, url, status_code, hash, records, next_url, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		visit.RunID,
		visit.Seq,
		visit.URL,
		visit.StatusCode,
		visit.Hash,
		visit.Records,
		visit.NextURL,
		formatTimestamp(visit.FetchedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}
	return nil
}

const runColumns = `id, start_url, output_path, record_limit, started_at, finished_at, records, pages, stop_reason, error`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var (
		run        model.Run
		startedAt  string
		finishedAt string
		stopReason string
	)
	if err := row.Scan(
		&run.ID,
		&run.StartURL,
		&run.OutputPath,
		&run.Limit,
		&startedAt,
		&finishedAt,
		&run.Records,
		&run.Pages,
		&stopReason,
		&run.Error,
	); err != nil {
		return nil, err
	}

	run.StartedAt = parseTimestamp(startedAt)
	run.FinishedAt = parseTimestamp(finishedAt)
	run.StopReason = model.StopReason(stopReason)
	return &run, nil
}

// GetRun retrieves a run by ID.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*model.Run, error) {
	row := hdb.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. A limit of 0 returns all runs.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*model.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListVisits returns the pages of a run in visit order.
func (hdb *HistoryDB) ListVisits(ctx context.Context, runID int64) ([]*model.Visit, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT run_id, seq, url, status_code, hash, records, next_url, fetched_at
	FROM visits
	WHERE run_id = ?
	ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	visits := make([]*model.Visit, 0)
	for rows.Next() {
		var (
			visit     model.Visit
			fetchedAt string
		)
		if err := rows.Scan(
			&visit.RunID,
			&visit.Seq,
			&visit.URL,
			&visit.StatusCode,
			&visit.Hash,
			&visit.Records,
			&visit.NextURL,
			&fetchedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visit.FetchedAt = parseTimestamp(fetchedAt)
		visits = append(visits, &visit)
	}
	return visits, rows.Err()
}

// PreviousHash returns the body hash recorded for url by the latest run
// before runID, or "" when the page was never visited.
func (hdb *HistoryDB) PreviousHash(ctx context.Context, url string, runID int64) (string, error) {
	var hash string
	err := hdb.db.QueryRowContext(ctx, `
	SELECT hash FROM visits
	WHERE url = ? AND run_id < ?
	ORDER BY run_id DESC, seq DESC
	LIMIT 1
	`, url, runID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get previous hash: %w", err)
	}
	return hash, nil
}

// timestampFormats contains the timestamp formats accepted when reading.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,          // Written by formatTimestamp
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// Empty or unparseable input yields the zero time.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
