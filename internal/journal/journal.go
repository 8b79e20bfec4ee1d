package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nepcorpus/nepcrawl/internal/model"
)

// storedTimeFormat is RFC 3339 with a fixed-width fraction so that
// timestamps stored as TEXT sort chronologically under ORDER BY.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Journal provides SQLite-based storage for crawl page outcomes and
// session summaries.
//
// Design decision: one database file holds the journals of every
// target ever crawled rather than one file per target. Pages are keyed
// by (url, target), so re-crawling a site updates its rows in place
// and cross-site history stays queryable with plain SQL.
type Journal struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// target is the crawl target recorded pages are attributed to.
	target string
}

// Options configures Journal behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default journal options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// DefaultDir returns the journal directory under the XDG data home,
// typically ~/.local/share/nepcrawl on Linux.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "nepcrawl")
}

// Open opens or creates the journal database under dir and binds
// recorded pages to the given target.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dir, target string, opts Options) (*Journal, error) {
	dbPath := filepath.Join(dir, "nepcrawl.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("journal not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check journal path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{
		db:     db,
		dbPath: dbPath,
		target: target,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := j.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the journal database file location.
func (j *Journal) Path() string {
	return j.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (j *Journal) createTables() error {
	schema := `
	-- Page rows store the outcome of processing a single URL
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		target TEXT NOT NULL,
		depth INTEGER NOT NULL,
		crawled_at TEXT NOT NULL,
		accepted INTEGER NOT NULL DEFAULT 0,
		artifact TEXT,
		text_chars INTEGER NOT NULL DEFAULT 0,
		note TEXT,
		UNIQUE(url, target)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	CREATE INDEX IF NOT EXISTS idx_pages_target ON pages(target);
	CREATE INDEX IF NOT EXISTS idx_pages_crawled_at ON pages(crawled_at);

	-- Session rows store one summary per finished run
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		stop_reason TEXT NOT NULL,
		pages_saved INTEGER NOT NULL DEFAULT 0,
		pages_crawled INTEGER NOT NULL DEFAULT 0,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_target ON sessions(target);
	CREATE INDEX IF NOT EXISTS idx_sessions_finished ON sessions(finished_at);
	`

	_, err := j.db.ExecContext(context.Background(), schema)
	return err
}

// RecordPage inserts or updates the journal row for a processed page.
// Uses UPSERT so that re-crawling a URL for the same target updates
// the existing row instead of accumulating duplicates.
func (j *Journal) RecordPage(ctx context.Context, rec model.PageRecord) error {
	crawledAt := rec.CrawledAt
	if crawledAt.IsZero() {
		crawledAt = time.Now()
	}

	query := `
	INSERT INTO pages (url, target, depth, crawled_at, accepted, artifact, text_chars, note)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url, target) DO UPDATE SET
		depth = excluded.depth,
		crawled_at = excluded.crawled_at,
		accepted = excluded.accepted,
		artifact = excluded.artifact,
		text_chars = excluded.text_chars,
		note = excluded.note
	`

	_, err := j.db.ExecContext(ctx, query,
		rec.URL,
		j.target,
		rec.Depth,
		crawledAt.UTC().Format(storedTimeFormat),
		rec.Accepted,
		rec.Artifact,
		rec.TextChars,
		rec.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to record page: %w", err)
	}

	return nil
}

// Page retrieves the journal row for a URL, or (nil, nil) if the URL
// was never recorded for this journal's target.
func (j *Journal) Page(ctx context.Context, url string) (*model.PageRecord, error) {
	query := `
	SELECT url, depth, crawled_at, accepted, artifact, text_chars, note
	FROM pages
	WHERE url = ? AND target = ?
	`

	rec, err := scanPage(j.db.QueryRowContext(ctx, query, url, j.target))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return rec, nil
}

// RecentPages returns up to limit journal rows for this journal's
// target, most recently crawled first.
func (j *Journal) RecentPages(ctx context.Context, limit int) ([]model.PageRecord, error) {
	query := `
	SELECT url, depth, crawled_at, accepted, artifact, text_chars, note
	FROM pages
	WHERE target = ?
	ORDER BY crawled_at DESC, id DESC
	LIMIT ?
	`

	rows, err := j.db.QueryContext(ctx, query, j.target, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var results []model.PageRecord
	for rows.Next() {
		rec, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		results = append(results, *rec)
	}

	return results, rows.Err()
}

// Counts returns how many pages the journal holds for this journal's
// target and how many of them were accepted.
func (j *Journal) Counts(ctx context.Context) (total, accepted int, err error) {
	query := `
	SELECT COUNT(*), COALESCE(SUM(accepted), 0) FROM pages
	WHERE target = ?
	`

	if err := j.db.QueryRowContext(ctx, query, j.target).Scan(&total, &accepted); err != nil {
		return 0, 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return total, accepted, nil
}

// RecordSession appends a session summary row for a finished run.
func (j *Journal) RecordSession(ctx context.Context, sum model.CrawlSummary) error {
	summaryJSON, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	query := `
	INSERT INTO sessions (target, finished_at, stop_reason, pages_saved, pages_crawled, summary_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = j.db.ExecContext(ctx, query,
		sum.Target,
		time.Now().UTC().Format(storedTimeFormat),
		sum.StopReason,
		sum.PagesSaved,
		sum.PagesCrawled,
		string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}

	return nil
}

// LastSession retrieves the most recent session summary for this
// journal's target, or (nil, nil) if no run has finished yet.
func (j *Journal) LastSession(ctx context.Context) (*model.CrawlSummary, error) {
	query := `
	SELECT summary_json FROM sessions
	WHERE target = ?
	ORDER BY finished_at DESC, id DESC
	LIMIT 1
	`

	var summaryJSON string
	err := j.db.QueryRowContext(ctx, query, j.target).Scan(&summaryJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sum model.CrawlSummary
	if err := json.Unmarshal([]byte(summaryJSON), &sum); err != nil {
		return nil, fmt.Errorf("failed to parse session summary: %w", err)
	}

	return &sum, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanPage.
type scanner interface {
	Scan(dest ...any) error
}

// scanPage reads one pages row into a PageRecord.
func scanPage(row scanner) (*model.PageRecord, error) {
	var rec model.PageRecord
	var crawledAt string
	var artifact, note sql.NullString

	err := row.Scan(
		&rec.URL,
		&rec.Depth,
		&crawledAt,
		&rec.Accepted,
		&artifact,
		&rec.TextChars,
		&note,
	)
	if err != nil {
		return nil, err
	}

	rec.CrawledAt = parseTimestamp(crawledAt)
	rec.Artifact = artifact.String
	rec.Note = note.String
	return &rec, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,          // Covers storedTimeFormat and trimmed fractions
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
