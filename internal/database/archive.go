package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/linkscan/internal/model"
)

// Archive provides SQLite-based storage for crawl snapshots. A completed
// crawl can be archived and later compared against newer runs of the same
// domain.
//
// Design decision: We store one row per crawl with the full result as
// JSON rather than normalized link tables because:
// 1. Snapshots are read back whole for comparison, never partially
// 2. The result schema can evolve without database migrations
// 3. A single table keeps pruning and backup trivial
type Archive struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Archive behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default archive options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an Archive in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dir string, opts Options) (*Archive, error) {
	dbPath := filepath.Join(dir, "linkscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("archive not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check archive path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string format: mode=rw prevents
	// creating new files, mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	a := &Archive{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := a.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// createTables creates the snapshot schema if it doesn't exist.
func (a *Archive) createTables() error {
	schema := `
	-- Snapshots store one completed crawl per row, result as JSON
	CREATE TABLE IF NOT EXISTS crawl_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		base_domain TEXT NOT NULL,
		seed_url TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		pages_crawled INTEGER NOT NULL,
		links_found INTEGER NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_domain_created
		ON crawl_snapshots(base_domain, created_at);
	`

	_, err := a.db.ExecContext(context.Background(), schema)
	return err
}

// Snapshot is one archived crawl.
type Snapshot struct {
	// ID is the snapshot's database identifier.
	ID int64

	// BaseDomain is the crawl's base domain.
	BaseDomain string

	// SeedURL is the URL the crawl started from.
	SeedURL string

	// CreatedAt is when the snapshot was stored.
	CreatedAt time.Time

	// PagesCrawled mirrors the result counter for history listings.
	PagesCrawled int

	// LinksFound mirrors the result counter for history listings.
	LinksFound int

	// Result is the decoded crawl result.
	Result *model.CrawlResult
}

// SaveSnapshot archives a completed crawl result and returns the new
// snapshot ID.
func (a *Archive) SaveSnapshot(ctx context.Context, result *model.CrawlResult) (int64, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize result: %w", err)
	}

	query := `
	INSERT INTO crawl_snapshots (base_domain, seed_url, pages_crawled, links_found, result_json)
	VALUES (?, ?, ?, ?, ?)
	`

	res, err := a.db.ExecContext(ctx, query,
		result.CrawlInfo.BaseDomain,
		result.CrawlInfo.StartURL,
		result.CrawlInfo.PagesCrawled,
		result.CrawlInfo.TotalLinks,
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return res.LastInsertId()
}

// LatestSnapshots returns up to n full snapshots for a domain, newest
// first.
func (a *Archive) LatestSnapshots(ctx context.Context, domain string, n int) ([]Snapshot, error) {
	query := `
	SELECT id, base_domain, seed_url, created_at, pages_crawled, links_found, result_json
	FROM crawl_snapshots
	WHERE base_domain = ?
	ORDER BY created_at DESC, id DESC
	LIMIT ?
	`

	rows, err := a.db.QueryContext(ctx, query, domain, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snap)
	}

	return snapshots, rows.Err()
}

// SnapshotByID retrieves one full snapshot by its database ID.
// Returns nil when the ID is unknown.
func (a *Archive) SnapshotByID(ctx context.Context, id int64) (*Snapshot, error) {
	query := `
	SELECT id, base_domain, seed_url, created_at, pages_crawled, links_found, result_json
	FROM crawl_snapshots
	WHERE id = ?
	`

	snap, err := scanSnapshot(a.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ListDomains returns every domain with at least one snapshot.
func (a *Archive) ListDomains(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT base_domain FROM crawl_snapshots
	ORDER BY base_domain
	`

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, domain)
	}

	return domains, rows.Err()
}

// SnapshotMetadata summarizes one archived crawl for history listings
// without decoding the full result.
type SnapshotMetadata struct {
	// ID is the snapshot's database identifier.
	ID int64

	// BaseDomain is the crawl's base domain.
	BaseDomain string

	// SeedURL is the URL the crawl started from.
	SeedURL string

	// CreatedAt is when the snapshot was stored.
	CreatedAt time.Time

	// PagesCrawled is the archived page count.
	PagesCrawled int

	// LinksFound is the archived link count.
	LinksFound int
}

// History returns snapshot metadata for a domain, newest first.
// This is more efficient than LatestSnapshots when only metadata is needed.
func (a *Archive) History(ctx context.Context, domain string) ([]SnapshotMetadata, error) {
	query := `
	SELECT id, base_domain, seed_url, created_at, pages_crawled, links_found
	FROM crawl_snapshots
	WHERE base_domain = ?
	ORDER BY created_at DESC, id DESC
	`

	rows, err := a.db.QueryContext(ctx, query, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var results []SnapshotMetadata
	for rows.Next() {
		var meta SnapshotMetadata
		var createdAt string

		if err := rows.Scan(
			&meta.ID, &meta.BaseDomain, &meta.SeedURL,
			&createdAt, &meta.PagesCrawled, &meta.LinksFound,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.CreatedAt = parseTimestamp(createdAt)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// Prune deletes all but the newest keep snapshots for a domain and
// returns how many rows were removed.
func (a *Archive) Prune(ctx context.Context, domain string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	query := `
	DELETE FROM crawl_snapshots
	WHERE base_domain = ? AND id NOT IN (
		SELECT id FROM crawl_snapshots
		WHERE base_domain = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	)
	`

	res, err := a.db.ExecContext(ctx, query, domain, domain, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

// rowScanner abstracts sql.Row and sql.Rows for shared decoding.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSnapshot decodes one full snapshot row.
func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var snap Snapshot
	var createdAt string
	var resultJSON string

	if err := row.Scan(
		&snap.ID, &snap.BaseDomain, &snap.SeedURL, &createdAt,
		&snap.PagesCrawled, &snap.LinksFound, &resultJSON,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	snap.CreatedAt = parseTimestamp(createdAt)

	var result model.CrawlResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot result: %w", err)
	}
	snap.Result = &result

	return &snap, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
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
