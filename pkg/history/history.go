// Package history keeps audit runs in a local SQLite database so
// score movement can be compared across runs.
package history

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/purrify/siteaudit/models"
)

const DefaultDBName = "siteaudit.db"

type DB struct {
	*sql.DB
	path string
}

// OpenAt opens or creates the history database at the given path.
func OpenAt(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db := &DB{DB: sqlDB, path: dbPath}
	if err := db.ensureSchemaExists(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

func (db *DB) ensureSchemaExists() error {
	var tableName string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='runs'").Scan(&tableName)
	if err == sql.ErrNoRows {
		return db.InitSchema()
	}
	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}
	return nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// InitSchema initializes the database schema
func (db *DB) InitSchema() error {
	_, err := db.Exec(schema)
	return err
}

// RunSummary is one recorded audit run.
type RunSummary struct {
	RunID      int64
	ScannedAt  string
	TotalPages int
	P0         int
	P1         int
	P2         int
	Errors     int
}

// PageSample is one page's scores in one run.
type PageSample struct {
	ScannedAt     string
	Overall       int
	PriorityScore int
	PriorityTier  string
	Words         int
}

// RecordRun stores a report's summary and per-page scores in one
// transaction.
func (db *DB) RecordRun(r *models.AuditReport) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO runs (scanned_at, total_pages, p0_count, p1_count, p2_count, error_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.Summary.ScannedAt, r.Summary.TotalPages, r.Summary.P0, r.Summary.P1, r.Summary.P2, len(r.Summary.Errors))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_pages (run_id, url, locale, content_class, overall_score, priority_score, priority_tier, word_count, internal_links)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare page insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range r.Entries {
		if _, err := stmt.Exec(runID, entry.URL, entry.Locale, string(entry.ContentClass),
			entry.Score.Overall, entry.PriorityScore, entry.PriorityTier,
			entry.Metrics.Words, entry.Metrics.InternalLinks); err != nil {
			return 0, fmt.Errorf("failed to insert page %s: %w", entry.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns recorded runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT run_id, scanned_at, total_pages, p0_count, p1_count, p2_count, error_count
		FROM runs ORDER BY run_id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var rs RunSummary
		if err := rows.Scan(&rs.RunID, &rs.ScannedAt, &rs.TotalPages, &rs.P0, &rs.P1, &rs.P2, &rs.Errors); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, rs)
	}
	return runs, rows.Err()
}

// PageHistory returns one URL's scores across runs, newest first.
func (db *DB) PageHistory(url string, limit int) ([]PageSample, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT r.scanned_at, p.overall_score, p.priority_score, p.priority_tier, p.word_count
		FROM run_pages p
		JOIN runs r ON r.run_id = p.run_id
		WHERE p.url = ?
		ORDER BY p.run_id DESC LIMIT ?
	`, url, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query page history: %w", err)
	}
	defer rows.Close()

	var samples []PageSample
	for rows.Next() {
		var ps PageSample
		if err := rows.Scan(&ps.ScannedAt, &ps.Overall, &ps.PriorityScore, &ps.PriorityTier, &ps.Words); err != nil {
			return nil, fmt.Errorf("failed to scan page sample: %w", err)
		}
		samples = append(samples, ps)
	}
	return samples, rows.Err()
}
