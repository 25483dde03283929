package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/fbxmon/internal/metric"
)

// HistoryDB stores collected samples across invocations.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Open opens or creates the history database in dbDir.
// The directory is created if needed; the database schema is applied on
// every open (CREATE IF NOT EXISTS, cheap on an existing file).
func Open(dbDir string) (*HistoryDB, error) {
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, "fbxmon.db")
	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer: the scheduler can start overlapping invocations, and
	// SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per collected field value. Absent values are stored as
	-- empty strings so a gap in the source data stays visible.
	CREATE TABLE IF NOT EXISTS samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		family TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		collected_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_samples_family ON samples(family);
	CREATE INDEX IF NOT EXISTS idx_samples_collected_at ON samples(collected_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Record stores one collection run's samples for a family.
// All rows of a run are written in one transaction so a half-recorded
// run can never appear in queries.
func (hdb *HistoryDB) Record(ctx context.Context, family string, samples []metric.Sample) error {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	for _, s := range samples {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO samples (family, key, value) VALUES (?, ?, ?)",
			family, s.Key, s.Value); err != nil {
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit samples: %w", err)
	}
	return nil
}

// StoredSample is one historical sample row.
type StoredSample struct {
	// Family is the metric family the sample belongs to.
	Family string

	// Key is the field identifier.
	Key string

	// Value is the stored value; empty means the field was absent.
	Value string

	// CollectedAt is the recording time.
	CollectedAt time.Time
}

// Recent returns up to limit samples for a family, newest first.
func (hdb *HistoryDB) Recent(ctx context.Context, family string, limit int) ([]StoredSample, error) {
	rows, err := hdb.db.QueryContext(ctx,
		"SELECT family, key, value, collected_at FROM samples WHERE family = ? ORDER BY id DESC LIMIT ?",
		family, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []StoredSample
	for rows.Next() {
		var s StoredSample
		var collectedAt string
		if err := rows.Scan(&s.Family, &s.Key, &s.Value, &collectedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		s.CollectedAt = parseTimestamp(collectedAt)
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate samples: %w", err)
	}
	return samples, nil
}

// parseTimestamp parses the formats SQLite returns for DATETIME columns.
// The driver hands back strings; the format depends on how the value was
// written.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
