// Package storage provides database access and repositories
package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(databaseURL string) (*DB, error) {
	db, err := sql.Open("sqlite3", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &DB{db}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	migrations := []string{
		createWorkbooksTable,
		createPeriodMetricsTable,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

const createWorkbooksTable = `
CREATE TABLE IF NOT EXISTS workbooks (
	id TEXT PRIMARY KEY,
	path TEXT UNIQUE NOT NULL,
	label TEXT NOT NULL,
	mod_time DATETIME NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_workbooks_path ON workbooks(path);
`

const createPeriodMetricsTable = `
CREATE TABLE IF NOT EXISTS period_metrics (
	id TEXT PRIMARY KEY,
	sheet TEXT NOT NULL,
	as_of_date TEXT NOT NULL,
	beginning_balance TEXT,
	ending_balance TEXT,
	unrealized_gain_loss TEXT,
	realized_gain_loss TEXT,
	management_fees TEXT,
	source TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(sheet, as_of_date)
);

CREATE INDEX IF NOT EXISTS idx_period_metrics_sheet ON period_metrics(sheet);
CREATE INDEX IF NOT EXISTS idx_period_metrics_as_of ON period_metrics(sheet, as_of_date);
`
