package database

import (
	"database/sql"
	"fmt"
)

// InitRunsSchema creates the fetch-run tables if they do not exist yet.
func InitRunsSchema(conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			item_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_records (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			item_code INTEGER NOT NULL,
			fabrication TEXT NOT NULL,
			name TEXT NOT NULL,
			sale_price REAL NOT NULL,
			cost REAL NOT NULL,
			stock_balance REAL NOT NULL,
			category_code INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE TABLE IF NOT EXISTS run_failures (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			item_code INTEGER NOT NULL,
			name TEXT NOT NULL,
			reason TEXT NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create runs schema: %w", err)
		}
	}
	return nil
}
