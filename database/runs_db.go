// Package database persists fetch runs in SQLite. A run is the complete
// output of one batch fetch: the resolved records and the failed lookups,
// keyed by a run ID. Reports are assembled from a stored run, so the fetch
// phase and the report phases can be invoked separately.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"pricewatch/fetcher"
)

// ErrNoRuns is returned by LatestRun when the store is empty.
var ErrNoRuns = sql.ErrNoRows

// DBConfig holds connection pool settings.
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Run is one stored batch fetch.
type Run struct {
	ID        string
	StartedAt time.Time
	ItemCount int
	Resolved  []fetcher.RemoteRecord
	Failed    []fetcher.FetchFailure
}

// NewRun wraps a batch result into a run with a fresh ID.
func NewRun(startedAt time.Time, itemCount int, result *fetcher.BatchResult) *Run {
	return &Run{
		ID:        uuid.NewString(),
		StartedAt: startedAt,
		ItemCount: itemCount,
		Resolved:  result.Resolved,
		Failed:    result.Failed,
	}
}

// RunsDB wraps the SQLite connection for the run store.
type RunsDB struct {
	conn *sql.DB
}

// NewRunsDB opens (or creates) the run store at dbPath.
func NewRunsDB(dbPath string) (*RunsDB, error) {
	return NewRunsDBWithConfig(dbPath, DBConfig{})
}

// NewRunsDBWithConfig opens the run store with explicit pool settings.
func NewRunsDBWithConfig(dbPath string, config DBConfig) (*RunsDB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open runs database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		conn.SetMaxOpenConns(10)
	}
	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(2)
	}
	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	} else {
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping runs database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := InitRunsSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize runs schema: %w", err)
	}

	return &RunsDB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *RunsDB) Close() error {
	return db.conn.Close()
}

// SaveRun stores a run atomically: either the run with all of its records
// and failures lands, or nothing does.
func (db *RunsDB) SaveRun(ctx context.Context, run *Run) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO runs (id, started_at, item_count) VALUES (?, ?, ?)",
		run.ID, run.StartedAt.UTC(), run.ItemCount); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	recordStmt, err := tx.PrepareContext(ctx, `INSERT INTO run_records
		(run_id, seq, item_code, fabrication, name, sale_price, cost, stock_balance, category_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer recordStmt.Close()

	for i, rec := range run.Resolved {
		if _, err := recordStmt.ExecContext(ctx, run.ID, i,
			rec.ItemCode, rec.Fabrication, rec.Name,
			rec.SalePrice, rec.Cost, rec.StockBalance, rec.CategoryCode); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", rec.ItemCode, err)
		}
	}

	failureStmt, err := tx.PrepareContext(ctx, `INSERT INTO run_failures
		(run_id, seq, item_code, name, reason) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare failure insert: %w", err)
	}
	defer failureStmt.Close()

	for i, failure := range run.Failed {
		if _, err := failureStmt.ExecContext(ctx, run.ID, i,
			failure.ItemCode, failure.Name, failure.Reason); err != nil {
			return fmt.Errorf("failed to insert failure %d: %w", failure.ItemCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun loads a run by ID.
func (db *RunsDB) GetRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{ID: id}
	err := db.conn.QueryRowContext(ctx,
		"SELECT started_at, item_count FROM runs WHERE id = ?", id).
		Scan(&run.StartedAt, &run.ItemCount)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	if err := db.loadRecords(ctx, run); err != nil {
		return nil, err
	}
	if err := db.loadFailures(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// LatestRun loads the most recently started run, or ErrNoRuns if the store
// is empty.
func (db *RunsDB) LatestRun(ctx context.Context) (*Run, error) {
	var id string
	err := db.conn.QueryRowContext(ctx,
		"SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT 1").Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest run: %w", err)
	}
	return db.GetRun(ctx, id)
}

func (db *RunsDB) loadRecords(ctx context.Context, run *Run) error {
	rows, err := db.conn.QueryContext(ctx, `SELECT
		item_code, fabrication, name, sale_price, cost, stock_balance, category_code
		FROM run_records WHERE run_id = ? ORDER BY seq`, run.ID)
	if err != nil {
		return fmt.Errorf("failed to load records for run %s: %w", run.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec fetcher.RemoteRecord
		if err := rows.Scan(&rec.ItemCode, &rec.Fabrication, &rec.Name,
			&rec.SalePrice, &rec.Cost, &rec.StockBalance, &rec.CategoryCode); err != nil {
			return fmt.Errorf("failed to scan record: %w", err)
		}
		run.Resolved = append(run.Resolved, rec)
	}
	return rows.Err()
}

func (db *RunsDB) loadFailures(ctx context.Context, run *Run) error {
	rows, err := db.conn.QueryContext(ctx, `SELECT item_code, name, reason
		FROM run_failures WHERE run_id = ? ORDER BY seq`, run.ID)
	if err != nil {
		return fmt.Errorf("failed to load failures for run %s: %w", run.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var failure fetcher.FetchFailure
		if err := rows.Scan(&failure.ItemCode, &failure.Name, &failure.Reason); err != nil {
			return fmt.Errorf("failed to scan failure: %w", err)
		}
		run.Failed = append(run.Failed, failure)
	}
	return rows.Err()
}
