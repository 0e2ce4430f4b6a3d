// Package db persists batch run summaries in PostgreSQL.
package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-parser/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the run tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// RecordRun stores a manifest and its failures in one transaction.
func (db *DB) RecordRun(ctx context.Context, m *types.Manifest, failures []types.FailureEntry) error {
	runID, err := uuid.Parse(m.RunID)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", m.RunID, err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO parse_runs (id, run_timestamp, input_dir, total_files, succeeded, failed, archived, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		runID, m.RunTimestamp, m.InputDir, m.TotalFiles, m.Succeeded, m.Failed, m.Archived, runStatus(m.Failed),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, e := range m.ParsedFiles {
		batch.Queue(
			`INSERT INTO parsed_resumes (run_id, source_file, output_file, parsed_at, archived_to, archive_error)
			 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))`,
			runID, e.SourceFile, e.OutputFile, e.ParsedAt, e.ArchivedTo, e.ArchiveError,
		)
	}
	for _, f := range failures {
		batch.Queue(
			`INSERT INTO parse_failures (run_id, file, error, kind) VALUES ($1, $2, $3, $4)`,
			runID, f.File, f.Error, string(f.Kind),
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert run entries: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a run summary by ID.
func (db *DB) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var r Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_timestamp, input_dir, total_files, succeeded, failed, archived, status, created_at
		 FROM parse_runs WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.RunTimestamp, &r.InputDir, &r.TotalFiles, &r.Succeeded, &r.Failed, &r.Archived, &r.Status, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// ListFailures returns the failures recorded for a run in insertion order.
func (db *DB) ListFailures(ctx context.Context, runID uuid.UUID) ([]Failure, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT run_id, file, error, kind FROM parse_failures WHERE run_id = $1 ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list failures: %w", err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var f Failure
		if err := rows.Scan(&f.RunID, &f.File, &f.Error, &f.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}

// CountParsed returns how many artifacts were recorded for a run.
func (db *DB) CountParsed(ctx context.Context, runID uuid.UUID) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM parsed_resumes WHERE run_id = $1`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count parsed resumes: %w", err)
	}
	return n, nil
}
