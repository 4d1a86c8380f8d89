package ingest

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

// RunRepository persists SyncRun metadata in ledger.db.
// The table is append-only: rows are never updated or deleted, and they are
// never used to reconstruct loan record state. They exist for observability.
type RunRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRunRepository creates a new sync run repository
func NewRunRepository(db *sql.DB, log zerolog.Logger) *RunRepository {
	return &RunRepository{
		db:  db,
		log: log.With().Str("repo", "sync_runs").Logger(),
	}
}

// Append inserts one sync run into the audit trail
func (r *RunRepository) Append(run domain.SyncRun) error {
	_, err := r.db.Exec(`
		INSERT INTO sync_runs (id, timestamp, dataset, source, record_count, skipped_count, success)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Timestamp.Unix(),
		string(run.Dataset),
		string(run.Source),
		run.RecordCount,
		run.SkippedCount,
		boolToInt(run.Success),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}
	return nil
}

// ListRecent returns the most recent sync runs, newest first
func (r *RunRepository) ListRecent(limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, timestamp, dataset, source, record_count, skipped_count, success
		FROM sync_runs
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync_runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun
	for rows.Next() {
		var run domain.SyncRun
		var ts int64
		var dataset, source string
		var success int

		if err := rows.Scan(&run.ID, &ts, &dataset, &source, &run.RecordCount, &run.SkippedCount, &success); err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}

		run.Timestamp = time.Unix(ts, 0).UTC()
		run.Dataset = domain.Dataset(dataset)
		run.Source = domain.SyncSource(source)
		run.Success = success != 0
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return runs, nil
}

// Latest returns the most recent sync run, or nil when none exists
func (r *RunRepository) Latest() (*domain.SyncRun, error) {
	runs, err := r.ListRecent(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
