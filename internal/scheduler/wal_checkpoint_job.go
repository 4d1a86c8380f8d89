package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/database"
)

// WALCheckpointJob truncates the WAL files of both application databases on
// a schedule. Full-replace syncs churn the portfolio WAL; without periodic
// checkpoints it grows unbounded between restarts.
type WALCheckpointJob struct {
	portfolioDB *database.DB
	ledgerDB    *database.DB
	log         zerolog.Logger
}

// NewWALCheckpointJob creates a WAL maintenance job
func NewWALCheckpointJob(portfolioDB, ledgerDB *database.DB, log zerolog.Logger) *WALCheckpointJob {
	return &WALCheckpointJob{
		portfolioDB: portfolioDB,
		ledgerDB:    ledgerDB,
		log:         log.With().Str("job", "wal_checkpoint").Logger(),
	}
}

// Name returns the job name
func (j *WALCheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run checkpoints each database. One failing database does not stop the
// other from being checkpointed.
func (j *WALCheckpointJob) Run() error {
	var firstErr error
	for _, db := range []*database.DB{j.portfolioDB, j.ledgerDB} {
		if db == nil {
			continue
		}
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("WAL checkpoint failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		j.log.Debug().Str("database", db.Name()).Msg("WAL checkpointed")
	}
	return firstErr
}
