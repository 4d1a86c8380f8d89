package ingest

import (
	"context"
	"errors"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

// SyncJob adapts the sync service to the scheduler's Job interface
type SyncJob struct {
	service *Service
}

// NewSyncJob creates a scheduled sync job
func NewSyncJob(service *Service) *SyncJob {
	return &SyncJob{service: service}
}

// Name returns the job name, derived from the dataset being synced
func (j *SyncJob) Name() string {
	return string(j.service.Dataset()) + "_sync"
}

// Run executes one sync cycle. A coalesced run (another sync in flight) is
// not a job failure; the scheduler simply tries again next tick.
func (j *SyncJob) Run() error {
	_, err := j.service.Sync(context.Background())
	if err != nil && !errors.Is(err, domain.ErrSyncInProgress) {
		return err
	}
	return nil
}
