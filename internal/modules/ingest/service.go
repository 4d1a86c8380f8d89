package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/records"
)

// SourceClient fetches raw loan records from the external collection API
type SourceClient interface {
	Fetch(ctx context.Context) ([]domain.RawRecord, error)
}

// Config holds sync service parameters
type Config struct {
	Dataset         domain.Dataset // Which dataset this service syncs
	FetchTimeout    time.Duration  // Bound on the upstream fetch
	MockRecordCount int            // Fallback record count
	MockSeed        int64          // Fallback record seed
}

// Service orchestrates one sync cycle: fetch (or fall back), normalize,
// replace the durable store, swap the read snapshot, and append a SyncRun.
//
// Reentrancy: at most one sync runs at a time. A Sync call arriving while
// another is in flight is coalesced into a fast failure with
// domain.ErrSyncInProgress ("retry shortly") rather than queueing request
// goroutines behind the upstream fetch.
type Service struct {
	client    SourceClient
	repo      *records.Repository
	snapshots *records.SnapshotStore
	runs      *RunRepository
	cfg       Config
	log       zerolog.Logger

	mu sync.Mutex // held for the duration of one sync cycle
}

// NewService creates a new sync service
func NewService(
	client SourceClient,
	repo *records.Repository,
	snapshots *records.SnapshotStore,
	runs *RunRepository,
	cfg Config,
	log zerolog.Logger,
) *Service {
	if cfg.Dataset == "" {
		cfg.Dataset = domain.DatasetPortfolio
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.MockRecordCount <= 0 {
		cfg.MockRecordCount = 50
	}

	return &Service{
		client:    client,
		repo:      repo,
		snapshots: snapshots,
		runs:      runs,
		cfg:       cfg,
		log:       log.With().Str("service", "ingest").Str("dataset", string(cfg.Dataset)).Logger(),
	}
}

// Dataset reports which dataset this service syncs
func (s *Service) Dataset() domain.Dataset {
	return s.cfg.Dataset
}

// Sync runs one synchronization cycle and returns its SyncRun metadata.
//
// A live-path failure is swallowed and downgraded to fallback data, never
// propagated: the read path must stay available while the upstream is down.
// The only loud failure is neither path producing a single usable record,
// which indicates a defect rather than an outage.
func (s *Service) Sync(ctx context.Context) (domain.SyncRun, error) {
	if !s.mu.TryLock() {
		return domain.SyncRun{}, domain.ErrSyncInProgress
	}
	defer s.mu.Unlock()

	started := time.Now().UTC()
	source := domain.SourceLive

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	raws, err := s.client.Fetch(fetchCtx)
	cancel()
	if err != nil {
		if !errors.Is(err, domain.ErrUnavailable) {
			// Unexpected failure shape; treated the same but worth a louder log
			s.log.Error().Err(err).Msg("Source client failed outside the unavailable taxonomy")
		} else {
			s.log.Warn().Err(err).Msg("Live source unavailable, using fallback data")
		}
		source = domain.SourceFallback
		raws = GenerateMockRecords(s.cfg.MockRecordCount, s.cfg.MockSeed)
	}

	recs, skipped := NormalizeBatch(raws)
	if skipped > 0 {
		s.log.Warn().Int("skipped", skipped).Msg("Skipped malformed records during normalization")
	}

	// A live payload that normalizes to nothing is as useless as an outage;
	// fall back before giving up. Loud failure is reserved for neither path
	// producing a single record.
	if len(recs) == 0 && source == domain.SourceLive {
		s.log.Warn().
			Int("raw", len(raws)).
			Int("skipped", skipped).
			Msg("Live payload yielded no usable records, using fallback data")
		source = domain.SourceFallback
		raws = GenerateMockRecords(s.cfg.MockRecordCount, s.cfg.MockSeed)
		recs, skipped = NormalizeBatch(raws)
	}

	run := domain.SyncRun{
		ID:           uuid.NewString(),
		Timestamp:    started,
		Dataset:      s.cfg.Dataset,
		Source:       source,
		RecordCount:  len(recs),
		SkippedCount: skipped,
	}

	if len(recs) == 0 {
		s.recordRun(run)
		return run, fmt.Errorf("%w (source=%s, raw=%d, skipped=%d)", domain.ErrEmptySync, source, len(raws), skipped)
	}

	if err := s.repo.ReplaceAll(recs); err != nil {
		s.recordRun(run)
		return run, fmt.Errorf("failed to replace local store: %w", err)
	}

	// Publish only after the durable copy is consistent; readers observe
	// either the full pre-sync or the full post-sync snapshot.
	s.snapshots.Swap(recs)

	run.Success = true
	s.recordRun(run)

	s.log.Info().
		Str("source", string(source)).
		Int("records", run.RecordCount).
		Int("skipped", run.SkippedCount).
		Dur("took", time.Since(started)).
		Msg("Sync completed")

	return run, nil
}

// recordRun appends the run to the audit trail. A logging failure here must
// not fail a sync whose data is already consistent.
func (s *Service) recordRun(run domain.SyncRun) {
	if err := s.runs.Append(run); err != nil {
		s.log.Error().Err(err).Str("run_id", run.ID).Msg("Failed to record sync run")
	}
}

// Bootstrap primes the read snapshot at startup. If the durable store
// already holds records they are loaded as-is; otherwise a first sync runs
// so the dashboard never serves from an empty snapshot.
func (s *Service) Bootstrap(ctx context.Context) error {
	recs, err := s.repo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load stored records: %w", err)
	}

	if len(recs) > 0 {
		s.snapshots.Swap(recs)
		s.log.Info().Int("records", len(recs)).Msg("Snapshot restored from local store")
		return nil
	}

	_, err = s.Sync(ctx)
	return err
}
