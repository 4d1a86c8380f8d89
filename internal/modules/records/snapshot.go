package records

import (
	"sync/atomic"
	"time"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

// Snapshot is an immutable point-in-time copy of the loan portfolio.
// Readers must treat the Records slice as read-only; the store hands the
// same backing array to every concurrent reader.
type Snapshot struct {
	Records []domain.LoanRecord
	TakenAt time.Time
}

// SnapshotStore holds the current snapshot behind an atomic pointer.
// Aggregation reads Load() and sees either the complete pre-sync set or the
// complete post-sync set, never a partially replaced one. Lock-free on the
// read path; the sync orchestrator is the single writer.
type SnapshotStore struct {
	current atomic.Pointer[Snapshot]
}

// NewSnapshotStore creates a store primed with an empty snapshot
func NewSnapshotStore() *SnapshotStore {
	s := &SnapshotStore{}
	s.current.Store(&Snapshot{TakenAt: time.Now()})
	return s
}

// Load returns the current snapshot
func (s *SnapshotStore) Load() *Snapshot {
	return s.current.Load()
}

// Swap atomically publishes a new snapshot built from recs.
// The slice is copied so later mutation by the caller cannot leak into
// readers holding the published snapshot.
func (s *SnapshotStore) Swap(recs []domain.LoanRecord) *Snapshot {
	copied := make([]domain.LoanRecord, len(recs))
	copy(copied, recs)

	snap := &Snapshot{
		Records: copied,
		TakenAt: time.Now(),
	}
	s.current.Store(snap)
	return snap
}

// Empty reports whether the current snapshot holds no records
func (s *SnapshotStore) Empty() bool {
	return len(s.current.Load().Records) == 0
}
