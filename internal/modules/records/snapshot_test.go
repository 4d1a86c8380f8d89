package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

func TestSnapshotStore_StartsEmpty(t *testing.T) {
	store := NewSnapshotStore()

	snap := store.Load()
	require.NotNil(t, snap, "Load must never return nil, even before the first sync")
	assert.Empty(t, snap.Records)
	assert.True(t, store.Empty())
}

func TestSnapshotStore_Swap(t *testing.T) {
	store := NewSnapshotStore()

	recs := []domain.LoanRecord{{ID: "A"}, {ID: "B"}}
	store.Swap(recs)

	snap := store.Load()
	require.Len(t, snap.Records, 2)
	assert.False(t, store.Empty())
	assert.False(t, snap.TakenAt.IsZero())
}

func TestSnapshotStore_SwapCopiesInput(t *testing.T) {
	store := NewSnapshotStore()

	recs := []domain.LoanRecord{{ID: "A"}}
	store.Swap(recs)

	// Mutating the caller's slice must not leak into published snapshots
	recs[0].ID = "MUTATED"
	assert.Equal(t, "A", store.Load().Records[0].ID)
}

func TestSnapshotStore_OldSnapshotSurvivesSwap(t *testing.T) {
	store := NewSnapshotStore()

	store.Swap([]domain.LoanRecord{{ID: "A"}})
	held := store.Load()

	store.Swap([]domain.LoanRecord{{ID: "B"}, {ID: "C"}})

	// A reader holding the old snapshot keeps seeing its complete record set
	require.Len(t, held.Records, 1)
	assert.Equal(t, "A", held.Records[0].ID)
	assert.Len(t, store.Load().Records, 2)
}
