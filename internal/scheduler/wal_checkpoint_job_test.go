package scheduler

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/database"
)

func openCheckpointTestDB(t *testing.T, name string) *database.DB {
	t.Helper()
	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: database.ProfileStandard,
		Name:    name,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWALCheckpointJob(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	portfolioDB := openCheckpointTestDB(t, "portfolio")
	ledgerDB := openCheckpointTestDB(t, "ledger")

	// Generate some WAL traffic first
	_, err := portfolioDB.Conn().Exec("CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err = portfolioDB.Conn().Exec("INSERT INTO t (v) VALUES ('x')")
		require.NoError(t, err)
	}

	job := NewWALCheckpointJob(portfolioDB, ledgerDB, log)
	assert.Equal(t, "wal_checkpoint", job.Name())
	assert.NoError(t, job.Run())
}

func TestWALCheckpointJob_NilDatabaseSkipped(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	job := NewWALCheckpointJob(openCheckpointTestDB(t, "portfolio"), nil, log)
	assert.NoError(t, job.Run())
}
