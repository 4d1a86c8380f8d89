package records

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE loan_records (
			dataset TEXT NOT NULL,
			id TEXT NOT NULL,
			application_date TEXT NOT NULL,
			sanction_amount REAL NOT NULL DEFAULT 0,
			disbursed_amount REAL NOT NULL DEFAULT 0,
			repayment_amount REAL NOT NULL DEFAULT 0,
			actual_repayment_amount REAL NOT NULL DEFAULT 0,
			penalty_amount REAL NOT NULL DEFAULT 0,
			collected_amount REAL NOT NULL DEFAULT 0,
			pending_amount REAL NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			dpd INTEGER NOT NULL DEFAULT 0,
			state TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			PRIMARY KEY (dataset, id)
		)
	`)
	require.NoError(t, err)

	return db
}

func testRecord(id string, day int) domain.LoanRecord {
	return domain.LoanRecord{
		ID:                    id,
		ApplicationDate:       time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		SanctionAmount:        50000,
		DisbursedAmount:       47500,
		RepaymentAmount:       55000,
		ActualRepaymentAmount: 30000,
		PenaltyAmount:         250.5,
		CollectedAmount:       30000,
		PendingAmount:         25000,
		Status:                domain.StatusActive,
		DPD:                   12,
		State:                 "Maharashtra",
		City:                  "Mumbai",
	}
}

func TestReplaceAll_RoundTrip(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := NewRepository(setupTestDB(t), domain.DatasetPortfolio, log)

	want := []domain.LoanRecord{
		testRecord("LN0001", 5),
		testRecord("LN0002", 7),
	}
	require.NoError(t, repo.ReplaceAll(want))

	got, err := repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestReplaceAll_DiscardsPrevious(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := NewRepository(setupTestDB(t), domain.DatasetPortfolio, log)

	require.NoError(t, repo.ReplaceAll([]domain.LoanRecord{
		testRecord("LN0001", 5),
		testRecord("LN0002", 7),
		testRecord("LN0003", 9),
	}))

	require.NoError(t, repo.ReplaceAll([]domain.LoanRecord{
		testRecord("LN0004", 11),
	}))

	got, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LN0004", got[0].ID)
}

func TestReplaceAll_EmptySetClears(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := NewRepository(setupTestDB(t), domain.DatasetPortfolio, log)

	require.NoError(t, repo.ReplaceAll([]domain.LoanRecord{testRecord("LN0001", 5)}))
	require.NoError(t, repo.ReplaceAll(nil))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestReplaceAll_DatasetIsolation(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	db := setupTestDB(t)
	portfolio := NewRepository(db, domain.DatasetPortfolio, log)
	fraud := NewRepository(db, domain.DatasetFraud, log)

	require.NoError(t, portfolio.ReplaceAll([]domain.LoanRecord{
		testRecord("LN0001", 5),
		testRecord("LN0002", 7),
	}))
	// Same loan id may appear in both feeds
	require.NoError(t, fraud.ReplaceAll([]domain.LoanRecord{
		testRecord("LN0001", 5),
	}))

	// A fraud replace must not touch portfolio rows
	require.NoError(t, fraud.ReplaceAll(nil))

	got, err := portfolio.GetAll()
	require.NoError(t, err)
	assert.Len(t, got, 2)

	count, err := fraud.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGetAll_OrderedByID(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := NewRepository(setupTestDB(t), domain.DatasetPortfolio, log)

	require.NoError(t, repo.ReplaceAll([]domain.LoanRecord{
		testRecord("LN0003", 1),
		testRecord("LN0001", 2),
		testRecord("LN0002", 3),
	}))

	got, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "LN0001", got[0].ID)
	assert.Equal(t, "LN0002", got[1].ID)
	assert.Equal(t, "LN0003", got[2].ID)
}
