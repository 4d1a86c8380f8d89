package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

func TestNormalizeRecord_CanonicalKeys(t *testing.T) {
	raw := domain.RawRecord{
		"id":                      "LN0001",
		"application_date":        "2024-03-15",
		"sanction_amount":         50000.0,
		"disbursed_amount":        47500.0,
		"repayment_amount":        55000.0,
		"actual_repayment_amount": 30000.0,
		"penalty_amount":          500.0,
		"collected_amount":        30000.0,
		"pending_amount":          25000.0,
		"status":                  "Active",
		"dpd":                     45.0,
		"state":                   "Maharashtra",
		"city":                    "Mumbai",
	}

	rec, err := NormalizeRecord(raw)
	require.NoError(t, err)

	assert.Equal(t, "LN0001", rec.ID)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), rec.ApplicationDate)
	assert.Equal(t, 50000.0, rec.SanctionAmount)
	assert.Equal(t, 47500.0, rec.DisbursedAmount)
	assert.Equal(t, 55000.0, rec.RepaymentAmount)
	assert.Equal(t, 30000.0, rec.CollectedAmount)
	assert.Equal(t, 25000.0, rec.PendingAmount)
	assert.Equal(t, domain.StatusActive, rec.Status)
	assert.Equal(t, 45, rec.DPD)
	assert.Equal(t, "Maharashtra", rec.State)
	assert.Equal(t, "Mumbai", rec.City)
}

// The collection API still ships the legacy field names
func TestNormalizeRecord_LegacyAliases(t *testing.T) {
	raw := domain.RawRecord{
		"loan_no":        "LN0042",
		"sanction_date":  "2024-02-01T00:00:00Z",
		"loan_amount":    "25000.555",
		"net_disbursal":  23750.0,
		"total_received": 10000.0,
		"outstanding":    17500.0,
		"penalty":        0.0,
		"overdue_days":   "12",
		"closed_status":  "active",
		"state":          "Karnataka",
		"city":           "Bangalore",
	}

	rec, err := NormalizeRecord(raw)
	require.NoError(t, err)

	assert.Equal(t, "LN0042", rec.ID)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), rec.ApplicationDate)
	assert.Equal(t, 25000.56, rec.SanctionAmount, "monetary fields round to 2 decimals")
	assert.Equal(t, 23750.0, rec.DisbursedAmount)
	assert.Equal(t, 10000.0, rec.ActualRepaymentAmount)
	assert.Equal(t, 10000.0, rec.CollectedAmount)
	assert.Equal(t, 17500.0, rec.PendingAmount)
	assert.Equal(t, 12, rec.DPD)
	assert.Equal(t, domain.StatusActive, rec.Status)
}

func TestNormalizeRecord_Defaults(t *testing.T) {
	// Only id and date present: every monetary field defaults to 0 and the
	// status defaults to Active
	raw := domain.RawRecord{
		"id":               "LN0007",
		"application_date": "2024-01-10",
	}

	rec, err := NormalizeRecord(raw)
	require.NoError(t, err)

	assert.Equal(t, 0.0, rec.SanctionAmount)
	assert.Equal(t, 0.0, rec.PenaltyAmount)
	assert.Equal(t, 0.0, rec.PendingAmount)
	assert.Equal(t, 0, rec.DPD)
	assert.Equal(t, domain.StatusActive, rec.Status)
}

func TestNormalizeRecord_NullSpellings(t *testing.T) {
	raw := domain.RawRecord{
		"id":               "LN0008",
		"application_date": "2024-01-10",
		"penalty_amount":   "NaN",
		"collected_amount": nil,
		"sanction_amount":  "null",
	}

	rec, err := NormalizeRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.PenaltyAmount)
	assert.Equal(t, 0.0, rec.CollectedAmount)
	assert.Equal(t, 0.0, rec.SanctionAmount)
}

func TestNormalizeRecord_DerivesPending(t *testing.T) {
	raw := domain.RawRecord{
		"id":               "LN0009",
		"application_date": "2024-01-10",
		"repayment_amount": 1000.0,
		"collected_amount": 300.0,
	}

	rec, err := NormalizeRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, 700.0, rec.PendingAmount)
}

func TestNormalizeRecord_Malformed(t *testing.T) {
	base := func() domain.RawRecord {
		return domain.RawRecord{
			"id":               "LN0010",
			"application_date": "2024-01-10",
		}
	}

	testCases := []struct {
		name   string
		mutate func(domain.RawRecord)
		field  string
	}{
		{"missing id", func(r domain.RawRecord) { delete(r, "id") }, "id"},
		{"empty id", func(r domain.RawRecord) { r["id"] = "  " }, "id"},
		{"missing date", func(r domain.RawRecord) { delete(r, "application_date") }, "application_date"},
		{"garbage date", func(r domain.RawRecord) { r["application_date"] = "not-a-date" }, "application_date"},
		{"garbage amount", func(r domain.RawRecord) { r["sanction_amount"] = "lots" }, "sanction_amount"},
		{"negative dpd", func(r domain.RawRecord) { r["dpd"] = -3.0 }, "dpd"},
		{"unknown status", func(r domain.RawRecord) { r["status"] = "defaulted" }, "status"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := base()
			tc.mutate(raw)

			_, err := NormalizeRecord(raw)
			require.Error(t, err)
			require.True(t, domain.IsMalformed(err))

			var malformed *domain.MalformedRecordError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tc.field, malformed.Field)
		})
	}
}

func TestNormalizeBatch_SkipsMalformed(t *testing.T) {
	raws := []domain.RawRecord{
		{"id": "A", "application_date": "2024-01-01"},
		{"id": "", "application_date": "2024-01-02"},
		{"id": "B", "application_date": "garbage"},
		{"id": "C", "application_date": "2024-01-03"},
	}

	recs, skipped := NormalizeBatch(raws)
	assert.Equal(t, 2, skipped)
	require.Len(t, recs, 2)
	assert.Equal(t, "A", recs[0].ID)
	assert.Equal(t, "C", recs[1].ID)
}

func TestNormalizeBatch_DedupeLastWriteWins(t *testing.T) {
	raws := []domain.RawRecord{
		{"id": "A", "application_date": "2024-01-01", "sanction_amount": 100.0},
		{"id": "B", "application_date": "2024-01-02"},
		{"id": "A", "application_date": "2024-01-01", "sanction_amount": 999.0},
	}

	recs, skipped := NormalizeBatch(raws)
	assert.Equal(t, 0, skipped)
	require.Len(t, recs, 2)

	// The duplicate's later values win, but it keeps its first position
	assert.Equal(t, "A", recs[0].ID)
	assert.Equal(t, 999.0, recs[0].SanctionAmount)
	assert.Equal(t, "B", recs[1].ID)
}
