package ingest

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

// Demo geography, taken from the live portfolio's footprint
var mockLocations = []struct {
	state string
	city  string
}{
	{"Maharashtra", "Mumbai"},
	{"Karnataka", "Bangalore"},
	{"Tamil Nadu", "Chennai"},
	{"Gujarat", "Ahmedabad"},
	{"Maharashtra", "Pune"},
	{"Delhi", "New Delhi"},
	{"Telangana", "Hyderabad"},
	{"Rajasthan", "Jaipur"},
}

// Two dpd values per bucket, cycled over active records so every bucket is
// populated even for small counts. Closed loans always carry dpd 0, so the
// cycle advances on active records only; stepping it by record index would
// let the closed-status parity starve whole buckets.
var mockDPDCycle = []int{0, 45, 75, 120, 15, 52, 88, 95}

// GenerateMockRecords produces a deterministic synthetic dataset in the raw
// upstream schema. The same (count, seed) pair always yields an identical
// record set, which keeps tests reproducible and demo data stable. The
// generator is pure: it never fails.
func GenerateMockRecords(count int, seed int64) []domain.RawRecord {
	rnd := rand.New(rand.NewSource(seed))
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	raws := make([]domain.RawRecord, 0, count)
	active := 0
	for i := 0; i < count; i++ {
		loc := mockLocations[i%len(mockLocations)]

		sanction := round2(10000 + rnd.Float64()*90000)
		disbursed := round2(sanction * 0.95)
		repayment := round2(sanction * 1.1)
		collected := round2(repayment * rnd.Float64())
		pending := round2(repayment - collected)

		// Both statuses must appear; closed loans carry no delinquency and
		// are fully collected
		status := domain.StatusActive
		dpd := 0
		if i%2 == 1 {
			status = domain.StatusClosed
			collected = repayment
			pending = 0
		} else {
			dpd = mockDPDCycle[active%len(mockDPDCycle)]
			active++
		}

		var penalty float64
		if dpd > 0 {
			penalty = round2(repayment * 0.02 * float64(dpd) / 30)
		}

		raws = append(raws, domain.RawRecord{
			"loan_no":          fmt.Sprintf("LN%04d", i+1),
			"lead_no":          fmt.Sprintf("LD%04d", i+1),
			"sanction_date":    base.AddDate(0, 0, i%90).Format("2006-01-02"),
			"loan_amount":      sanction,
			"net_disbursal":    disbursed,
			"repayment_amount": repayment,
			"total_received":   collected,
			"outstanding":      pending,
			"penalty_amount":   penalty,
			"overdue_days":     dpd,
			"closed_status":    string(status),
			"state":            loc.state,
			"city":             loc.city,
		})
	}

	return raws
}
