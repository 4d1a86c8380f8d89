// Package ingest implements the data synchronization pipeline: fetching the
// upstream payload (or generating fallback data), normalizing raw records
// into the canonical shape, and replacing the local store atomically.
package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

// Upstream key aliases. The collection API predates the canonical schema and
// still ships the old field names; both spellings are accepted.
var fieldAliases = map[string][]string{
	"id":                      {"id", "loan_no"},
	"application_date":        {"application_date", "sanction_date"},
	"sanction_amount":         {"sanction_amount", "loan_amount"},
	"disbursed_amount":        {"disbursed_amount", "net_disbursal"},
	"repayment_amount":        {"repayment_amount"},
	"actual_repayment_amount": {"actual_repayment_amount", "total_received"},
	"penalty_amount":          {"penalty_amount", "penalty"},
	"collected_amount":        {"collected_amount", "total_received"},
	"pending_amount":          {"pending_amount", "outstanding"},
	"status":                  {"status", "closed_status"},
	"dpd":                     {"dpd", "overdue_days"},
	"state":                   {"state"},
	"city":                    {"city"},
}

func lookup(raw domain.RawRecord, field string) (any, bool) {
	for _, key := range fieldAliases[field] {
		if v, ok := raw[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// round2 rounds a monetary value to 2 decimal places
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// coerceFloat converts a loosely-typed JSON value to float64.
// nil, empty strings and the usual null spellings coerce to 0; anything
// non-empty that fails to parse is a normalization error.
func coerceFloat(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		switch strings.ToLower(s) {
		case "nan", "null", "none":
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// coerceString converts a raw value to a trimmed string
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		// ids sometimes arrive as bare numbers
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// coerceDate parses an upstream date, tolerating RFC3339-ish suffixes
// ("2024-01-15T00:00:00Z" and friends) the way the source emits them.
func coerceDate(v any) (time.Time, error) {
	s := coerceString(v)
	if s == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	if idx := strings.IndexByte(s, 'T'); idx > 0 {
		s = s[:idx]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q", s)
	}
	return t, nil
}

// monetaryFields are the numeric fields that default to 0 when absent
var monetaryFields = []string{
	"sanction_amount",
	"disbursed_amount",
	"repayment_amount",
	"actual_repayment_amount",
	"penalty_amount",
	"collected_amount",
}

// NormalizeRecord maps one raw upstream record onto the canonical
// LoanRecord. It fails with a MalformedRecordError when the id is missing,
// a numeric field cannot be coerced, or the application date is absent or
// unparseable. Absent-but-coercible numerics default to 0 (a null penalty
// is 0, not an error). Monetary fields are rounded to 2 decimal places.
func NormalizeRecord(raw domain.RawRecord) (domain.LoanRecord, error) {
	var rec domain.LoanRecord

	idVal, ok := lookup(raw, "id")
	rec.ID = coerceString(idVal)
	if !ok || rec.ID == "" {
		return rec, &domain.MalformedRecordError{Field: "id", Reason: "missing"}
	}

	dateVal, _ := lookup(raw, "application_date")
	date, err := coerceDate(dateVal)
	if err != nil {
		return rec, &domain.MalformedRecordError{Field: "application_date", Reason: err.Error()}
	}
	rec.ApplicationDate = date

	money := make(map[string]float64, len(monetaryFields))
	for _, field := range monetaryFields {
		v, _ := lookup(raw, field)
		f, err := coerceFloat(v)
		if err != nil {
			return rec, &domain.MalformedRecordError{Field: field, Reason: err.Error()}
		}
		money[field] = round2(f)
	}
	rec.SanctionAmount = money["sanction_amount"]
	rec.DisbursedAmount = money["disbursed_amount"]
	rec.RepaymentAmount = money["repayment_amount"]
	rec.ActualRepaymentAmount = money["actual_repayment_amount"]
	rec.PenaltyAmount = money["penalty_amount"]
	rec.CollectedAmount = money["collected_amount"]

	// pending = repayment - collected when the source omits it, keeping the
	// collected + pending == repayment invariant intact either way.
	if v, ok := lookup(raw, "pending_amount"); ok {
		f, err := coerceFloat(v)
		if err != nil {
			return rec, &domain.MalformedRecordError{Field: "pending_amount", Reason: err.Error()}
		}
		rec.PendingAmount = round2(f)
	} else {
		rec.PendingAmount = round2(rec.RepaymentAmount - rec.CollectedAmount)
	}

	dpdVal, _ := lookup(raw, "dpd")
	dpdF, err := coerceFloat(dpdVal)
	if err != nil {
		return rec, &domain.MalformedRecordError{Field: "dpd", Reason: err.Error()}
	}
	if dpdF < 0 {
		return rec, &domain.MalformedRecordError{Field: "dpd", Reason: "negative days-past-due"}
	}
	rec.DPD = int(dpdF)

	statusVal, ok := lookup(raw, "status")
	statusStr := coerceString(statusVal)
	if !ok || statusStr == "" {
		rec.Status = domain.StatusActive
	} else {
		status, err := domain.ParseLoanStatus(statusStr)
		if err != nil {
			return rec, &domain.MalformedRecordError{Field: "status", Reason: fmt.Sprintf("unknown status %q", statusStr)}
		}
		rec.Status = status
	}

	stateVal, _ := lookup(raw, "state")
	rec.State = coerceString(stateVal)
	cityVal, _ := lookup(raw, "city")
	rec.City = coerceString(cityVal)

	return rec, nil
}

// NormalizeBatch normalizes a raw payload, skipping malformed records and
// deduplicating by id. Later records with the same id overwrite earlier
// ones (last write wins), holding the position of the first occurrence.
// Returns the normalized set and the number of skipped records.
func NormalizeBatch(raws []domain.RawRecord) ([]domain.LoanRecord, int) {
	recs := make([]domain.LoanRecord, 0, len(raws))
	index := make(map[string]int, len(raws))
	skipped := 0

	for _, raw := range raws {
		rec, err := NormalizeRecord(raw)
		if err != nil {
			skipped++
			continue
		}

		if pos, seen := index[rec.ID]; seen {
			recs[pos] = rec
			continue
		}

		index[rec.ID] = len(recs)
		recs = append(recs, rec)
	}

	return recs, skipped
}
