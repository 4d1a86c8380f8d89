// Package domain provides core domain models and types.
package domain

import (
	"strings"
	"time"
)

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	StatusActive LoanStatus = "Active"
	StatusClosed LoanStatus = "Closed"
)

// Valid reports whether the status is one of the known enum values
func (s LoanStatus) Valid() bool {
	return s == StatusActive || s == StatusClosed
}

// ParseLoanStatus resolves a caller-supplied status string, case-insensitively
func ParseLoanStatus(raw string) (LoanStatus, error) {
	switch {
	case strings.EqualFold(raw, string(StatusActive)):
		return StatusActive, nil
	case strings.EqualFold(raw, string(StatusClosed)):
		return StatusClosed, nil
	default:
		return "", &EnumError{Field: "status", Value: raw}
	}
}

// DPDBucket is the delinquency bucket derived from days-past-due.
// It is computed at query time, never stored.
type DPDBucket string

const (
	Bucket0To30  DPDBucket = "0-30"
	Bucket31To60 DPDBucket = "31-60"
	Bucket61To90 DPDBucket = "61-90"
	Bucket90Plus DPDBucket = "90+"
)

// AllBuckets lists every bucket in display order. Distribution output must
// include all of them, even when a bucket holds zero records.
var AllBuckets = []DPDBucket{Bucket0To30, Bucket31To60, Bucket61To90, Bucket90Plus}

// BucketForDPD maps days-past-due onto its bucket
func BucketForDPD(dpd int) DPDBucket {
	switch {
	case dpd <= 30:
		return Bucket0To30
	case dpd <= 60:
		return Bucket31To60
	case dpd <= 90:
		return Bucket61To90
	default:
		return Bucket90Plus
	}
}

// ParseDPDBucket resolves a caller-supplied bucket label
func ParseDPDBucket(raw string) (DPDBucket, error) {
	for _, b := range AllBuckets {
		if strings.EqualFold(raw, string(b)) {
			return b, nil
		}
	}
	return "", &EnumError{Field: "dpd_bucket", Value: raw}
}

// LoanRecord is the canonical normalized loan/collection entry.
// Every downstream component operates on this shape only, never on raw
// upstream payloads. Records are created by the sync cycle and never
// mutated by read paths.
type LoanRecord struct {
	ID                    string     `json:"id"`
	ApplicationDate       time.Time  `json:"application_date"`
	SanctionAmount        float64    `json:"sanction_amount"`
	DisbursedAmount       float64    `json:"disbursed_amount"`
	RepaymentAmount       float64    `json:"repayment_amount"`
	ActualRepaymentAmount float64    `json:"actual_repayment_amount"`
	PenaltyAmount         float64    `json:"penalty_amount"`
	CollectedAmount       float64    `json:"collected_amount"`
	PendingAmount         float64    `json:"pending_amount"`
	Status                LoanStatus `json:"status"`
	DPD                   int        `json:"dpd"`
	State                 string     `json:"state"`
	City                  string     `json:"city"`
}

// Bucket returns the record's derived delinquency bucket
func (r LoanRecord) Bucket() DPDBucket {
	return BucketForDPD(r.DPD)
}

// SyncSource identifies where a sync cycle's data came from
type SyncSource string

const (
	SourceLive     SyncSource = "live"
	SourceFallback SyncSource = "fallback"
)

// Dataset identifies which of the two upstream portfolios a record or sync
// run belongs to: the full portfolio, or the fraud-screened feed backing
// the fraud summary dashboard.
type Dataset string

const (
	DatasetPortfolio Dataset = "portfolio"
	DatasetFraud     Dataset = "fraud"
)

// SyncRun is the metadata of one synchronization attempt. One row is
// appended per sync invocation; rows are read-only after creation.
type SyncRun struct {
	ID           string     `json:"id"`
	Timestamp    time.Time  `json:"timestamp"`
	Dataset      Dataset    `json:"dataset"`
	Source       SyncSource `json:"source"`
	RecordCount  int        `json:"record_count"`
	SkippedCount int        `json:"skipped_count"`
	Success      bool       `json:"success"`
}

// RawRecord is one loosely-typed upstream record, exactly as decoded from
// the source payload. Only the normalizer may touch this shape.
type RawRecord map[string]any
