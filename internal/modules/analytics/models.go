// Package analytics computes the dashboard's derived metrics: KPI totals,
// DPD bucket distributions, geographic breakdowns and time series, all as
// pure functions over the current portfolio snapshot.
package analytics

import (
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

// KPITotals holds the summed monetary fields and derived rates over a
// matched subset of the portfolio
type KPITotals struct {
	TotalApplications     int     `json:"total_applications"`
	SanctionAmount        float64 `json:"sanction_amount"`
	DisbursedAmount       float64 `json:"disbursed_amount"`
	RepaymentAmount       float64 `json:"repayment_amount"`
	ActualRepaymentAmount float64 `json:"actual_repayment_amount"`
	PenaltyAmount         float64 `json:"penalty_amount"`
	CollectedAmount       float64 `json:"collected_amount"`
	PendingAmount         float64 `json:"pending_amount"`

	// CollectionRate is collected/repayment in [0,1]; 0 when nothing is
	// due. PendingRate is its exact complement.
	CollectionRate float64 `json:"collection_rate"`
	PendingRate    float64 `json:"pending_rate"`

	AvgTicketSize float64 `json:"avg_ticket_size"`
	AvgDPD        float64 `json:"avg_dpd"`
}

// BucketStat is one entry of the DPD distribution. All four buckets are
// always emitted, zero-count ones included.
type BucketStat struct {
	Bucket     domain.DPDBucket `json:"bucket"`
	Count      int              `json:"count"`
	Percentage float64          `json:"percentage"`
}

// StateRepayment is the repayment sum for one state
type StateRepayment struct {
	State  string  `json:"state"`
	Amount float64 `json:"amount"`
}

// TimePoint is one populated day of the repayment time series
type TimePoint struct {
	Date            string  `json:"date"` // YYYY-MM-DD
	RepaymentAmount float64 `json:"repayment_amount"`
	CollectedAmount float64 `json:"collected_amount"`
	CollectionRate  float64 `json:"collection_rate"`
}

// CityStat is one city's collection performance entry
type CityStat struct {
	City                 string  `json:"city"`
	CollectedAmount      float64 `json:"collected_amount"`
	RepaymentAmount      float64 `json:"repayment_amount"`
	UncollectedAmount    float64 `json:"uncollected_amount"`
	CollectionPercentage float64 `json:"collection_percentage"`
	TotalApplications    int     `json:"total_applications"`
}

// AggregateResult is the stable schema handed to the presentation layer
type AggregateResult struct {
	KPIs            KPITotals        `json:"kpis"`
	DPDDistribution []BucketStat     `json:"dpd_distribution"`
	StateRepayments []StateRepayment `json:"state_repayments"`
	TimeSeries      []TimePoint      `json:"time_series"`
}

// Pagination describes one page of a detail listing
type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	TotalRecords int  `json:"total_records"`
	PerPage      int  `json:"per_page"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
}

// DetailTotals holds the monetary sums over a full matched detail set,
// computed before pagination so they do not change page to page
type DetailTotals struct {
	DisbursedAmount float64 `json:"disbursed_amount"`
	RepaymentAmount float64 `json:"repayment_amount"`
	CollectedAmount float64 `json:"collected_amount"`
	PendingAmount   float64 `json:"pending_amount"`
}

// DetailResult is one page of record-level drill-down output
type DetailResult struct {
	Records    []domain.LoanRecord `json:"records"`
	Pagination Pagination          `json:"pagination"`
	Totals     DetailTotals        `json:"totals"`
}

// FilterOptions lists the distinct values available for filter dropdowns
type FilterOptions struct {
	States   []string            `json:"states"`
	Cities   []string            `json:"cities"`
	Statuses []domain.LoanStatus `json:"statuses"`
	Buckets  []domain.DPDBucket  `json:"dpd_buckets"`
}
