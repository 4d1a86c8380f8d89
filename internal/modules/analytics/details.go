package analytics

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

const (
	detailDefaultPerPage = 20
	detailMaxPerPage     = 100
)

// DetailQuery carries the record-level listing parameters: free-text search
// over loan ids, a sort key, and pagination. Zero values select the
// defaults (application_date descending, page 1, 20 per page).
type DetailQuery struct {
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

// DetailQueryFromURL extracts a DetailQuery from URL query values.
// Malformed numbers fall back to the default rather than failing; page
// bounds are reconciled against the matched set later.
func DetailQueryFromURL(q url.Values) DetailQuery {
	dq := DetailQuery{
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    strings.ToLower(strings.TrimSpace(q.Get("sort_by"))),
		SortOrder: strings.ToLower(strings.TrimSpace(q.Get("sort_order"))),
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		dq.Page = v
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil {
		dq.PerPage = v
	}
	return dq
}

// detailSortKeys maps the accepted sort_by values onto record accessors.
// Unknown keys sort by application date.
var detailSortKeys = map[string]func(domain.LoanRecord) float64{
	"sanction_amount":  func(r domain.LoanRecord) float64 { return r.SanctionAmount },
	"disbursed_amount": func(r domain.LoanRecord) float64 { return r.DisbursedAmount },
	"repayment_amount": func(r domain.LoanRecord) float64 { return r.RepaymentAmount },
	"collected_amount": func(r domain.LoanRecord) float64 { return r.CollectedAmount },
	"pending_amount":   func(r domain.LoanRecord) float64 { return r.PendingAmount },
	"dpd":              func(r domain.LoanRecord) float64 { return float64(r.DPD) },
}

// Details returns one page of the records matching the criteria, with the
// monetary totals of the whole matched set. Search narrows by loan id
// substring (case-insensitive). A page past the end resets to page 1, so a
// stale pager link degrades instead of erroring.
func (s *Service) Details(c Criteria, q DetailQuery) DetailResult {
	recs := s.matched(c)

	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		filtered := make([]domain.LoanRecord, 0, len(recs))
		for _, rec := range recs {
			if strings.Contains(strings.ToLower(rec.ID), needle) {
				filtered = append(filtered, rec)
			}
		}
		recs = filtered
	}

	sortDetails(recs, q.SortBy, q.SortOrder != "asc")

	var disbursed, repayment, collected, pending decimal.Decimal
	for _, rec := range recs {
		disbursed = disbursed.Add(decimal.NewFromFloat(rec.DisbursedAmount))
		repayment = repayment.Add(decimal.NewFromFloat(rec.RepaymentAmount))
		collected = collected.Add(decimal.NewFromFloat(rec.CollectedAmount))
		pending = pending.Add(decimal.NewFromFloat(rec.PendingAmount))
	}
	totals := DetailTotals{
		DisbursedAmount: disbursed.Round(2).InexactFloat64(),
		RepaymentAmount: repayment.Round(2).InexactFloat64(),
		CollectedAmount: collected.Round(2).InexactFloat64(),
		PendingAmount:   pending.Round(2).InexactFloat64(),
	}

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = detailDefaultPerPage
	}
	if perPage > detailMaxPerPage {
		perPage = detailMaxPerPage
	}

	totalPages := (len(recs) + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	page := q.Page
	if page < 1 || page > totalPages {
		page = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(recs) {
		start = len(recs)
	}
	if end > len(recs) {
		end = len(recs)
	}

	pageRecs := recs[start:end]
	if pageRecs == nil {
		pageRecs = []domain.LoanRecord{}
	}

	return DetailResult{
		Records: pageRecs,
		Pagination: Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalRecords: len(recs),
			PerPage:      perPage,
			HasNext:      page < totalPages,
			HasPrevious:  page > 1,
		},
		Totals: totals,
	}
}

// sortDetails orders records by the requested key. Ties (and the default
// application_date key) break by id so pages are stable across requests.
func sortDetails(recs []domain.LoanRecord, key string, desc bool) {
	if accessor, ok := detailSortKeys[key]; ok {
		sort.Slice(recs, func(i, j int) bool {
			vi, vj := accessor(recs[i]), accessor(recs[j])
			if vi != vj {
				if desc {
					return vi > vj
				}
				return vi < vj
			}
			return recs[i].ID < recs[j].ID
		})
		return
	}

	sort.Slice(recs, func(i, j int) bool {
		ti, tj := recs[i].ApplicationDate, recs[j].ApplicationDate
		if !ti.Equal(tj) {
			if desc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		}
		return recs[i].ID < recs[j].ID
	})
}
