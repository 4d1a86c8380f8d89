package analytics

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

func detailFixture(n int) []domain.LoanRecord {
	recs := make([]domain.LoanRecord, 0, n)
	for i := 1; i <= n; i++ {
		recs = append(recs, domain.LoanRecord{
			ID:              fmt.Sprintf("LN%04d", i),
			ApplicationDate: day(i%28 + 1),
			DisbursedAmount: float64(i) * 100,
			RepaymentAmount: float64(i) * 110,
			CollectedAmount: float64(i) * 50,
			PendingAmount:   float64(i) * 60,
			Status:          domain.StatusActive,
			DPD:             i % 40,
		})
	}
	return recs
}

func TestDetails_DefaultPagination(t *testing.T) {
	svc := newTestAnalytics(t, detailFixture(45))

	res := svc.Details(Criteria{}, DetailQuery{})
	assert.Len(t, res.Records, 20)
	assert.Equal(t, 1, res.Pagination.CurrentPage)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.Equal(t, 45, res.Pagination.TotalRecords)
	assert.Equal(t, 20, res.Pagination.PerPage)
	assert.True(t, res.Pagination.HasNext)
	assert.False(t, res.Pagination.HasPrevious)
}

func TestDetails_LastPageAndOverflow(t *testing.T) {
	svc := newTestAnalytics(t, detailFixture(45))

	res := svc.Details(Criteria{}, DetailQuery{Page: 3})
	assert.Len(t, res.Records, 5)
	assert.False(t, res.Pagination.HasNext)
	assert.True(t, res.Pagination.HasPrevious)

	// A page past the end resets to page 1 instead of erroring
	res = svc.Details(Criteria{}, DetailQuery{Page: 99})
	assert.Equal(t, 1, res.Pagination.CurrentPage)
	assert.Len(t, res.Records, 20)
}

func TestDetails_TotalsCoverWholeMatchedSet(t *testing.T) {
	svc := newTestAnalytics(t, []domain.LoanRecord{
		{ID: "A", ApplicationDate: day(1), DisbursedAmount: 100, RepaymentAmount: 110, CollectedAmount: 60, PendingAmount: 50},
		{ID: "B", ApplicationDate: day(2), DisbursedAmount: 200, RepaymentAmount: 220, CollectedAmount: 120, PendingAmount: 100},
		{ID: "C", ApplicationDate: day(3), DisbursedAmount: 300, RepaymentAmount: 330, CollectedAmount: 180, PendingAmount: 150},
	})

	// One record per page: totals must still cover all three
	res := svc.Details(Criteria{}, DetailQuery{PerPage: 1, Page: 2})
	require.Len(t, res.Records, 1)
	assert.Equal(t, 600.0, res.Totals.DisbursedAmount)
	assert.Equal(t, 660.0, res.Totals.RepaymentAmount)
	assert.Equal(t, 360.0, res.Totals.CollectedAmount)
	assert.Equal(t, 300.0, res.Totals.PendingAmount)
}

func TestDetails_SearchNarrowsByID(t *testing.T) {
	svc := newTestAnalytics(t, detailFixture(30))

	// Case-insensitive substring: "ln001" matches LN0010..LN0019
	res := svc.Details(Criteria{}, DetailQuery{Search: "ln001"})
	assert.Equal(t, 10, res.Pagination.TotalRecords)
	for _, rec := range res.Records {
		assert.Contains(t, rec.ID, "LN001")
	}

	res = svc.Details(Criteria{}, DetailQuery{Search: "no-such-loan"})
	assert.Equal(t, 0, res.Pagination.TotalRecords)
	assert.NotNil(t, res.Records)
	assert.Empty(t, res.Records)
}

func TestDetails_SortOrder(t *testing.T) {
	svc := newTestAnalytics(t, detailFixture(10))

	res := svc.Details(Criteria{}, DetailQuery{SortBy: "disbursed_amount"})
	require.Len(t, res.Records, 10)
	assert.Equal(t, "LN0010", res.Records[0].ID, "descending by default")

	res = svc.Details(Criteria{}, DetailQuery{SortBy: "disbursed_amount", SortOrder: "asc"})
	assert.Equal(t, "LN0001", res.Records[0].ID)
}

func TestDetails_BucketCriteriaApplies(t *testing.T) {
	svc := newTestAnalytics(t, []domain.LoanRecord{
		{ID: "A", ApplicationDate: day(1), DPD: 10},
		{ID: "B", ApplicationDate: day(2), DPD: 45},
		{ID: "C", ApplicationDate: day(3), DPD: 50},
	})

	bucket := domain.Bucket31To60
	res := svc.Details(Criteria{Bucket: &bucket}, DetailQuery{})
	assert.Equal(t, 2, res.Pagination.TotalRecords)
	for _, rec := range res.Records {
		assert.Equal(t, domain.Bucket31To60, rec.Bucket())
	}
}

func TestDetailQueryFromURL(t *testing.T) {
	q, err := url.ParseQuery("search=LN00&sort_by=DPD&sort_order=ASC&page=3&per_page=5")
	require.NoError(t, err)

	dq := DetailQueryFromURL(q)
	assert.Equal(t, "LN00", dq.Search)
	assert.Equal(t, "dpd", dq.SortBy)
	assert.Equal(t, "asc", dq.SortOrder)
	assert.Equal(t, 3, dq.Page)
	assert.Equal(t, 5, dq.PerPage)

	// Malformed numbers fall back to defaults
	q, err = url.ParseQuery("page=abc&per_page=")
	require.NoError(t, err)
	dq = DetailQueryFromURL(q)
	assert.Equal(t, 0, dq.Page)
	assert.Equal(t, 0, dq.PerPage)
}
