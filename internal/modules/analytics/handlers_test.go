package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/records"
)

// stubTrigger records whether a first-access sync was requested and
// publishes a snapshot when invoked
type stubTrigger struct {
	store  *records.SnapshotStore
	recs   []domain.LoanRecord
	err    error
	called int
}

func (s *stubTrigger) Sync(ctx context.Context) (domain.SyncRun, error) {
	s.called++
	if s.err != nil {
		return domain.SyncRun{}, s.err
	}
	s.store.Swap(s.recs)
	return domain.SyncRun{Source: domain.SourceLive, RecordCount: len(s.recs), Success: true}, nil
}

func newTestRouter(t *testing.T, store *records.SnapshotStore, trigger SyncTrigger) *chi.Mux {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(NewService(store, log), store, trigger, log)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return router
}

func get(t *testing.T, router *chi.Mux, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleKPIData(t *testing.T) {
	store := records.NewSnapshotStore()
	store.Swap([]domain.LoanRecord{
		{ID: "A", ApplicationDate: day(1), SanctionAmount: 10000, RepaymentAmount: 11000, CollectedAmount: 11000},
	})

	router := newTestRouter(t, store, nil)

	rec := get(t, router, "/api/kpi-data")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Data KPITotals `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Data.TotalApplications)
	assert.Equal(t, 10000.0, body.Data.SanctionAmount)
	assert.Equal(t, 1.0, body.Data.CollectionRate)
}

func TestHandleAggregate_BadFilters(t *testing.T) {
	router := newTestRouter(t, records.NewSnapshotStore(), nil)

	testCases := []struct {
		name string
		path string
	}{
		{"reversed range", "/api/aggregate?date_from=2024-06-01&date_to=2024-01-01"},
		{"bad date", "/api/aggregate?date_from=garbage"},
		{"bad status", "/api/kpi-data?status=defaulted"},
		{"bad bucket", "/api/dpd-buckets?dpd_bucket=0-100"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, router, tc.path)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestFirstAccessTriggersSync(t *testing.T) {
	store := records.NewSnapshotStore()
	trigger := &stubTrigger{
		store: store,
		recs: []domain.LoanRecord{
			{ID: "A", ApplicationDate: day(1), RepaymentAmount: 1000, CollectedAmount: 500},
		},
	}

	router := newTestRouter(t, store, trigger)

	rec := get(t, router, "/api/kpi-data")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, trigger.called, "empty snapshot must trigger a sync")

	var body struct {
		Data KPITotals `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Data.TotalApplications, "response reflects the freshly synced data")

	// Snapshot is populated now: no second sync
	get(t, router, "/api/kpi-data")
	assert.Equal(t, 1, trigger.called)
}

func TestFirstAccess_InFlightSyncIsNotAnError(t *testing.T) {
	store := records.NewSnapshotStore()
	trigger := &stubTrigger{store: store, err: domain.ErrSyncInProgress}

	router := newTestRouter(t, store, trigger)

	// The read serves the (empty) snapshot rather than failing
	rec := get(t, router, "/api/dpd-buckets")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []BucketStat `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 4)
}

func TestHandleDPDBucketDetails_RequiresBucket(t *testing.T) {
	router := newTestRouter(t, records.NewSnapshotStore(), nil)

	rec := get(t, router, "/api/dpd-buckets/details")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "dpd_bucket")
}

func TestHandleDPDBucketDetails(t *testing.T) {
	store := records.NewSnapshotStore()
	store.Swap([]domain.LoanRecord{
		{ID: "A", ApplicationDate: day(1), DPD: 10, RepaymentAmount: 100},
		{ID: "B", ApplicationDate: day(2), DPD: 45, RepaymentAmount: 200},
		{ID: "C", ApplicationDate: day(3), DPD: 50, RepaymentAmount: 300},
	})

	router := newTestRouter(t, store, nil)

	rec := get(t, router, "/api/dpd-buckets/details?dpd_bucket=31-60")
	require.Equal(t, http.StatusOK, rec.Code)

	var body DetailResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Pagination.TotalRecords)
	assert.Equal(t, 500.0, body.Totals.RepaymentAmount)
}

func TestHandleApplicationDetails_Paginates(t *testing.T) {
	store := records.NewSnapshotStore()
	store.Swap(detailFixture(25))

	router := newTestRouter(t, store, nil)

	rec := get(t, router, "/api/applications/details?per_page=10&page=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var body DetailResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Pagination.CurrentPage)
	assert.Len(t, body.Records, 5)
	assert.False(t, body.Pagination.HasNext)
}

func TestHandleCitiesByState_RequiresState(t *testing.T) {
	router := newTestRouter(t, records.NewSnapshotStore(), nil)

	rec := get(t, router, "/api/filters/cities")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, router, "/api/filters/cities?state=Maharashtra")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleFilterOptions(t *testing.T) {
	store := records.NewSnapshotStore()
	store.Swap([]domain.LoanRecord{
		{ID: "A", ApplicationDate: day(1), State: "Delhi", City: "New Delhi"},
	})

	router := newTestRouter(t, store, nil)

	rec := get(t, router, "/api/filters/options")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data FilterOptions `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Delhi"}, body.Data.States)
	assert.Len(t, body.Data.Buckets, 4)
}
