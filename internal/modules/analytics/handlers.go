package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/records"
)

// SyncTrigger starts a sync cycle; implemented by the ingest service
type SyncTrigger interface {
	Sync(ctx context.Context) (domain.SyncRun, error)
}

// Handler handles dashboard query HTTP requests
type Handler struct {
	service   *Service
	snapshots *records.SnapshotStore
	trigger   SyncTrigger
	log       zerolog.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service *Service, snapshots *records.SnapshotStore, trigger SyncTrigger, log zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		snapshots: snapshots,
		trigger:   trigger,
		log:       log.With().Str("handler", "analytics").Logger(),
	}
}

// ensureData triggers a sync when the snapshot is still empty so the first
// dashboard access never renders a blank portfolio. A sync already running
// is fine: it will publish the snapshot momentarily.
func (h *Handler) ensureData(ctx context.Context) {
	if h.trigger == nil || !h.snapshots.Empty() {
		return
	}
	if _, err := h.trigger.Sync(ctx); err != nil && !errors.Is(err, domain.ErrSyncInProgress) {
		h.log.Error().Err(err).Msg("First-access sync failed")
	}
}

// criteria builds validated criteria from the request, writing the
// rejection and returning ok=false when the input is malformed
func (h *Handler) criteria(w http.ResponseWriter, r *http.Request) (Criteria, bool) {
	c, err := BuildCriteria(ParamsFromQuery(r.URL.Query()))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return Criteria{}, false
	}
	return c, true
}

// HandleAggregate returns the full aggregate result for one filter selection
func (h *Handler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	h.ensureData(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": h.service.Aggregate(c)})
}

// HandleKPIData returns KPI totals
func (h *Handler) HandleKPIData(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	h.ensureData(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": h.service.KPIs(c)})
}

// HandleDPDBuckets returns the four-bucket delinquency distribution
func (h *Handler) HandleDPDBuckets(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	h.ensureData(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": h.service.Distribution(c)})
}

// HandleStateRepayment returns per-state repayment sums, largest first
func (h *Handler) HandleStateRepayment(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	h.ensureData(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": h.service.StateRepayments(c)})
}

// HandleTimeSeries returns the daily repayment/collection rollup
func (h *Handler) HandleTimeSeries(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	h.ensureData(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": h.service.TimeSeries(c)})
}

// HandleCityCollected returns the best-collecting cities
func (h *Handler) HandleCityCollected(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	h.ensureData(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": h.service.TopCities(c, h.limit(r))})
}

// HandleCityUncollected returns the worst-collecting cities
func (h *Handler) HandleCityUncollected(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	h.ensureData(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": h.service.BottomCities(c, h.limit(r))})
}

// HandleDPDBucketDetails returns a paginated record listing for one
// delinquency bucket. The bucket is mandatory here: the drill-down exists
// to expand a single distribution slice.
func (h *Handler) HandleDPDBucketDetails(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("dpd_bucket") == "" {
		h.writeError(w, http.StatusBadRequest, "dpd_bucket parameter is required")
		return
	}
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	h.ensureData(r.Context())
	h.writeJSON(w, http.StatusOK, h.service.Details(c, DetailQueryFromURL(r.URL.Query())))
}

// HandleApplicationDetails returns a paginated record listing across the
// whole filter selection, backing the total-applications drill-down
func (h *Handler) HandleApplicationDetails(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	h.ensureData(r.Context())
	h.writeJSON(w, http.StatusOK, h.service.Details(c, DetailQueryFromURL(r.URL.Query())))
}

// HandleFilterOptions returns distinct filter values for dropdowns
func (h *Handler) HandleFilterOptions(w http.ResponseWriter, r *http.Request) {
	h.ensureData(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": h.service.Options()})
}

// HandleCitiesByState returns the cities within one state
func (h *Handler) HandleCitiesByState(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		h.writeError(w, http.StatusBadRequest, "state parameter is required")
		return
	}
	h.ensureData(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": h.service.CitiesForState(state)})
}

func (h *Handler) limit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 10
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
