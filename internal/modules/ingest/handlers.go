package ingest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

// Handler handles sync HTTP requests
type Handler struct {
	service *Service
	runs    *RunRepository
	log     zerolog.Logger
}

// NewHandler creates a new sync handler
func NewHandler(service *Service, runs *RunRepository, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		runs:    runs,
		log:     log.With().Str("handler", "ingest").Logger(),
	}
}

// HandleSync triggers a sync cycle on demand
func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.Sync(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			h.writeError(w, http.StatusConflict, "sync already in progress, retry shortly")
			return
		}
		h.log.Error().Err(err).Msg("Sync failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"run":    run,
	})
}

// HandleListRuns returns recent sync runs, newest first
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	runs, err := h.runs.ListRecent(limit)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": runs})
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
