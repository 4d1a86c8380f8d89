package targets

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles monthly target HTTP requests
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new targets handler
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "targets").Logger(),
	}
}

// RegisterRoutes registers all target routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/targets", func(r chi.Router) {
		r.Get("/current", h.HandleGetCurrent)  // Current month's target
		r.Post("/current", h.HandleSetCurrent) // Set current month's target
	})
}

// HandleGetCurrent returns the current month's sanction target
func (h *Handler) HandleGetCurrent(w http.ResponseWriter, r *http.Request) {
	target, err := h.repo.CurrentMonth()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": target})
}

// HandleSetCurrent sets the current month's sanction target
func (h *Handler) HandleSetCurrent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TargetAmount float64 `json:"target_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	current, err := h.repo.CurrentMonth()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.repo.Set(current.Month, current.Year, body.TargetAmount); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	current.TargetAmount = body.TargetAmount
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": current})
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
