package ingest

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all sync routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sync", func(r chi.Router) {
		r.Post("/", h.HandleSync)        // Trigger a sync cycle
		r.Get("/runs", h.HandleListRuns) // Recent sync runs, newest first
	})
}
