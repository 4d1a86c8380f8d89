package analytics

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all dashboard query routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/aggregate", h.HandleAggregate)                     // Full aggregate result
	r.Get("/kpi-data", h.HandleKPIData)                        // KPI totals
	r.Get("/dpd-buckets", h.HandleDPDBuckets)                  // Delinquency distribution
	r.Get("/dpd-buckets/details", h.HandleDPDBucketDetails)    // One bucket's records, paginated
	r.Get("/state-repayment", h.HandleStateRepayment)          // Per-state repayment sums
	r.Get("/time-series", h.HandleTimeSeries)                  // Daily rollup
	r.Get("/city-collected", h.HandleCityCollected)            // Best-collecting cities
	r.Get("/city-uncollected", h.HandleCityUncollected)        // Worst-collecting cities
	r.Get("/applications/details", h.HandleApplicationDetails) // Matched records, paginated

	r.Route("/filters", func(r chi.Router) {
		r.Get("/options", h.HandleFilterOptions) // Dropdown values
		r.Get("/cities", h.HandleCitiesByState)  // Cities within one state
	})
}
