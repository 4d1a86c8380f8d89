package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/database"
)

// SystemHandlers exposes operational status endpoints
type SystemHandlers struct {
	portfolioDB *database.DB
	ledgerDB    *database.DB
	startedAt   time.Time
	log         zerolog.Logger
}

// NewSystemHandlers creates system status handlers
func NewSystemHandlers(portfolioDB, ledgerDB *database.DB, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		portfolioDB: portfolioDB,
		ledgerDB:    ledgerDB,
		startedAt:   time.Now(),
		log:         log.With().Str("handler", "system").Logger(),
	}
}

// HandleStatus returns process and database status
// GET /api/system/status
//
// Unlike the /health liveness probe this runs the full integrity check, so
// it is the place to look when SQLite corruption is suspected.
func (h *SystemHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	cpuAvg, ramPct := h.resourceUsage()

	databases := map[string]interface{}{}
	for _, db := range []*database.DB{h.portfolioDB, h.ledgerDB} {
		if db == nil {
			continue
		}
		entry := map[string]interface{}{"healthy": db.HealthCheck(r.Context()) == nil}
		if stats, err := db.GetStats(); err == nil {
			entry["size_bytes"] = stats.SizeBytes
			entry["wal_size_bytes"] = stats.WALSizeBytes
		}
		databases[db.Name()] = entry
	}

	h.writeJSON(w, map[string]interface{}{
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"cpu_percent":    cpuAvg,
		"ram_percent":    ramPct,
		"databases":      databases,
	})
}

// resourceUsage samples CPU and memory utilization; failures degrade to 0
// rather than failing the status endpoint
func (h *SystemHandlers) resourceUsage() (float64, float64) {
	cpuAvg := 0.0
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU statistics")
	} else if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return cpuAvg, 0
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
