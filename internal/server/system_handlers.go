package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/bulwark/internal/database"
	"github.com/aristath/bulwark/internal/domain"
)

// SystemHandlers serves health and host-info endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	portfolioDB *database.DB
	historyDB   *database.DB
	broker      domain.BrokerClient
	startedAt   time.Time
}

// NewSystemHandlers creates new system handlers
func NewSystemHandlers(log zerolog.Logger, dataDir string, portfolioDB, historyDB *database.DB, broker domain.BrokerClient) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		dataDir:     dataDir,
		portfolioDB: portfolioDB,
		historyDB:   historyDB,
		broker:      broker,
		startedAt:   time.Now().UTC(),
	}
}

type componentHealth struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// HandleSystemHealth reports per-component health: databases, broker, host
func (h *SystemHandlers) HandleSystemHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components := map[string]componentHealth{
		"portfolio_db": h.checkDB(ctx, h.portfolioDB),
		"history_db":   h.checkDB(ctx, h.historyDB),
		"broker":       h.checkBroker(ctx),
	}

	status := "ok"
	httpStatus := http.StatusOK
	for _, c := range components {
		if c.Status != "ok" {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	cpuAvg, memUsed := h.getSystemStats()

	h.writeJSON(w, httpStatus, map[string]interface{}{
		"status":     status,
		"components": components,
		"host": map[string]interface{}{
			"cpu_percent": cpuAvg,
			"mem_percent": memUsed,
		},
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}

// HandleSystemInfo reports build/runtime details
func (h *SystemHandlers) HandleSystemInfo(w http.ResponseWriter, _ *http.Request) {
	hostname, _ := os.Hostname()

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"hostname":   hostname,
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"data_dir":   h.dataDir,
		"started_at": h.startedAt.Format(time.RFC3339),
	})
}

func (h *SystemHandlers) checkDB(ctx context.Context, db *database.DB) componentHealth {
	if db == nil {
		return componentHealth{Status: "unavailable", Detail: "not configured"}
	}
	if err := db.HealthCheck(ctx); err != nil {
		return componentHealth{Status: "error", Detail: err.Error()}
	}
	return componentHealth{Status: "ok"}
}

func (h *SystemHandlers) checkBroker(ctx context.Context) componentHealth {
	if h.broker == nil {
		return componentHealth{Status: "unavailable", Detail: "not configured"}
	}
	if err := h.broker.HealthCheck(ctx); err != nil {
		return componentHealth{Status: "error", Detail: err.Error()}
	}
	return componentHealth{Status: "ok"}
}

// getSystemStats samples CPU over 100ms to keep the endpoint fast
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
