package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/growthmap/internal/di"
	"github.com/aristath/growthmap/internal/domain"
	"github.com/aristath/growthmap/internal/modules/scoring"
)

// SystemHandlers handles system-wide monitoring and operations endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	container   *di.Container
	startupTime time.Time
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, container *di.Container) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		container:   container,
		startupTime: time.Now(),
	}
}

// SystemStatusResponse is the payload of GET /api/system/status
type SystemStatusResponse struct {
	Status       string             `json:"status"`
	Version      string             `json:"version"`
	UptimeHours  float64            `json:"uptime_hours"`
	Goroutines   int                `json:"goroutines"`
	CPUPercent   float64            `json:"cpu_percent"`
	RAMPercent   float64            `json:"ram_percent"`
	Dataset      di.DatasetStatus   `json:"dataset"`
	CompanyCount int                `json:"company_count"`
	Cache        scoring.CacheStats `json:"cache"`
	Presets      int                `json:"presets"`
}

// ReloadResponse is the payload of POST /api/system/reload
type ReloadResponse struct {
	Reloaded bool             `json:"reloaded"`
	Dataset  di.DatasetStatus `json:"dataset"`
	Error    string           `json:"error,omitempty"`
}

// HandleSystemStatus returns process, host and dataset status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, ramPercent := h.getSystemStats()
	response := SystemStatusResponse{
		Status:       "ok",
		Version:      Version,
		UptimeHours:  time.Since(h.startupTime).Hours(),
		Goroutines:   runtime.NumGoroutine(),
		CPUPercent:   cpuPercent,
		RAMPercent:   ramPercent,
		Dataset:      h.container.DatasetStatus(),
		CompanyCount: h.container.Explorer.CompanyCount(),
		Cache:        h.container.Explorer.CacheStats(),
		Presets:      len(h.container.Presets),
	}

	writeJSON(w, h.log, http.StatusOK, response)
}

// HandleDatasetStatus returns the loaded dataset and its filter counts
func (h *SystemHandlers) HandleDatasetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, h.container.DatasetStatus())
}

// HandleReloadDataset re-reads the dataset source.
// A failed reload leaves the current dataset in place and answers 502.
func (h *SystemHandlers) HandleReloadDataset(w http.ResponseWriter, r *http.Request) {
	h.log.Info().Msg("Dataset reload requested")

	status, err := h.container.ReloadDataset(r.Context())
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, domain.ErrDataSource) {
			code = http.StatusBadGateway
		}
		writeJSON(w, h.log, code, ReloadResponse{Dataset: status, Error: err.Error()})
		return
	}

	writeJSON(w, h.log, http.StatusOK, ReloadResponse{Reloaded: true, Dataset: status})
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short interval (100ms) so the status call does not block for long
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

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
