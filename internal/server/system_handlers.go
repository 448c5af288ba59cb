package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/perfstats/internal/database"
	"github.com/aristath/perfstats/internal/prices"
	"github.com/aristath/perfstats/internal/scheduler"
)

// CacheStatter is satisfied by *prices.Cache
type CacheStatter interface {
	Stats(ctx context.Context) (prices.CacheStats, error)
}

// JobRunner is satisfied by *scheduler.Scheduler
type JobRunner interface {
	Jobs() []string
	RunByName(ctx context.Context, name string) error
}

// SystemHandlers handles monitoring and maintenance endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	startupTime time.Time
	db          *database.DB
	cache       CacheStatter
	jobs        JobRunner
}

// NewSystemHandlers creates a new system handlers instance. Any dependency
// may be nil; the matching fields are then left out of responses.
func NewSystemHandlers(log zerolog.Logger, dataDir string, db *database.DB, cache CacheStatter, jobs JobRunner) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		dataDir:     dataDir,
		startupTime: time.Now(),
		db:          db,
		cache:       cache,
		jobs:        jobs,
	}
}

// SystemStatsResponse is returned by GET /api/system/stats
type SystemStatsResponse struct {
	CPUPercent    float64            `json:"cpu_percent"`
	MemoryPercent float64            `json:"memory_percent"`
	Goroutines    int                `json:"goroutines"`
	UptimeSeconds float64            `json:"uptime_seconds"`
	Cache         *prices.CacheStats `json:"cache,omitempty"`
	LastChecked   string             `json:"last_checked"`
}

// DiskUsageResponse is returned by GET /api/system/disk
type DiskUsageResponse struct {
	DataDirMB   float64 `json:"data_dir_mb"`
	FreeGB      float64 `json:"free_gb"`
	UsedPercent float64 `json:"used_percent"`
}

// HandleSystemStats returns process, host and cache statistics
func (h *SystemHandlers) HandleSystemStats(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.getSystemStats()

	response := SystemStatsResponse{
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Goroutines:    runtime.NumGoroutine(),
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		LastChecked:   time.Now().Format(time.RFC3339),
	}

	if h.cache != nil {
		stats, err := h.cache.Stats(r.Context())
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to get cache stats")
		} else {
			response.Cache = &stats
		}
	}

	writeJSON(h.log, w, http.StatusOK, response)
}

// HandleDatabaseStats returns page and file statistics of the price cache
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(h.log, w, http.StatusServiceUnavailable, map[string]string{"error": "database not configured"})
		return
	}

	stats, err := h.db.GetStats(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get database stats")
		writeJSON(h.log, w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(h.log, w, http.StatusOK, map[string]interface{}{
		"name":  h.db.Name(),
		"path":  h.db.Path(),
		"stats": stats,
	})
}

// HandleDiskUsage returns disk usage statistics
func (h *SystemHandlers) HandleDiskUsage(w http.ResponseWriter, r *http.Request) {
	response := DiskUsageResponse{
		DataDirMB: h.getDirSize(h.dataDir),
	}

	usage, err := disk.Usage(h.dataDir)
	if err != nil {
		h.log.Warn().Err(err).Str("dir", h.dataDir).Msg("Failed to get filesystem usage")
	} else {
		response.FreeGB = float64(usage.Free) / 1e9
		response.UsedPercent = usage.UsedPercent
	}

	writeJSON(h.log, w, http.StatusOK, response)
}

// HandleJobsStatus lists registered jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	jobs := []string{}
	if h.jobs != nil {
		jobs = h.jobs.Jobs()
	}
	writeJSON(h.log, w, http.StatusOK, map[string]interface{}{"jobs": jobs})
}

// HandleTriggerJob runs a registered job synchronously
// POST /api/system/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request, name string) {
	if h.jobs == nil {
		writeJSON(h.log, w, http.StatusServiceUnavailable, map[string]string{"error": "scheduler not configured"})
		return
	}

	start := time.Now()
	if err := h.jobs.RunByName(r.Context(), name); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scheduler.ErrUnknownJob) {
			status = http.StatusNotFound
		}
		writeJSON(h.log, w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(h.log, w, http.StatusOK, map[string]interface{}{
		"job":         name,
		"status":      "completed",
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

// getDirSize calculates total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	var totalSize int64

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

// getSystemStats samples CPU over 100ms and reads memory usage
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
func writeJSON(log zerolog.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
