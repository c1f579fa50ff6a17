package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/foresight/internal/database"
)

// SystemHandlers provides system monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	db          *database.DB
	cacheDB     *database.DB
	startupTime time.Time
}

// NewSystemHandlers creates system monitoring handlers. cacheDB may be nil.
func NewSystemHandlers(log zerolog.Logger, dataDir string, db, cacheDB *database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		dataDir:     dataDir,
		db:          db,
		cacheDB:     cacheDB,
		startupTime: time.Now(),
	}
}

// DatabaseStatus describes a single database in the status response
type DatabaseStatus struct {
	Name    string  `json:"name"`
	Healthy bool    `json:"healthy"`
	SizeMB  float64 `json:"size_mb"`
	Error   string  `json:"error,omitempty"`
}

// SystemStatusResponse is the payload for GET /api/system/status
type SystemStatusResponse struct {
	Status      string           `json:"status"`
	UptimeHours float64          `json:"uptime_hours"`
	CPUPercent  float64          `json:"cpu_percent"`
	RAMPercent  float64          `json:"ram_percent"`
	Goroutines  int              `json:"goroutines"`
	DataDirMB   float64          `json:"data_dir_mb"`
	Databases   []DatabaseStatus `json:"databases"`
}

// HandleSystemStatus returns process and database health
// GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.getSystemStats()

	response := SystemStatusResponse{
		Status:      "ok",
		UptimeHours: time.Since(h.startupTime).Hours(),
		CPUPercent:  cpuPercent,
		RAMPercent:  ramPercent,
		Goroutines:  runtime.NumGoroutine(),
		DataDirMB:   h.getDirSize(h.dataDir),
	}

	for _, db := range []*database.DB{h.db, h.cacheDB} {
		if db == nil {
			continue
		}
		status := DatabaseStatus{
			Name:    db.Name(),
			Healthy: true,
			SizeMB:  h.getFileSize(db.Path()),
		}
		if err := db.Conn().Ping(); err != nil {
			status.Healthy = false
			status.Error = err.Error()
			response.Status = "degraded"
		}
		response.Databases = append(response.Databases, status)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode system status response")
	}
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a 100ms sampling interval so the endpoint stays responsive.
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

// getFileSize returns a file's size in MB, 0 for in-memory databases.
func (h *SystemHandlers) getFileSize(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / 1024 / 1024
}
