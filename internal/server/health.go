package server

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// startedAt is captured when the package is loaded.
var startedAt = time.Now()

// HostStats is a small snapshot of the machine running the proxy.
type HostStats struct {
	Hostname      string  `json:"hostname"`
	OS            string  `json:"os"`
	UptimeSeconds uint64  `json:"uptime_seconds"`
	MemUsage      float64 `json:"mem_usage"` // percent 0-100
	Goroutines    int     `json:"goroutines"`
}

// collectHostStats gathers what gopsutil can report; unavailable values stay zero.
func collectHostStats() HostStats {
	stats := HostStats{
		OS:         runtime.GOOS + "/" + runtime.GOARCH,
		Goroutines: runtime.NumGoroutine(),
	}
	if h, err := os.Hostname(); err == nil {
		stats.Hostname = h
	}
	if up, err := host.Uptime(); err == nil {
		stats.UptimeSeconds = up
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemUsage = vm.UsedPercent
	}
	return stats
}

// handleHealth reports liveness, process uptime and host stats.
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC(),
		"uptime": time.Since(startedAt).Round(time.Second).String(),
		"host":   collectHostStats(),
	})
}
