package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"VitalTrack_V1.0/internal/utility"
	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

var StartTime = time.Now()

// GetSystemHealthHandler collects and returns system-level metrics
func GetSystemHealthHandler(c echo.Context) error {
	// 1. Memory Stats
	v, _ := mem.VirtualMemory()

	// 2. CPU Usage (Calculated over 1 second)
	cpuPercent, _ := cpu.Percent(time.Second, false)

	// 3. Disk Stats (Root partition)
	d, _ := disk.Usage("/")

	// 4. Host/Runtime Info
	hInfo, _ := host.Info()
	uptime := time.Since(StartTime).String()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "online",
		"runtime": map[string]interface{}{
			"uptime":     uptime,
			"start_time": StartTime.Format(time.RFC3339),
			"os":         hInfo.OS,
			"platform":   hInfo.Platform,
			"arch":       hInfo.KernelArch,
			"hostname":   hInfo.Hostname,
		},
		"cpu": map[string]interface{}{
			"usage_percent": fmt.Sprintf("%.2f%%", cpuPercent[0]),
			"cores":         hInfo.Procs,
		},
		"memory": map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(v.Total)/1024/1024/1024),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(v.Used)/1024/1024/1024),
			"used_percent": fmt.Sprintf("%.2f%%", v.UsedPercent),
			"free_gb":      fmt.Sprintf("%.2f GB", float64(v.Free)/1024/1024/1024),
		},
		"disk": map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(d.Total)/1024/1024/1024),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(d.Used)/1024/1024/1024),
			"used_percent": fmt.Sprintf("%.2f%%", d.UsedPercent),
		},
	})
}

// StartSystemStatsBroadcaster runs in the background and pushes system stats
// to connected dashboard clients. It returns when the context is canceled.
func StartSystemStatsBroadcaster(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		// 1. Skip the work when nobody is connected
		utility.ClientsMu.Lock()
		clientCount := len(utility.Clients)
		utility.ClientsMu.Unlock()

		if clientCount == 0 {
			continue
		}

		// 2. Gather Metrics
		v, _ := mem.VirtualMemory()
		cpuPercent, _ := cpu.Percent(time.Second, false)
		d, _ := disk.Usage("/")

		// 3. Prepare the JSON payload
		healthData := map[string]interface{}{
			"type": "SYSTEM_HEALTH_UPDATE",
			"data": map[string]interface{}{
				"cpu_usage":  fmt.Sprintf("%.2f%%", cpuPercent[0]),
				"ram_usage":  fmt.Sprintf("%.2f%%", v.UsedPercent),
				"disk_usage": fmt.Sprintf("%.2f%%", d.UsedPercent),
				"timestamp":  time.Now().Format("15:04:05"),
			},
		}

		jsonMsg, _ := json.Marshal(healthData)
		utility.Broadcast(jsonMsg)
	}
}
