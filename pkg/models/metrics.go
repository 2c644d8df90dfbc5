package models

import "time"

// SystemMetrics is a point-in-time system snapshot kept in the durable
// store so the dashboard can show something immediately after restart.
type SystemMetrics struct {
	CapturedAt   time.Time `json:"captured_at"`
	CPUPercent   float64   `json:"cpu_percent"`
	MemoryMB     float64   `json:"memory_mb"`
	DiskPercent  float64   `json:"disk_percent"`
	ProcessCount int       `json:"process_count"`
}
