package models

import "time"

// Sample is one performance measurement. Zero numeric fields mean
// "not measured", not an error.
type Sample struct {
	Timestamp    time.Time     `json:"timestamp"`
	LoadTime     time.Duration `json:"load_time"`
	APITime      time.Duration `json:"api_time"`
	MemoryMB     float64       `json:"memory_mb"`
	CacheHitRate float64       `json:"cache_hit_rate"`
}

// Thresholds are the limits a performance report checks averages against.
type Thresholds struct {
	MaxLoadTime time.Duration `yaml:"max_load_time" json:"max_load_time"`
	MaxAPITime  time.Duration `yaml:"max_api_time" json:"max_api_time"`
	MaxMemoryMB float64       `yaml:"max_memory_mb" json:"max_memory_mb"`
	MinHitRate  float64       `yaml:"min_hit_rate" json:"min_hit_rate"`
}

// DefaultThresholds returns the thresholds used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxLoadTime: 100 * time.Millisecond,
		MaxAPITime:  500 * time.Millisecond,
		MaxMemoryMB: 50,
		MinHitRate:  0.5,
	}
}
