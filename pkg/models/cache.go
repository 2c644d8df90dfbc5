package models

import "time"

// CacheEntryInfo describes one cache entry in a stats snapshot.
type CacheEntryInfo struct {
	Key  string        `json:"key"`
	Hits int64         `json:"hits"`
	Age  time.Duration `json:"age"`
}

// CacheStats is a read-only snapshot of cache storage state.
// It reflects what is stored, not what is still fresh: entries that
// have logically expired but were never read again still appear here.
type CacheStats struct {
	Size    int              `json:"size"`
	Hits    int64            `json:"hits"`
	Misses  int64            `json:"misses"`
	HitRate float64          `json:"hit_rate"`
	Entries []CacheEntryInfo `json:"entries"`
}
