package perf

import (
	"fmt"
	"strings"

	"github.com/devlens-ai/devlens/pkg/models"
)

// Report renders a deterministic textual summary of the average
// metrics and the given cache snapshot, followed by recommendation
// lines for each threshold the averages violate. When nothing violates
// a threshold the report states that performance is optimal.
func (m *Monitor) Report(stats models.CacheStats, th models.Thresholds) string {
	var b strings.Builder
	b.WriteString("Performance Report\n")
	b.WriteString("==================\n")

	avg, ok := m.Averages()
	if !ok {
		b.WriteString("No performance samples recorded.\n")
	} else {
		fmt.Fprintf(&b, "Samples:        %d\n", m.Len())
		fmt.Fprintf(&b, "Avg load time:  %s\n", avg.LoadTime)
		fmt.Fprintf(&b, "Avg API time:   %s\n", avg.APITime)
		fmt.Fprintf(&b, "Avg memory:     %.1f MB\n", avg.MemoryMB)
		fmt.Fprintf(&b, "Avg hit rate:   %.0f%%\n", avg.CacheHitRate*100)
	}
	fmt.Fprintf(&b, "Cache entries:  %d\n", stats.Size)

	b.WriteString("\nRecommendations:\n")
	for _, r := range m.Recommendations(th) {
		fmt.Fprintf(&b, "  - %s\n", r)
	}
	return b.String()
}

// Recommendations returns one line per threshold the current averages
// violate. Without samples, or with every threshold satisfied, it
// returns the single optimal line.
func (m *Monitor) Recommendations(th models.Thresholds) []string {
	avg, ok := m.Averages()
	if !ok {
		return []string{"performance is optimal"}
	}

	var recs []string
	if avg.LoadTime > th.MaxLoadTime {
		recs = append(recs, fmt.Sprintf("average load time exceeds %s; memoize expensive panels", th.MaxLoadTime))
	}
	if avg.APITime > th.MaxAPITime {
		recs = append(recs, fmt.Sprintf("average API time exceeds %s; cache backend responses", th.MaxAPITime))
	}
	if avg.MemoryMB > th.MaxMemoryMB {
		recs = append(recs, fmt.Sprintf("memory usage exceeds %.0f MB; run a compaction sweep", th.MaxMemoryMB))
	}
	if avg.CacheHitRate < th.MinHitRate {
		recs = append(recs, fmt.Sprintf("cache hit rate below %.0f%%; revisit cache keys and TTLs", th.MinHitRate*100))
	}
	if len(recs) == 0 {
		recs = []string{"performance is optimal"}
	}
	return recs
}
