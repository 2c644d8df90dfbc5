package perf

import (
	"testing"
	"time"

	"github.com/devlens-ai/devlens/pkg/models"
)

func TestRecordFillsTimestamp(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := New(WithClock(func() time.Time { return fixed }))

	m.Record(models.Sample{LoadTime: 10 * time.Millisecond})

	samples := m.Samples()
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	if !samples[0].Timestamp.Equal(fixed) {
		t.Errorf("zero timestamp should default to now, got %v", samples[0].Timestamp)
	}

	// An explicit timestamp is kept.
	explicit := fixed.Add(-time.Hour)
	m.Record(models.Sample{Timestamp: explicit})
	if got := m.Samples()[1].Timestamp; !got.Equal(explicit) {
		t.Errorf("explicit timestamp overwritten: %v", got)
	}
}

func TestRetentionBound(t *testing.T) {
	m := New()
	for i := range 150 {
		m.Record(models.Sample{LoadTime: time.Duration(i) * time.Millisecond})
	}

	if m.Len() != maxSamples {
		t.Fatalf("expected %d retained samples, got %d", maxSamples, m.Len())
	}
	// Oldest-first eviction: the first retained sample is i=50.
	if got := m.Samples()[0].LoadTime; got != 50*time.Millisecond {
		t.Errorf("expected oldest retained sample 50ms, got %s", got)
	}
}

func TestAverages(t *testing.T) {
	m := New()
	if _, ok := m.Averages(); ok {
		t.Fatal("averages of an empty monitor should report not-ok")
	}

	m.Record(models.Sample{LoadTime: 10 * time.Millisecond, APITime: 100 * time.Millisecond, MemoryMB: 10, CacheHitRate: 0.2})
	m.Record(models.Sample{LoadTime: 30 * time.Millisecond, APITime: 300 * time.Millisecond, MemoryMB: 30, CacheHitRate: 0.8})

	avg, ok := m.Averages()
	if !ok {
		t.Fatal("expected averages")
	}
	if avg.LoadTime != 20*time.Millisecond {
		t.Errorf("load avg: got %s", avg.LoadTime)
	}
	if avg.APITime != 200*time.Millisecond {
		t.Errorf("api avg: got %s", avg.APITime)
	}
	if avg.MemoryMB != 20 {
		t.Errorf("memory avg: got %v", avg.MemoryMB)
	}
	if avg.CacheHitRate != 0.5 {
		t.Errorf("hit rate avg: got %v", avg.CacheHitRate)
	}
}

func TestSubscribeOrderAndUnsubscribe(t *testing.T) {
	m := New()
	var order []string
	unsubA := m.Subscribe(func(models.Sample) { order = append(order, "a") })
	unsubB := m.Subscribe(func(models.Sample) { order = append(order, "b") })

	m.Record(models.Sample{})
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("expected registration-order notification, got %v", order)
	}

	unsubA()
	m.Record(models.Sample{})
	if len(order) != 3 || order[2] != "b" {
		t.Fatalf("expected only b after unsubscribe, got %v", order)
	}

	// Unsubscribe is idempotent; a double call must not touch b.
	unsubA()
	unsubA()
	m.Record(models.Sample{})
	if len(order) != 4 {
		t.Fatalf("expected b still subscribed, got %v", order)
	}
	_ = unsubB
}

func TestReentrantRecordIsQueued(t *testing.T) {
	m := New()
	var seen []time.Duration
	m.Subscribe(func(s models.Sample) {
		seen = append(seen, s.LoadTime)
		if s.LoadTime == time.Millisecond {
			// Re-record from inside the callback: must be queued and
			// delivered after the triggering sample, not recursed into.
			m.Record(models.Sample{LoadTime: 2 * time.Millisecond})
			seen = append(seen, -1)
		}
	})

	m.Record(models.Sample{LoadTime: time.Millisecond})

	want := []time.Duration{time.Millisecond, -1, 2 * time.Millisecond}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}

	if m.Len() != 2 {
		t.Errorf("both samples should be retained, got %d", m.Len())
	}
}

func TestStartMeasure(t *testing.T) {
	clk := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := New(
		WithClock(func() time.Time { return clk }),
		WithHitRateFunc(func() float64 { return 0.75 }),
	)

	stop := m.StartMeasure("panel load")
	clk = clk.Add(40 * time.Millisecond)
	stop()

	samples := m.Samples()
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	if samples[0].LoadTime != 40*time.Millisecond {
		t.Errorf("expected 40ms load time, got %s", samples[0].LoadTime)
	}
	if samples[0].CacheHitRate != 0.75 {
		t.Errorf("expected wired hit rate 0.75, got %v", samples[0].CacheHitRate)
	}
}

func TestOverlappingMeasuresAreIndependent(t *testing.T) {
	clk := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := New(WithClock(func() time.Time { return clk }))

	stopA := m.StartMeasure("a")
	clk = clk.Add(10 * time.Millisecond)
	stopB := m.StartMeasure("b")
	clk = clk.Add(10 * time.Millisecond)
	stopA() // 20ms
	stopB() // 10ms

	samples := m.Samples()
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].LoadTime != 20*time.Millisecond || samples[1].LoadTime != 10*time.Millisecond {
		t.Errorf("expected 20ms then 10ms, got %s and %s", samples[0].LoadTime, samples[1].LoadTime)
	}
}

func TestCompact(t *testing.T) {
	m := New()
	for i := range 60 {
		m.Record(models.Sample{LoadTime: time.Duration(i) * time.Millisecond})
	}

	m.Compact()
	if m.Len() != compactKeep {
		t.Fatalf("expected %d samples after compact, got %d", compactKeep, m.Len())
	}
	// Newest samples survive.
	if got := m.Samples()[compactKeep-1].LoadTime; got != 59*time.Millisecond {
		t.Errorf("expected newest sample 59ms, got %s", got)
	}

	// Below the trigger, compact leaves the log alone.
	m.Compact()
	if m.Len() != compactKeep {
		t.Errorf("compact below trigger should be a no-op, got %d", m.Len())
	}
}
