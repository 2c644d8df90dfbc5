// Package perf collects performance samples, notifies observers of new
// samples, and renders textual reports. It also provides debounce and
// throttle rate limiters for bursty callers.
package perf

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devlens-ai/devlens/pkg/models"
)

const (
	// maxSamples bounds normal retention; the oldest sample is dropped
	// once the bound is exceeded.
	maxSamples = 100
	// compactTrigger and compactKeep control Compact: a log longer than
	// compactTrigger is truncated to its compactKeep newest samples.
	compactTrigger = 50
	compactKeep    = 25
)

type observer struct {
	fn      func(models.Sample)
	removed atomic.Bool
}

// Monitor keeps a bounded, most-recent-last log of performance samples.
type Monitor struct {
	mu        sync.Mutex
	samples   []models.Sample
	observers []*observer
	queue     []models.Sample
	draining  bool
	now       func() time.Time
	hitRate   func() float64
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// WithHitRateFunc wires a cache hit-rate provider; samples produced by
// StartMeasure carry its current value.
func WithHitRateFunc(fn func() float64) Option {
	return func(m *Monitor) { m.hitRate = fn }
}

// New returns an empty Monitor.
func New(opts ...Option) *Monitor {
	m := &Monitor{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Record appends a sample and notifies every subscribed observer with
// it. A zero Timestamp is filled with the current time; other zero
// fields are kept as recorded.
//
// Notification is synchronous but queued: an observer that records
// another sample from inside its callback does not recurse. Queued
// samples are drained in record order after the triggering call's
// sample has been delivered to every observer.
func (m *Monitor) Record(s models.Sample) {
	m.mu.Lock()
	if s.Timestamp.IsZero() {
		s.Timestamp = m.now()
	}

	m.samples = append(m.samples, s)
	if len(m.samples) > maxSamples {
		m.samples = m.samples[len(m.samples)-maxSamples:]
	}

	m.queue = append(m.queue, s)
	if m.draining {
		m.mu.Unlock()
		return
	}
	m.draining = true

	for len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		obs := make([]*observer, len(m.observers))
		copy(obs, m.observers)
		m.mu.Unlock()

		// The removed check lets an observer unsubscribe another one
		// from inside its callback and have that take effect within
		// the same drain.
		for _, o := range obs {
			if !o.removed.Load() {
				o.fn(next)
			}
		}

		m.mu.Lock()
	}
	m.draining = false
	m.mu.Unlock()
}

// Subscribe registers fn to be called once per recorded sample, in
// registration order. The returned function removes the registration;
// calling it again is a no-op.
func (m *Monitor) Subscribe(fn func(models.Sample)) func() {
	o := &observer{fn: fn}

	m.mu.Lock()
	m.observers = append(m.observers, o)
	m.mu.Unlock()

	return func() {
		if o.removed.Swap(true) {
			return
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, cur := range m.observers {
			if cur == o {
				m.observers = append(m.observers[:i], m.observers[i+1:]...)
				break
			}
		}
	}
}

// StartMeasure begins a wall-time measurement. Calling the returned
// stop function records one sample whose LoadTime is the elapsed time,
// with memory usage and cache hit rate taken from the current process
// state. Overlapping measurements are independent.
func (m *Monitor) StartMeasure(label string) func() {
	start := m.now()
	return func() {
		s := models.Sample{
			LoadTime: m.now().Sub(start),
			MemoryMB: processMemoryMB(),
		}
		if m.hitRate != nil {
			s.CacheHitRate = m.hitRate()
		}
		m.Record(s)
	}
}

func processMemoryMB() float64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.HeapAlloc) / (1 << 20)
}

// Averages returns the arithmetic mean of every numeric sample field.
// ok is false when no samples have been recorded.
func (m *Monitor) Averages() (avg models.Sample, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.samples)
	if n == 0 {
		return models.Sample{}, false
	}

	var load, api time.Duration
	var mem, rate float64
	for _, s := range m.samples {
		load += s.LoadTime
		api += s.APITime
		mem += s.MemoryMB
		rate += s.CacheHitRate
	}
	return models.Sample{
		LoadTime:     load / time.Duration(n),
		APITime:      api / time.Duration(n),
		MemoryMB:     mem / float64(n),
		CacheHitRate: rate / float64(n),
	}, true
}

// Len returns the number of retained samples.
func (m *Monitor) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.samples)
}

// Samples returns a copy of the retained samples, oldest first.
func (m *Monitor) Samples() []models.Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Sample, len(m.samples))
	copy(out, m.samples)
	return out
}

// Compact truncates the sample log to its newest entries when it has
// grown past the compaction trigger. Called from the same periodic
// sweep that compacts the cache.
func (m *Monitor) Compact() {
	m.mu.Lock()
	if len(m.samples) > compactTrigger {
		m.samples = m.samples[len(m.samples)-compactKeep:]
	}
	m.mu.Unlock()
}
