// Package cache provides an in-memory memoization cache with per-entry
// TTL expiry and hit accounting. It is safe for concurrent use.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/devlens-ai/devlens/pkg/models"
)

// DefaultTTL is used when Set is called with a non-positive TTL.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
	hits     int64
}

// Cache is a keyed store of values with expiry-on-read semantics.
// Expired entries are removed the first time a read observes them;
// Compact removes entries that outlived twice their TTL without being
// read again.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	defaultTTL time.Duration
	now        func() time.Time
	hits       int64
	misses     int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithDefaultTTL overrides the TTL applied when Set receives ttl <= 0.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithClock replaces the time source. Tests use this to advance time
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New returns an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]*entry),
		defaultTTL: DefaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set stores value under key, replacing any previous entry and
// resetting its hit count. A ttl <= 0 takes the default. An empty key
// is ignored.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if key == "" {
		return
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.entries[key] = &entry{value: value, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

// Get returns the live value stored under key. A read that finds an
// expired entry deletes it and reports a miss, so callers never see a
// logically expired value.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}

	if c.now().Sub(e.storedAt) > e.ttl {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}

	e.hits++
	c.hits++
	return e.value, true
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}

// ClearPattern removes every entry whose key contains substr
// (case-sensitive). Removing nothing is not an error.
func (c *Cache) ClearPattern(substr string) {
	c.mu.Lock()
	for key := range c.entries {
		if strings.Contains(key, substr) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Compact purges entries whose age exceeds twice their TTL. Simple
// expiry already hides those entries from Get; the extra grace window
// lets periodic compaction reclaim memory without racing readers.
func (c *Cache) Compact() {
	c.mu.Lock()
	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.storedAt) > 2*e.ttl {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Stats returns a snapshot of storage state. It does not touch hit
// counts and does not purge expired entries: the listing reflects what
// is stored, which may include entries a future Get would miss on.
// Entries are ordered by key.
func (c *Cache) Stats() models.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := models.CacheStats{
		Size:    len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		Entries: make([]models.CacheEntryInfo, 0, len(c.entries)),
	}
	if lookups := c.hits + c.misses; lookups > 0 {
		stats.HitRate = float64(c.hits) / float64(lookups)
	}
	for key, e := range c.entries {
		stats.Entries = append(stats.Entries, models.CacheEntryInfo{
			Key:  key,
			Hits: e.hits,
			Age:  now.Sub(e.storedAt),
		})
	}
	sort.Slice(stats.Entries, func(i, j int) bool {
		return stats.Entries[i].Key < stats.Entries[j].Key
	})
	return stats
}

// HitRate returns hits/(hits+misses), or 0 before any lookup.
func (c *Cache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	lookups := c.hits + c.misses
	if lookups == 0 {
		return 0
	}
	return float64(c.hits) / float64(lookups)
}
