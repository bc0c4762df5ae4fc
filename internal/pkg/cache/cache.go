// Package cache provides the in-process TTL cache behind the combined-data
// endpoint. Entries expire at an absolute deadline measured from the write,
// never renewed by reads.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is how long a combined payload stays fresh.
const DefaultTTL = 300 * time.Second

// Key derives the cache key for a (city, currency) pair. The join is exact
// and case-sensitive: callers must send consistent casing to hit the cache.
// The delimiter is not escaped, so a crafted value containing ":" can
// collide two pairs onto one key; changing the derivation is a compatibility
// decision and is not taken here.
func Key(city, currency string) string {
	return city + ":" + currency
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a mutex-guarded map cache with per-entry absolute expiry.
type TTL[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[V]

	now func() time.Time // overridable in tests
}

// NewTTL creates a cache whose entries live for ttl after each Set.
func NewTTL[V any](ttl time.Duration) *TTL[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTL[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// Get returns the cached value for key, or ok=false on a miss or an expired
// entry. Expired entries are dropped on access.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key and (re)starts its TTL. Stale entries are swept
// opportunistically so the map does not grow without bound.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = entry[V]{value: value, expiresAt: now.Add(c.ttl)}
}

// Len reports the number of entries, counting not-yet-swept stale ones.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
