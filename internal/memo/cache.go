// Package memo provides a bounded, least-recently-used memoization cache whose
// concurrent misses for the same key share a single computation.
package memo

import (
	"errors"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes values of type V by string key, holding at most Capacity
// entries. Errors are never cached.
type Cache[V any] struct {
	entries *lru.Cache[string, V]
	group   singleflight.Group

	mu      sync.RWMutex
	onEvict func(key string, value V)

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Len    int
	Hits   uint64
	Misses uint64
}

// New returns a cache holding at most capacity entries. capacity below one is
// treated as one.
func New[V any](capacity int) *Cache[V] {
	if capacity < 1 {
		capacity = 1
	}
	c := &Cache[V]{}
	entries, err := lru.NewWithEvict[string, V](capacity, c.evicted)
	if err != nil {
		// Only a non-positive size is rejected.
		panic(err)
	}
	c.entries = entries
	return c
}

// OnEvict registers fn to run whenever an entry leaves the cache, whether by
// capacity pressure, Remove or Purge. fn runs without the cache lock held.
func (c *Cache[V]) OnEvict(fn func(key string, value V)) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

func (c *Cache[V]) evicted(key string, value V) {
	c.mu.RLock()
	fn := c.onEvict
	c.mu.RUnlock()
	if fn != nil {
		fn(key, value)
	}
}

// Get returns the cached value for key, if any, and marks it most recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	}
	return v, ok
}

// Do returns the cached value for key or computes it with fn. Concurrent callers
// missing on the same key wait for one shared call to fn. cached reports
// whether the value came from the cache.
func (c *Cache[V]) Do(key string, fn func() (V, error)) (value V, cached bool, err error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	res, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		c.misses.Add(1)

		v, err := fn()
		if err != nil {
			return nil, err
		}
		c.Add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	v, ok := res.(V)
	if !ok {
		var zero V
		return zero, false, errors.New("memo: unexpected value type")
	}
	return v, false, nil
}

// Add stores value under key, evicting the least recently used entry when full.
func (c *Cache[V]) Add(key string, value V) {
	c.entries.Add(key, value)
}

// Remove drops key from the cache.
func (c *Cache[V]) Remove(key string) bool {
	return c.entries.Remove(key)
}

// RemoveFunc drops every entry whose key satisfies match.
func (c *Cache[V]) RemoveFunc(match func(key string) bool) int {
	n := 0
	for _, key := range c.entries.Keys() {
		if match(key) && c.entries.Remove(key) {
			n++
		}
	}
	return n
}

// Purge empties the cache.
func (c *Cache[V]) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.entries.Len()
}

// Stats returns the current counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{Len: c.entries.Len(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}
