// Package cache provides the bounded memoization used to keep repeated
// cascade solutions and no-muon probabilities affordable. Capacity is
// rounded up to a power of two; overflow silently evicts the least
// recently used entry.
package cache

import "container/list"

// Stats counts cache effectiveness. Callers can assert hit/miss
// behavior directly instead of instrumenting the cached function.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

type entry[K comparable, V any] struct {
	key K
	val V
}

// LRU is a bounded least-recently-used cache. It is not safe for
// concurrent use; the owning engine serializes access.
type LRU[K comparable, V any] struct {
	capacity int
	ll       *list.List
	items    map[K]*list.Element
	stats    Stats
}

// NewLRU returns an LRU holding at most the given number of entries,
// rounded up to the next power of two. Capacity below one defaults to a
// single entry.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	c := 1
	for c < capacity {
		c <<= 1
	}
	return &LRU[K, V]{
		capacity: c,
		ll:       list.New(),
		items:    make(map[K]*list.Element, c),
	}
}

// Get returns the cached value for key, marking it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	if el, ok := c.items[key]; ok {
		c.stats.Hits++
		c.ll.MoveToFront(el)
		return el.Value.(*entry[K, V]).val, true
	}
	c.stats.Misses++
	var zero V
	return zero, false
}

// Put stores a value, evicting the oldest entry when full.
func (c *LRU[K, V]) Put(key K, val V) {
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*entry[K, V]).val = val
		return
	}
	if c.ll.Len() >= c.capacity {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*entry[K, V]).key)
		c.stats.Evictions++
	}
	c.items[key] = c.ll.PushFront(&entry[K, V]{key: key, val: val})
}

// GetOrCompute returns the cached value for key, computing and storing
// it on a miss. A compute error is returned without caching.
func (c *LRU[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Put(key, v)
	return v, nil
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int { return c.ll.Len() }

// Capacity returns the rounded capacity.
func (c *LRU[K, V]) Capacity() int { return c.capacity }

// Stats returns a snapshot of the counters.
func (c *LRU[K, V]) Stats() Stats { return c.stats }
