package adapters

import "sync"

// cacheKey identifies one memoized aggregation. Keying by tick makes the
// validity window explicit: advancing the tick invalidates everything.
type cacheKey struct {
	tierID     string
	tick       uint64
	childCount int
}

// memoCache is a deliberately small-window cache: it holds results for the
// most recent tick only, never an unbounded history.
type memoCache struct {
	mu      sync.Mutex
	tick    uint64
	entries map[cacheKey]Aggregation
}

func newMemoCache() *memoCache {
	return &memoCache{entries: make(map[cacheKey]Aggregation)}
}

func (c *memoCache) get(k cacheKey) (Aggregation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	agg, ok := c.entries[k]
	return agg, ok
}

func (c *memoCache) put(k cacheKey, agg Aggregation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if k.tick != c.tick {
		// New tick — drop the previous window.
		c.entries = make(map[cacheKey]Aggregation)
		c.tick = k.tick
	}
	c.entries[k] = agg
}
