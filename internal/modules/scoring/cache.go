package scoring

import (
	"container/list"
	"sync"

	"github.com/aristath/growthmap/internal/domain"
)

// CacheKey identifies one pipeline result. Weights are the raw slider values,
// so two calls never miss because of normalization rounding.
type CacheKey struct {
	DatasetVersion uint64
	Weights        domain.WeightVector
	Granularity    domain.Granularity
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Entries       int    `json:"entries" msgpack:"entries"`
	MaxEntries    int    `json:"max_entries" msgpack:"max_entries"`
	Hits          uint64 `json:"hits" msgpack:"hits"`
	Misses        uint64 `json:"misses" msgpack:"misses"`
	Evictions     uint64 `json:"evictions" msgpack:"evictions"`
	Invalidations uint64 `json:"invalidations" msgpack:"invalidations"`
}

type cacheEntry[V any] struct {
	key   CacheKey
	value V
}

// Cache memoizes pipeline results with least-recently-used eviction.
// It is safe for concurrent use.
type Cache[V any] struct {
	mu         sync.Mutex
	maxEntries int
	order      *list.List
	items      map[CacheKey]*list.Element
	stats      CacheStats
}

// NewCache creates a cache holding at most maxEntries results (minimum 1)
func NewCache[V any](maxEntries int) *Cache[V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache[V]{
		maxEntries: maxEntries,
		order:      list.New(),
		items:      make(map[CacheKey]*list.Element),
	}
}

// Get returns the cached value for key
func (c *Cache[V]) Get(key CacheKey) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		c.stats.Hits++
		return el.Value.(*cacheEntry[V]).value, true
	}

	c.stats.Misses++
	var zero V
	return zero, false
}

// Put stores value under key, evicting the least recently used entry when full
func (c *Cache[V]) Put(key CacheKey, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry[V]).value = value
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&cacheEntry[V]{key: key, value: value})

	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry[V]).key)
		c.stats.Evictions++
	}
}

// Invalidate drops every entry; called when the dataset is replaced
func (c *Cache[V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.items = make(map[CacheKey]*list.Element)
	c.stats.Invalidations++
}

// Stats returns a snapshot of the counters
func (c *Cache[V]) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = c.order.Len()
	s.MaxEntries = c.maxEntries
	return s
}
