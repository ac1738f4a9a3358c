package cache

import (
	"container/list"
	"sync"
	"time"
)

type lruEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time // zero means no expiry
}

func (e *lruEntry[V]) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// lruCache evicts the least recently used entry once maxSize is exceeded.
// With a TTL configured, stale entries are also dropped on access.
type lruCache[V any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	order   *list.List // front = most recently used
	stats   *Statistics
	metrics *cacheMetrics
	evictFn EvictCallback[V]
}

// NewLRU creates an LRU cache holding at most maxSize entries. Sizes below
// one default to one. Returns an error only when metrics registration fails.
func NewLRU[V any](maxSize int, options ...Option[V]) (Cache[V], error) {
	if maxSize < 1 {
		maxSize = 1
	}
	opts := applyOptions(options...)

	var metrics *cacheMetrics
	if opts.metricsReg != nil {
		var err error
		metrics, err = newCacheMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, err
		}
	}

	return &lruCache[V]{
		maxSize: maxSize,
		ttl:     opts.ttl,
		items:   make(map[string]*list.Element),
		order:   list.New(),
		stats:   &Statistics{},
		metrics: metrics,
		evictFn: opts.evictCallback,
	}, nil
}

func (c *lruCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, exists := c.items[key]
	if exists {
		entry := element.Value.(*lruEntry[V])
		if entry.expired() {
			c.removeElement(element, true)
			exists = false
		} else {
			c.order.MoveToFront(element)
			c.stats.Hit()
			c.metrics.recordHit()
			return entry.value, true
		}
	}

	var zero V
	c.stats.Miss()
	c.metrics.recordMiss()
	return zero, false
}

func (c *lruCache[V]) Set(key string, value V) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}

	if element, exists := c.items[key]; exists {
		entry := element.Value.(*lruEntry[V])
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(element)
		c.stats.Set()
		c.metrics.recordSet()
		return false, nil
	}

	element := c.order.PushFront(&lruEntry[V]{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = element
	c.stats.Set()
	c.metrics.recordSet()

	if len(c.items) > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest, true)
		}
	}
	c.metrics.recordSize(len(c.items))
	return true, nil
}

func (c *lruCache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, exists := c.items[key]
	if !exists {
		return false
	}
	c.removeElement(element, false)
	c.stats.Delete()
	c.metrics.recordDelete()
	c.metrics.recordSize(len(c.items))
	return true
}

func (c *lruCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.metrics.recordSize(0)
}

func (c *lruCache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *lruCache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.items))
	for element := c.order.Front(); element != nil; element = element.Next() {
		keys = append(keys, element.Value.(*lruEntry[V]).key)
	}
	return keys
}

func (c *lruCache[V]) Stats() *Statistics { return c.stats }

// removeElement must be called with the lock held.
func (c *lruCache[V]) removeElement(element *list.Element, evicted bool) {
	entry := element.Value.(*lruEntry[V])
	c.order.Remove(element)
	delete(c.items, entry.key)
	if evicted {
		c.stats.Eviction()
		c.metrics.recordEviction()
		if c.evictFn != nil {
			c.evictFn(entry.key, entry.value)
		}
	}
}
