package cache

import (
	"sync"
	"time"
)

// Cache key names for the read-heavy collections.
const (
	KeyProducts         = "products"
	KeyCategories       = "categories"
	KeySizes            = "sizes"
	KeyColors           = "colors"
	KeyCustomers        = "customers"
	KeySalesOrders      = "sales_orders"
	KeyProductionOrders = "production_orders"
	KeyUsers            = "users"
	KeyDashboardStats   = "dashboard_stats"
	KeyRecentActivities = "recent_activities"
)

// Default time-to-live values.
const (
	DefaultTTL = 5 * time.Minute
	QuickTTL   = time.Minute
)

type entry struct {
	data      interface{}
	fetchedAt time.Time
}

// Cache is a read-through memoization of named fetches with a per-call TTL.
// The mutex only guards the map; fetch runs unlocked, so concurrent callers
// hitting a stale key may each invoke fetch. That redundancy is tolerated
// because the backing store is read-only with respect to the cache.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Fetch produces a fresh value for a cache key.
type Fetch func() (interface{}, error)

// Get returns the cached value for key, invoking fetch first when the key is
// absent or older than ttl. A fetch error is returned without disturbing any
// previously cached value.
func (c *Cache) Get(key string, ttl time.Duration, fetch Fetch) (interface{}, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	fresh := ok && c.now().Sub(e.fetchedAt) <= ttl
	c.mu.Unlock()

	if fresh {
		return e.data, nil
	}

	data, err := fetch()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{data: data, fetchedAt: c.now()}
	c.mu.Unlock()

	return data, nil
}

// Invalidate forces the next Get for key to refetch.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// Reset drops every cached entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}
