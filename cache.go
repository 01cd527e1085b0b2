package tenantkit

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Cache is the interface for tenant caching implementations.
// Cached tenants are shared between requests and must be treated as
// read-only by handlers.
type Cache interface {
	// Get retrieves a tenant from cache by key.
	Get(ctx context.Context, key string) (*Tenant, bool)

	// Set stores a tenant in cache with the given TTL.
	Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration)

	// Delete removes a tenant from cache.
	Delete(ctx context.Context, key string)

	// Close releases any resources held by the cache.
	Close() error
}

// DefaultCacheSize is the default maximum number of items in the cache.
const DefaultCacheSize = 1000

// cleanupInterval is how often expired entries are swept out.
const cleanupInterval = time.Minute

type cacheEntry struct {
	key       string
	tenant    *Tenant
	expiresAt time.Time
}

// inMemoryCache is the default cache: a size-bounded LRU with per-entry
// expiry and a background sweep of expired entries.
type inMemoryCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front is the most recently used
	stop     chan struct{}
	done     chan struct{}
	closed   bool
}

// NewInMemoryCache creates an in-memory cache with automatic cleanup and
// the default size limit.
func NewInMemoryCache() Cache {
	return NewInMemoryCacheWithSize(DefaultCacheSize)
}

// NewInMemoryCacheWithSize creates an in-memory cache bounded to maxSize
// entries; the least recently used entry is evicted when full.
func NewInMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	c := &inMemoryCache{
		capacity: maxSize,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go c.cleanup()

	return c
}

func (c *inMemoryCache) Get(ctx context.Context, key string) (*Tenant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.remove(elem)
		return nil, false
	}

	c.order.MoveToFront(elem)
	return entry.tenant, true
}

func (c *inMemoryCache) Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.tenant = tenant
		entry.expiresAt = time.Now().Add(ttl)
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}

	elem := c.order.PushFront(&cacheEntry{
		key:       key,
		tenant:    tenant,
		expiresAt: time.Now().Add(ttl),
	})
	c.entries[key] = elem
}

func (c *inMemoryCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.remove(elem)
	}
}

// remove deletes the element from both the order list and the index.
// Must be called with the lock held.
func (c *inMemoryCache) remove(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.entries, elem.Value.(*cacheEntry).key)
}

// cleanup periodically drops expired entries so idle tenants do not pin
// memory until their next lookup.
func (c *inMemoryCache) cleanup() {
	defer close(c.done)

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *inMemoryCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*cacheEntry).expiresAt) {
			c.remove(elem)
		}
		elem = prev
	}
}

// Close stops the cleanup goroutine and waits for it to finish.
// The cache stays usable afterwards but no longer sweeps expired entries.
func (c *inMemoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

// noOpCache disables caching; every lookup goes to the provider.
type noOpCache struct{}

// NewNoOpCache creates a cache that stores nothing. Useful for tests and
// for providers that are already fast or must always be fresh.
func NewNoOpCache() Cache {
	return noOpCache{}
}

func (noOpCache) Get(ctx context.Context, key string) (*Tenant, bool) { return nil, false }

func (noOpCache) Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration) {}

func (noOpCache) Delete(ctx context.Context, key string) {}

func (noOpCache) Close() error { return nil }
