package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-memory event deduplication cache
type MemoryCache struct {
	mu          sync.Mutex
	entries     map[string]time.Time
	maxSize     int
	cleanup     *time.Ticker
	stop        chan struct{}
	enableLRU   bool
	accessOrder []string // For LRU eviction
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(maxSize int, cleanupInterval time.Duration, enableLRU bool) *MemoryCache {
	cache := &MemoryCache{
		entries:     make(map[string]time.Time),
		maxSize:     maxSize,
		cleanup:     time.NewTicker(cleanupInterval),
		stop:        make(chan struct{}),
		enableLRU:   enableLRU,
		accessOrder: make([]string, 0, maxSize),
	}

	go cache.cleanupExpired()

	return cache
}

// Seen checks if a webhook event has already been processed
func (c *MemoryCache) Seen(ctx context.Context, eventID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt, exists := c.entries[eventID]
	if !exists {
		return false, nil
	}

	if time.Now().After(expiresAt) {
		delete(c.entries, eventID)
		if c.enableLRU {
			c.removeFromAccessOrder(eventID)
		}
		return false, nil
	}

	if c.enableLRU {
		c.updateAccessOrder(eventID)
	}

	return true, nil
}

// Mark records a webhook event as processed
func (c *MemoryCache) Mark(ctx context.Context, eventID string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictOne()
	}

	c.entries[eventID] = time.Now().Add(ttl)

	if c.enableLRU {
		c.updateAccessOrder(eventID)
	}

	return nil
}

// evictOne frees a slot: least-recently-used if LRU is enabled, otherwise an
// expired entry, otherwise an arbitrary one. Caller must hold the lock.
func (c *MemoryCache) evictOne() {
	if c.enableLRU {
		if len(c.accessOrder) > 0 {
			oldest := c.accessOrder[0]
			delete(c.entries, oldest)
			c.accessOrder = c.accessOrder[1:]
		}
		return
	}

	now := time.Now()
	for key, expiresAt := range c.entries {
		if now.After(expiresAt) {
			delete(c.entries, key)
			return
		}
	}
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

// Close closes the cache and releases resources
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanup.Stop()
	close(c.stop)
	c.entries = nil
	c.accessOrder = nil

	return nil
}

// cleanupExpired periodically removes expired entries
func (c *MemoryCache) cleanupExpired() {
	for {
		select {
		case <-c.cleanup.C:
			c.mu.Lock()
			now := time.Now()
			for key, expiresAt := range c.entries {
				if now.After(expiresAt) {
					delete(c.entries, key)
					if c.enableLRU {
						c.removeFromAccessOrder(key)
					}
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

// updateAccessOrder updates the access order for LRU
func (c *MemoryCache) updateAccessOrder(eventID string) {
	c.removeFromAccessOrder(eventID)
	c.accessOrder = append(c.accessOrder, eventID)
}

// removeFromAccessOrder removes an entry from access order
func (c *MemoryCache) removeFromAccessOrder(eventID string) {
	for i, key := range c.accessOrder {
		if key == eventID {
			c.accessOrder = append(c.accessOrder[:i], c.accessOrder[i+1:]...)
			return
		}
	}
}
