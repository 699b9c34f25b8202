package cache

import (
	"context"
	"time"
)

// NoOpCache is a no-op cache implementation used when deduplication is
// disabled. Every event is reported as unseen.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Seen returns false indicating the event has not been processed.
func (c *NoOpCache) Seen(ctx context.Context, eventID string) (bool, error) {
	return false, nil
}

// Mark is a no-op that does not persist any state.
func (c *NoOpCache) Mark(ctx context.Context, eventID string, ttl time.Duration) error {
	return nil
}

// Close is a no-op that does not release any resources.
func (c *NoOpCache) Close() error {
	return nil
}
