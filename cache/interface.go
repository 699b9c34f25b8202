package cache

import (
	"context"
	"time"
)

// Cache defines the interface for webhook event deduplication
type Cache interface {
	// Seen checks if a webhook event has already been processed
	Seen(ctx context.Context, eventID string) (bool, error)

	// Mark records a webhook event as processed
	Mark(ctx context.Context, eventID string, ttl time.Duration) error

	// Close closes the cache and releases resources
	Close() error
}
