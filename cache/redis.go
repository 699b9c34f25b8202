package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache is a Redis-based event deduplication cache, for deployments
// where webhook delivery is load-balanced across multiple instances.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a new Redis cache
func NewRedisCache(config RedisConfig) (*RedisCache, error) {
	opts := &redis.Options{
		Addr:         config.Address,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	if config.EnableTLS {
		if config.TLSConfig != nil {
			opts.TLSConfig = config.TLSConfig
		} else {
			opts.TLSConfig = &tls.Config{
				InsecureSkipVerify: config.TLSSkipVerify,
			}
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		prefix: "line_webhook:",
	}, nil
}

// Seen checks if a webhook event has already been processed
func (c *RedisCache) Seen(ctx context.Context, eventID string) (bool, error) {
	exists, err := c.client.Exists(ctx, c.prefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check Redis key: %w", err)
	}
	return exists > 0, nil
}

// Mark records a webhook event as processed
func (c *RedisCache) Mark(ctx context.Context, eventID string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+eventID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to set Redis key: %w", err)
	}
	return nil
}

// Close closes the cache and releases resources
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Address       string
	Password      string
	DB            int
	PoolSize      int
	MinIdleConns  int
	DialTimeout   time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	EnableTLS     bool
	TLSSkipVerify bool
	TLSConfig     *tls.Config
}
