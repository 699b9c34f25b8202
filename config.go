package linewebhook

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	// Default values
	DefaultAPIEndpoint        = "https://api.line.me"
	DefaultMaxRequestBodySize = 2 * 1024 * 1024 // 2MB, webhook payloads are small
	DefaultCacheTTL           = 6 * time.Hour

	// Circuit breaker defaults
	DefaultCircuitBreakerMaxRequests = 5
	DefaultCircuitBreakerInterval    = 60 * time.Second
	DefaultCircuitBreakerTimeout     = 30 * time.Second
	DefaultCircuitBreakerThreshold   = 0.7

	// Retry defaults
	DefaultRetryInitialDelay = 1 * time.Second
	DefaultRetryMaxDelay     = 30 * time.Second
	DefaultRetryMaxAttempts  = 3
	DefaultRetryMultiplier   = 2.0

	// HTTP client defaults
	DefaultHTTPTimeout = 30 * time.Second

	// Redis defaults
	DefaultRedisPoolSize     = 10
	DefaultRedisMinIdleConns = 5
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second

	// Memory cache defaults
	DefaultMemoryCacheMaxSize         = 10000
	DefaultMemoryCacheCleanupInterval = 1 * time.Hour
)

// Environment variable names read by ConfigFromEnv
const (
	EnvChannelSecret      = "LINE_CHANNEL_SECRET"
	EnvChannelAccessToken = "LINE_CHANNEL_ACCESS_TOKEN"
)

// Config represents the main configuration for the SDK
type Config struct {
	// ChannelSecret is the shared secret used to verify webhook signatures.
	ChannelSecret string

	// ChannelAccessToken is the bearer token for the Messaging API. It is
	// distinct from the channel secret and never used for verification.
	ChannelAccessToken string

	// APIEndpoint is the Messaging API base URL.
	APIEndpoint string

	// Destination, when set, is matched against the destination field of
	// incoming webhook payloads (the bot's user ID).
	Destination string

	Cache CacheConfig

	CircuitBreaker CircuitBreakerConfig

	Retry RetryConfig

	HTTPClient HTTPClientConfig

	Logging LoggingConfig
}

// CacheConfig configures webhook event deduplication
type CacheConfig struct {
	Enabled    bool
	Type       string // "redis" or "memory"
	Redis      RedisConfig
	Memory     MemoryConfig
	DefaultTTL time.Duration
}

// RedisConfig configures Redis connection
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
}

// MemoryConfig configures in-memory cache
type MemoryConfig struct {
	MaxSize         int
	CleanupInterval time.Duration
	EnableLRU       bool
}

// CircuitBreakerConfig configures the circuit breaker around the
// Messaging API
type CircuitBreakerConfig struct {
	MaxRequests int
	Interval    time.Duration
	Timeout     time.Duration
	Threshold   float64 // Failure ratio threshold (0.0-1.0)
}

// RetryConfig configures the retry strategy for Messaging API calls
type RetryConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxAttempts  int
	Multiplier   float64
}

// HTTPClientConfig configures HTTP behavior on both sides: outbound request
// timeout and inbound webhook body limit
type HTTPClientConfig struct {
	Timeout            time.Duration
	MaxRequestBodySize int64
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "console"
}

// ConfigBuilder provides a fluent interface for building Config
type ConfigBuilder struct {
	config *Config
}

// NewConfig creates a new ConfigBuilder with defaults
func NewConfig() *ConfigBuilder {
	return &ConfigBuilder{
		config: &Config{
			APIEndpoint: DefaultAPIEndpoint,
			Cache: CacheConfig{
				Enabled:    false,
				Type:       "memory",
				DefaultTTL: DefaultCacheTTL,
				Redis: RedisConfig{
					PoolSize:     DefaultRedisPoolSize,
					MinIdleConns: DefaultRedisMinIdleConns,
					DialTimeout:  DefaultRedisDialTimeout,
					ReadTimeout:  DefaultRedisReadTimeout,
					WriteTimeout: DefaultRedisWriteTimeout,
				},
				Memory: MemoryConfig{
					MaxSize:         DefaultMemoryCacheMaxSize,
					CleanupInterval: DefaultMemoryCacheCleanupInterval,
					EnableLRU:       false,
				},
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxRequests: DefaultCircuitBreakerMaxRequests,
				Interval:    DefaultCircuitBreakerInterval,
				Timeout:     DefaultCircuitBreakerTimeout,
				Threshold:   DefaultCircuitBreakerThreshold,
			},
			Retry: RetryConfig{
				InitialDelay: DefaultRetryInitialDelay,
				MaxDelay:     DefaultRetryMaxDelay,
				MaxAttempts:  DefaultRetryMaxAttempts,
				Multiplier:   DefaultRetryMultiplier,
			},
			HTTPClient: HTTPClientConfig{
				Timeout:            DefaultHTTPTimeout,
				MaxRequestBodySize: DefaultMaxRequestBodySize,
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
			},
		},
	}
}

// ConfigFromEnv creates a ConfigBuilder seeded from the environment
// variables LINE_CHANNEL_SECRET and LINE_CHANNEL_ACCESS_TOKEN.
func ConfigFromEnv() *ConfigBuilder {
	return NewConfig().
		WithChannelSecret(os.Getenv(EnvChannelSecret)).
		WithChannelAccessToken(os.Getenv(EnvChannelAccessToken))
}

// WithChannelSecret sets the channel secret
func (b *ConfigBuilder) WithChannelSecret(secret string) *ConfigBuilder {
	b.config.ChannelSecret = secret
	return b
}

// WithChannelAccessToken sets the channel access token
func (b *ConfigBuilder) WithChannelAccessToken(token string) *ConfigBuilder {
	b.config.ChannelAccessToken = token
	return b
}

// WithAPIEndpoint overrides the Messaging API base URL
func (b *ConfigBuilder) WithAPIEndpoint(endpoint string) *ConfigBuilder {
	b.config.APIEndpoint = endpoint
	return b
}

// WithDestination sets the expected webhook destination (bot user ID)
func (b *ConfigBuilder) WithDestination(destination string) *ConfigBuilder {
	b.config.Destination = destination
	return b
}

// WithCache sets the cache configuration
func (b *ConfigBuilder) WithCache(cache CacheConfig) *ConfigBuilder {
	b.config.Cache = cache
	return b
}

// WithCircuitBreaker sets the circuit breaker configuration
func (b *ConfigBuilder) WithCircuitBreaker(cb CircuitBreakerConfig) *ConfigBuilder {
	b.config.CircuitBreaker = cb
	return b
}

// WithRetry sets the retry configuration
func (b *ConfigBuilder) WithRetry(retry RetryConfig) *ConfigBuilder {
	b.config.Retry = retry
	return b
}

// WithHTTPClient sets the HTTP client configuration
func (b *ConfigBuilder) WithHTTPClient(hc HTTPClientConfig) *ConfigBuilder {
	b.config.HTTPClient = hc
	return b
}

// WithLogging sets the logging configuration
func (b *ConfigBuilder) WithLogging(logging LoggingConfig) *ConfigBuilder {
	b.config.Logging = logging
	return b
}

// Build validates and returns the Config
func (b *ConfigBuilder) Build() (*Config, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	return b.config, nil
}

// Validate validates the configuration. Empty secrets are rejected here, at
// startup, so the per-request verifier never sees an unusable key.
func (c *Config) Validate() error {
	if c.ChannelSecret == "" {
		return errors.New("ChannelSecret is required")
	}

	if c.ChannelAccessToken == "" {
		return errors.New("ChannelAccessToken is required")
	}

	if c.APIEndpoint == "" {
		return errors.New("APIEndpoint must not be empty")
	}

	if c.Cache.Enabled {
		if c.Cache.Type != "redis" && c.Cache.Type != "memory" {
			return fmt.Errorf("invalid cache type: %s (must be 'redis' or 'memory')", c.Cache.Type)
		}

		if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
			return errors.New("Redis address is required when using Redis cache")
		}
	}

	if c.CircuitBreaker.Threshold < 0 || c.CircuitBreaker.Threshold > 1 {
		return errors.New("circuit breaker threshold must be between 0 and 1")
	}

	if c.Retry.Multiplier <= 0 {
		return errors.New("retry multiplier must be greater than 0")
	}

	if c.HTTPClient.MaxRequestBodySize <= 0 {
		return errors.New("max request body size must be greater than 0")
	}

	return nil
}
