package linewebhook

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBuilderDefaults(t *testing.T) {
	cfg, err := NewConfig().
		WithChannelSecret("secret").
		WithChannelAccessToken("token").
		Build()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIEndpoint, cfg.APIEndpoint)
	assert.Equal(t, int64(DefaultMaxRequestBodySize), cfg.HTTPClient.MaxRequestBodySize)
	assert.Equal(t, DefaultRetryMaxAttempts, cfg.Retry.MaxAttempts)
	assert.False(t, cfg.Cache.Enabled)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConfigBuilder) *ConfigBuilder
		wantErr string
	}{
		{
			name:    "missing channel secret",
			mutate:  func(b *ConfigBuilder) *ConfigBuilder { return b.WithChannelSecret("") },
			wantErr: "ChannelSecret",
		},
		{
			name:    "missing access token",
			mutate:  func(b *ConfigBuilder) *ConfigBuilder { return b.WithChannelAccessToken("") },
			wantErr: "ChannelAccessToken",
		},
		{
			name:    "empty endpoint",
			mutate:  func(b *ConfigBuilder) *ConfigBuilder { return b.WithAPIEndpoint("") },
			wantErr: "APIEndpoint",
		},
		{
			name: "bad cache type",
			mutate: func(b *ConfigBuilder) *ConfigBuilder {
				return b.WithCache(CacheConfig{Enabled: true, Type: "bogus"})
			},
			wantErr: "invalid cache type",
		},
		{
			name: "redis cache without address",
			mutate: func(b *ConfigBuilder) *ConfigBuilder {
				return b.WithCache(CacheConfig{Enabled: true, Type: "redis"})
			},
			wantErr: "Redis address",
		},
		{
			name: "breaker threshold out of range",
			mutate: func(b *ConfigBuilder) *ConfigBuilder {
				return b.WithCircuitBreaker(CircuitBreakerConfig{Threshold: 1.5})
			},
			wantErr: "threshold",
		},
		{
			name: "non-positive retry multiplier",
			mutate: func(b *ConfigBuilder) *ConfigBuilder {
				return b.WithRetry(RetryConfig{Multiplier: 0})
			},
			wantErr: "multiplier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewConfig().
				WithChannelSecret("secret").
				WithChannelAccessToken("token")
			_, err := tt.mutate(b).Build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvChannelSecret, "env-secret")
	t.Setenv(EnvChannelAccessToken, "env-token")

	cfg, err := ConfigFromEnv().Build()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.ChannelSecret)
	assert.Equal(t, "env-token", cfg.ChannelAccessToken)
}

func TestNewClientRejectsInvalidConfig(t *testing.T) {
	cfg := &Config{} // empty secrets
	_, err := NewClient(cfg, zerolog.Nop())
	assert.Error(t, err)
}
