package linewebhook

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/natnael-t/line-webhook/cache"
	"github.com/natnael-t/line-webhook/message"
	"github.com/natnael-t/line-webhook/webhook"
)

// Client is the main SDK client interface
type Client interface {
	// Start initializes and starts the client
	Start(ctx context.Context) error

	// Stop gracefully stops the client
	Stop() error

	// Health returns the health status
	Health() error

	// HandleWebhook returns the HTTP handler for the webhook endpoint
	HandleWebhook() http.HandlerFunc

	// ReplyMessage answers a webhook event using its reply token
	ReplyMessage(ctx context.Context, replyToken string, messages ...message.Message) error

	// PushMessage sends messages to a user, group or room ID
	PushMessage(ctx context.Context, to string, messages ...message.Message) error

	// Multicast sends messages to multiple user IDs
	Multicast(ctx context.Context, to []string, messages ...message.Message) error

	// Broadcast sends messages to every friend of the bot
	Broadcast(ctx context.Context, messages ...message.Message) error
}

// BotClient is the base implementation of Client
type BotClient struct {
	cfg       *Config
	logger    zerolog.Logger
	messaging *MessagingClient
	processor *webhook.Processor
	handler   *Handler
	cache     cache.Cache
	mu        sync.RWMutex
	started   bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewClient creates a new LINE bot client
func NewClient(cfg *Config, logger zerolog.Logger) (*BotClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cacheInstance, err := newCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	verifier := NewVerifier(cfg.ChannelSecret)
	messaging := NewMessagingClient(cfg, logger)
	processor := webhook.NewProcessor(logger, cacheInstance, nil)
	handler := NewHandler(verifier, processor, logger, cfg.HTTPClient.MaxRequestBodySize, cfg.Destination)

	return &BotClient{
		cfg:       cfg,
		logger:    logger,
		messaging: messaging,
		processor: processor,
		handler:   handler,
		cache:     cacheInstance,
	}, nil
}

// SetMessageHandler sets the callback invoked for each verified text
// message event.
func (c *BotClient) SetMessageHandler(handler webhook.MessageHandler) {
	c.processor.SetMessageHandler(handler)
}

// SetPostbackHandler sets the callback invoked for each postback event.
func (c *BotClient) SetPostbackHandler(handler webhook.PostbackHandler) {
	c.processor.SetPostbackHandler(handler)
}

// Start initializes and starts the client
func (c *BotClient) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return fmt.Errorf("client already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.started = true

	c.logger.Info().Msg("LINE webhook SDK client started")

	return nil
}

// Stop gracefully stops the client
func (c *BotClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to close cache")
		}
	}

	c.started = false
	c.logger.Info().Msg("LINE webhook SDK client stopped")

	return nil
}

// Health returns the health status
func (c *BotClient) Health() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started {
		return fmt.Errorf("client not started")
	}

	return nil
}

// HandleWebhook returns the HTTP handler for the webhook endpoint
func (c *BotClient) HandleWebhook() http.HandlerFunc {
	return c.handler.HandleWebhook
}

// Messaging returns the underlying Messaging API client
func (c *BotClient) Messaging() *MessagingClient {
	return c.messaging
}

// ReplyMessage answers a webhook event using its reply token
func (c *BotClient) ReplyMessage(ctx context.Context, replyToken string, messages ...message.Message) error {
	return c.messaging.ReplyMessage(ctx, replyToken, messages...)
}

// PushMessage sends messages to a user, group or room ID
func (c *BotClient) PushMessage(ctx context.Context, to string, messages ...message.Message) error {
	return c.messaging.PushMessage(ctx, to, messages...)
}

// Multicast sends messages to multiple user IDs
func (c *BotClient) Multicast(ctx context.Context, to []string, messages ...message.Message) error {
	return c.messaging.Multicast(ctx, to, messages...)
}

// Broadcast sends messages to every friend of the bot
func (c *BotClient) Broadcast(ctx context.Context, messages ...message.Message) error {
	return c.messaging.Broadcast(ctx, messages...)
}

// GetCache returns the cache instance
func (c *BotClient) GetCache() cache.Cache {
	return c.cache
}
