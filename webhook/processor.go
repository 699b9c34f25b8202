package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/natnael-t/line-webhook/cache"
)

// DefaultDedupTTL is how long processed webhook event IDs are remembered.
// LINE redelivers webhook calls for up to an hour after a failed delivery,
// so anything comfortably above that window is enough.
const DefaultDedupTTL = 6 * time.Hour

// MessageHandler is a callback invoked for each text message event
type MessageHandler func(ctx context.Context, event Event, message MessageContent) error

// PostbackHandler is a callback invoked for each postback event
type PostbackHandler func(ctx context.Context, event Event, postback PostbackContent) error

// Processor routes verified webhook events to the configured callbacks,
// deduplicating redeliveries by webhook event ID.
type Processor struct {
	logger          zerolog.Logger
	cache           cache.Cache
	messageHandler  MessageHandler
	postbackHandler PostbackHandler
	dedupTTL        time.Duration
}

// NewProcessor creates a new event processor
func NewProcessor(
	logger zerolog.Logger,
	cache cache.Cache,
	messageHandler MessageHandler,
) *Processor {
	return &Processor{
		logger:         logger,
		cache:          cache,
		messageHandler: messageHandler,
		dedupTTL:       DefaultDedupTTL,
	}
}

// SetMessageHandler replaces the text message callback
func (p *Processor) SetMessageHandler(handler MessageHandler) {
	p.messageHandler = handler
}

// SetPostbackHandler sets the postback callback
func (p *Processor) SetPostbackHandler(handler PostbackHandler) {
	p.postbackHandler = handler
}

// ProcessEvent processes a single webhook event. Events the bot has no
// handler for, or that carry no actionable content, are skipped without
// error; only handler and cache-marking failures propagate.
func (p *Processor) ProcessEvent(ctx context.Context, event Event) error {
	if event.WebhookEventID != "" && p.cache != nil {
		seen, err := p.cache.Seen(ctx, event.WebhookEventID)
		if err != nil {
			p.logger.Warn().
				Err(err).
				Str("webhook_event_id", event.WebhookEventID).
				Msg("Failed to check event dedup cache, continuing")
		} else if seen {
			p.logger.Debug().
				Str("webhook_event_id", event.WebhookEventID).
				Bool("is_redelivery", event.IsRedelivery()).
				Msg("Event already processed, skipping")
			return nil
		}
	}

	if err := p.dispatch(ctx, event); err != nil {
		return err
	}

	if event.WebhookEventID != "" && p.cache != nil {
		if err := p.cache.Mark(ctx, event.WebhookEventID, p.dedupTTL); err != nil {
			p.logger.Warn().
				Err(err).
				Str("webhook_event_id", event.WebhookEventID).
				Msg("Failed to mark event as processed")
		}
	}

	return nil
}

func (p *Processor) dispatch(ctx context.Context, event Event) error {
	switch event.Type {
	case EventTypeMessage:
		return p.dispatchMessage(ctx, event)

	case EventTypePostback:
		if p.postbackHandler == nil || event.Postback == nil {
			return nil
		}
		if err := p.postbackHandler(ctx, event, *event.Postback); err != nil {
			return fmt.Errorf("postback handler failed: %w", err)
		}
		return nil

	default:
		p.logger.Debug().
			Str("event_type", event.Type).
			Msg("Unhandled event type, skipping")
		return nil
	}
}

func (p *Processor) dispatchMessage(ctx context.Context, event Event) error {
	if p.messageHandler == nil {
		return nil
	}
	if event.Message == nil {
		p.logger.Debug().Msg("Message event without message content, skipping")
		return nil
	}
	if event.Message.Type != MessageTypeText {
		p.logger.Debug().
			Str("message_type", event.Message.Type).
			Str("message_id", event.Message.ID).
			Msg("Non-text message, skipping")
		return nil
	}
	if event.ReplyToken == "" {
		// Redelivered events arrive without a usable reply token.
		p.logger.Debug().
			Str("message_id", event.Message.ID).
			Msg("Text message without reply token, skipping")
		return nil
	}

	if err := p.messageHandler(ctx, event, *event.Message); err != nil {
		return fmt.Errorf("message handler failed: %w", err)
	}
	return nil
}
