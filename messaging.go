package linewebhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/natnael-t/line-webhook/message"
)

// APIError is a non-2xx response from the Messaging API
type APIError struct {
	StatusCode int
	Message    string
	Details    []APIErrorDetail
}

// APIErrorDetail pinpoints the offending property of a rejected request
type APIErrorDetail struct {
	Message  string `json:"message"`
	Property string `json:"property"`
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("messaging API error: status %d: %s (%s: %s)",
			e.StatusCode, e.Message, e.Details[0].Property, e.Details[0].Message)
	}
	return fmt.Sprintf("messaging API error: status %d: %s", e.StatusCode, e.Message)
}

// MessagingClient sends replies and pushes through the LINE Messaging API.
// Push-style sends carry an X-Line-Retry-Key so the retry loop cannot
// deliver a message twice.
type MessagingClient struct {
	cfg            *Config
	logger         zerolog.Logger
	httpClient     *http.Client
	circuitBreaker *gobreaker.CircuitBreaker
}

// NewMessagingClient creates a new Messaging API client
func NewMessagingClient(cfg *Config, logger zerolog.Logger) *MessagingClient {
	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "line-messaging-api",
		MaxRequests: uint32(cfg.CircuitBreaker.MaxRequests),
		Interval:    cfg.CircuitBreaker.Interval,
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < uint32(cfg.CircuitBreaker.MaxRequests) {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.CircuitBreaker.Threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info().
				Str("name", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Messaging API circuit breaker state changed")
		},
	})

	return &MessagingClient{
		cfg:            cfg,
		logger:         logger,
		httpClient:     &http.Client{Timeout: cfg.HTTPClient.Timeout},
		circuitBreaker: circuitBreaker,
	}
}

// ReplyMessage answers a webhook event using its reply token. Reply tokens
// are single-use and short-lived, so no retry key is needed.
func (mc *MessagingClient) ReplyMessage(ctx context.Context, replyToken string, messages ...message.Message) error {
	if replyToken == "" {
		return fmt.Errorf("reply token must not be empty")
	}

	reqBody := map[string]interface{}{
		"replyToken": replyToken,
		"messages":   messages,
	}

	return mc.executeWithRetry(ctx, "reply_message", func() error {
		return mc.post(ctx, "/v2/bot/message/reply", reqBody, "")
	})
}

// PushMessage sends messages to a user, group or room ID
func (mc *MessagingClient) PushMessage(ctx context.Context, to string, messages ...message.Message) error {
	if to == "" {
		return fmt.Errorf("recipient must not be empty")
	}

	reqBody := map[string]interface{}{
		"to":       to,
		"messages": messages,
	}

	retryKey := uuid.NewString()
	return mc.executeWithRetry(ctx, "push_message", func() error {
		return mc.post(ctx, "/v2/bot/message/push", reqBody, retryKey)
	})
}

// Multicast sends messages to multiple user IDs
func (mc *MessagingClient) Multicast(ctx context.Context, to []string, messages ...message.Message) error {
	if len(to) == 0 {
		return fmt.Errorf("recipient list must not be empty")
	}

	reqBody := map[string]interface{}{
		"to":       to,
		"messages": messages,
	}

	retryKey := uuid.NewString()
	return mc.executeWithRetry(ctx, "multicast", func() error {
		return mc.post(ctx, "/v2/bot/message/multicast", reqBody, retryKey)
	})
}

// Broadcast sends messages to every user who has friended the bot
func (mc *MessagingClient) Broadcast(ctx context.Context, messages ...message.Message) error {
	reqBody := map[string]interface{}{
		"messages": messages,
	}

	retryKey := uuid.NewString()
	return mc.executeWithRetry(ctx, "broadcast", func() error {
		return mc.post(ctx, "/v2/bot/message/broadcast", reqBody, retryKey)
	})
}

// post sends one authenticated request. A 409 means a previous attempt with
// the same retry key was already accepted, which is success for us.
func (mc *MessagingClient) post(ctx context.Context, path string, reqBody interface{}, retryKey string) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mc.cfg.APIEndpoint+path, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mc.cfg.ChannelAccessToken)
	if retryKey != "" {
		req.Header.Set("X-Line-Retry-Key", retryKey)
	}

	resp, err := mc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if resp.StatusCode == http.StatusConflict && retryKey != "" {
		mc.logger.Debug().
			Str("retry_key", retryKey).
			Msg("Request already accepted under this retry key")
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: "unknown error"}
	var errBody struct {
		Message string           `json:"message"`
		Details []APIErrorDetail `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Message != "" {
		apiErr.Message = errBody.Message
		apiErr.Details = errBody.Details
	}
	return apiErr
}

// retryable reports whether an attempt is worth repeating. Client errors
// other than rate limiting are deterministic rejections.
func retryable(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return false
	}
	return true
}

func (mc *MessagingClient) executeWithRetry(ctx context.Context, operation string, fn func() error) error {
	maxAttempts := mc.cfg.Retry.MaxAttempts
	delay := mc.cfg.Retry.InitialDelay

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		_, err := mc.circuitBreaker.Execute(func() (interface{}, error) {
			return nil, fn()
		})
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) {
			return err
		}

		if attempt < maxAttempts-1 {
			mc.logger.Warn().
				Err(err).
				Str("operation", operation).
				Int("attempt", attempt+1).
				Int("max_attempts", maxAttempts).
				Dur("retry_delay", delay).
				Msg("Operation failed, retrying")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}

			delay = time.Duration(float64(delay) * mc.cfg.Retry.Multiplier)
			if delay > mc.cfg.Retry.MaxDelay {
				delay = mc.cfg.Retry.MaxDelay
			}
		}
	}

	return fmt.Errorf("operation %s failed after %d attempts: %w", operation, maxAttempts, lastErr)
}
