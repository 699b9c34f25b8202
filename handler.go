package linewebhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/natnael-t/line-webhook/webhook"
)

// SignatureHeader is the request header carrying the webhook signature.
// Header lookup is case-insensitive per net/http.
const SignatureHeader = "X-Line-Signature"

// Handler handles HTTP webhook requests from the LINE platform
type Handler struct {
	verifier    *Verifier
	processor   *webhook.Processor
	logger      zerolog.Logger
	maxBodySize int64
	destination string
}

// NewHandler creates a new webhook handler. destination is optional; when
// set, payloads addressed to a different bot are rejected.
func NewHandler(
	verifier *Verifier,
	processor *webhook.Processor,
	logger zerolog.Logger,
	maxBodySize int64,
	destination string,
) *Handler {
	return &Handler{
		verifier:    verifier,
		processor:   processor,
		logger:      logger,
		maxBodySize: maxBodySize,
		destination: destination,
	}
}

// HandleWebhook handles incoming webhook requests. The raw body is captured
// before any JSON decoding; the signature covers those exact bytes. Outcome
// mapping: missing or malformed signature header is 400, a well-formed
// mismatch is 401, and only a verified body is parsed.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error().
				Interface("panic", rec).
				Msg("Panic recovered in webhook handler")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}()

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limitedBody := http.MaxBytesReader(w, r.Body, h.maxBodySize)
	body, err := io.ReadAll(limitedBody)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.logger.Warn().
				Int64("max_size", h.maxBodySize).
				Msg("Webhook request body exceeds maximum size")
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Error().Err(err).Msg("Failed to read webhook body")
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get(SignatureHeader)
	if signature == "" {
		h.logger.Warn().Msg("Missing webhook signature header")
		http.Error(w, "Missing signature header", http.StatusBadRequest)
		return
	}

	ok, err := h.verifier.Verify(body, signature)
	if err != nil {
		// Malformed signature: a client bug or tampering, not a mismatch.
		h.logger.Warn().Err(err).Msg("Malformed webhook signature")
		http.Error(w, "Malformed signature", http.StatusBadRequest)
		return
	}
	if !ok {
		h.logger.Warn().Msg("Invalid webhook signature")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var callback webhook.CallbackRequest
	if err := json.Unmarshal(body, &callback); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse webhook payload")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if h.destination != "" && callback.Destination != h.destination {
		h.logger.Warn().
			Str("destination", callback.Destination).
			Msg("Webhook payload for unexpected destination")
		http.Error(w, "Unexpected destination", http.StatusBadRequest)
		return
	}

	if len(callback.Events) == 0 {
		// LINE sends an empty event list when verifying the endpoint.
		h.logger.Debug().Msg("Webhook received with no events")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
		return
	}

	h.logger.Debug().
		Int("event_count", len(callback.Events)).
		Msg("Processing webhook events")

	for _, event := range callback.Events {
		if err := h.processor.ProcessEvent(r.Context(), event); err != nil {
			h.logger.Error().Err(err).
				Str("event_type", event.Type).
				Str("webhook_event_id", event.WebhookEventID).
				Msg("Failed to process event")
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
