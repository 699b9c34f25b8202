package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natnael-t/line-webhook/cache"
)

func textEvent(id, replyToken, text string) Event {
	return Event{
		Type:           EventTypeMessage,
		Timestamp:      1663828301631,
		WebhookEventID: id,
		Source:         &EventSource{Type: "user", UserID: "U4af4980629"},
		ReplyToken:     replyToken,
		Message: &MessageContent{
			ID:   "444573844083572737",
			Type: MessageTypeText,
			Text: text,
		},
	}
}

func TestProcessorDispatchesTextMessages(t *testing.T) {
	var got []string
	p := NewProcessor(zerolog.Nop(), cache.NewNoOpCache(),
		func(ctx context.Context, event Event, message MessageContent) error {
			got = append(got, message.Text)
			return nil
		})

	require.NoError(t, p.ProcessEvent(context.Background(), textEvent("e1", "rt1", "hello")))
	assert.Equal(t, []string{"hello"}, got)
}

func TestProcessorSkips(t *testing.T) {
	calls := 0
	p := NewProcessor(zerolog.Nop(), cache.NewNoOpCache(),
		func(ctx context.Context, event Event, message MessageContent) error {
			calls++
			return nil
		})
	ctx := context.Background()

	// Non-message event types are not errors.
	require.NoError(t, p.ProcessEvent(ctx, Event{Type: EventTypeFollow, ReplyToken: "rt"}))

	// Non-text messages are skipped.
	sticker := textEvent("e2", "rt2", "")
	sticker.Message.Type = MessageTypeSticker
	require.NoError(t, p.ProcessEvent(ctx, sticker))

	// Missing reply token means there is nothing to respond to.
	noToken := textEvent("e3", "", "hi")
	require.NoError(t, p.ProcessEvent(ctx, noToken))

	// Message event without content.
	require.NoError(t, p.ProcessEvent(ctx, Event{Type: EventTypeMessage, ReplyToken: "rt"}))

	assert.Zero(t, calls)
}

func TestProcessorHandlerErrorPropagates(t *testing.T) {
	wantErr := errors.New("reply failed")
	p := NewProcessor(zerolog.Nop(), cache.NewNoOpCache(),
		func(ctx context.Context, event Event, message MessageContent) error {
			return wantErr
		})

	err := p.ProcessEvent(context.Background(), textEvent("e1", "rt1", "hello"))
	require.ErrorIs(t, err, wantErr)
}

func TestProcessorDeduplicatesRedeliveries(t *testing.T) {
	c := cache.NewMemoryCache(100, time.Minute, false)
	defer c.Close()

	calls := 0
	p := NewProcessor(zerolog.Nop(), c,
		func(ctx context.Context, event Event, message MessageContent) error {
			calls++
			return nil
		})
	ctx := context.Background()

	first := textEvent("evt-123", "rt1", "hello")
	require.NoError(t, p.ProcessEvent(ctx, first))

	redelivered := textEvent("evt-123", "rt2", "hello")
	redelivered.DeliveryContext = &DeliveryContext{IsRedelivery: true}
	require.NoError(t, p.ProcessEvent(ctx, redelivered))

	assert.Equal(t, 1, calls, "redelivered event must not be handled twice")
}

func TestProcessorFailedHandlerIsNotMarkedProcessed(t *testing.T) {
	c := cache.NewMemoryCache(100, time.Minute, false)
	defer c.Close()

	calls := 0
	p := NewProcessor(zerolog.Nop(), c,
		func(ctx context.Context, event Event, message MessageContent) error {
			calls++
			if calls == 1 {
				return errors.New("transient")
			}
			return nil
		})
	ctx := context.Background()

	evt := textEvent("evt-456", "rt1", "hello")
	require.Error(t, p.ProcessEvent(ctx, evt))
	require.NoError(t, p.ProcessEvent(ctx, evt))
	assert.Equal(t, 2, calls, "a failed event must stay eligible for redelivery")
}

func TestProcessorPostback(t *testing.T) {
	var data string
	p := NewProcessor(zerolog.Nop(), cache.NewNoOpCache(), nil)
	p.SetPostbackHandler(func(ctx context.Context, event Event, postback PostbackContent) error {
		data = postback.Data
		return nil
	})

	evt := Event{
		Type:       EventTypePostback,
		ReplyToken: "rt1",
		Postback:   &PostbackContent{Data: "action=buy&itemid=123"},
	}
	require.NoError(t, p.ProcessEvent(context.Background(), evt))
	assert.Equal(t, "action=buy&itemid=123", data)
}

func TestCallbackRequestUnmarshal(t *testing.T) {
	payload := []byte(`{
		"destination": "xxxxxxxxxx",
		"events": [
			{
				"type": "message",
				"message": {"type": "text", "id": "14353798921116", "text": "Hello, world"},
				"timestamp": 1625665242211,
				"source": {"type": "user", "userId": "U80696558e1aa831..."},
				"replyToken": "757913772c4646b784d4b7ce46d12671",
				"mode": "active",
				"webhookEventId": "01FZ74A0TDDPYRVKNK77XKC3ZR",
				"deliveryContext": {"isRedelivery": false}
			},
			{
				"type": "follow",
				"timestamp": 1625665242214,
				"source": {"type": "user", "userId": "Ufc729a925b3abef..."},
				"replyToken": "bb173f4d9cf64aed9d408ab4e36339ad",
				"mode": "active",
				"webhookEventId": "01FZ74ASS536FW97EX38NKCZQK",
				"deliveryContext": {"isRedelivery": false}
			}
		]
	}`)

	var req CallbackRequest
	require.NoError(t, json.Unmarshal(payload, &req))

	assert.Equal(t, "xxxxxxxxxx", req.Destination)
	require.Len(t, req.Events, 2)

	msg := req.Events[0]
	assert.Equal(t, EventTypeMessage, msg.Type)
	assert.Equal(t, "757913772c4646b784d4b7ce46d12671", msg.ReplyToken)
	assert.Equal(t, "01FZ74A0TDDPYRVKNK77XKC3ZR", msg.WebhookEventID)
	assert.False(t, msg.IsRedelivery())
	require.NotNil(t, msg.Message)
	assert.Equal(t, "Hello, world", msg.Message.Text)

	assert.Equal(t, EventTypeFollow, req.Events[1].Type)
	assert.Nil(t, req.Events[1].Message)
}
