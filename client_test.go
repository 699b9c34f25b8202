package linewebhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natnael-t/line-webhook/message"
	"github.com/natnael-t/line-webhook/webhook"
)

func TestClientLifecycle(t *testing.T) {
	cfg, err := NewConfig().
		WithChannelSecret("secret").
		WithChannelAccessToken("token").
		Build()
	require.NoError(t, err)

	client, err := NewClient(cfg, zerolog.Nop())
	require.NoError(t, err)

	assert.Error(t, client.Health(), "health must fail before start")

	require.NoError(t, client.Start(context.Background()))
	assert.NoError(t, client.Health())
	assert.Error(t, client.Start(context.Background()), "double start must fail")

	require.NoError(t, client.Stop())
	assert.Error(t, client.Health())
	assert.NoError(t, client.Stop(), "stop is idempotent")
}

// TestEchoRoundTrip drives the full path of the echo-bot example: a signed
// webhook delivery comes in, the message handler replies through the
// Messaging API with the same text.
func TestEchoRoundTrip(t *testing.T) {
	var gotReply map[string]any
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/bot/message/reply", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewDecoder(r.Body).Decode(&gotReply)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	}))
	defer api.Close()

	cfg, err := NewConfig().
		WithChannelSecret(testChannelSecret).
		WithChannelAccessToken("test-token").
		WithAPIEndpoint(api.URL).
		WithCache(CacheConfig{
			Enabled: true,
			Type:    "memory",
			Memory:  MemoryConfig{MaxSize: 100},
		}).
		Build()
	require.NoError(t, err)

	client, err := NewClient(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, client.Start(context.Background()))
	defer client.Stop()

	client.SetMessageHandler(func(ctx context.Context, event webhook.Event, msg webhook.MessageContent) error {
		return client.ReplyMessage(ctx, event.ReplyToken, message.NewTextMessage(msg.Text))
	})

	body := []byte(`{"destination":"U123","events":[{` +
		`"type":"message","replyToken":"rt-echo","webhookEventId":"evt-1",` +
		`"deliveryContext":{"isRedelivery":false},` +
		`"message":{"id":"1","type":"text","text":"Hello, world"}}]}`)

	req := httptest.NewRequest(http.MethodPost, "/callback", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, signBody(testChannelSecret, body))
	rec := httptest.NewRecorder()
	client.HandleWebhook()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotReply)
	assert.Equal(t, "rt-echo", gotReply["replyToken"])
	msgs := gotReply["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hello, world", msgs[0].(map[string]any)["text"])

	// A redelivered copy of the same event must not trigger a second reply.
	gotReply = nil
	redelivered := bytes.Replace(body, []byte(`"isRedelivery":false`), []byte(`"isRedelivery":true`), 1)
	req = httptest.NewRequest(http.MethodPost, "/callback", bytes.NewReader(redelivered))
	req.Header.Set(SignatureHeader, signBody(testChannelSecret, redelivered))
	rec = httptest.NewRecorder()
	client.HandleWebhook()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotReply, "redelivered event must be deduplicated")
}
