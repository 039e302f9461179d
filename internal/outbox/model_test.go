package outbox

import (
	"testing"
	"time"

	"github.com/Sokol111/device-catalogue-service/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_StateTransitions(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	msg := newMessage("id-1", event.Envelope{Topic: "t", EventType: "e"}, now)

	assert.Equal(t, event.DefaultDataVersion, msg.DataVersion)
	assert.False(t, msg.Processed)

	msg.markFailed("boom")
	msg.markFailed("boom again")
	assert.Equal(t, 2, msg.RetryCount)
	assert.Equal(t, "boom again", msg.Error)
	assert.False(t, msg.Processed)

	msg.markProcessed(now.Add(time.Minute), time.Hour)
	assert.True(t, msg.Processed)
	require.NotNil(t, msg.ProcessedAt)
	require.NotNil(t, msg.ExpireAt)
	assert.Equal(t, now.Add(time.Minute), *msg.ProcessedAt)
	assert.Equal(t, now.Add(time.Minute+time.Hour), *msg.ExpireAt)
	assert.Empty(t, msg.Error)
	assert.Equal(t, 2, msg.RetryCount)
	assert.Equal(t, now, msg.EventTime)
}

func TestMessage_Envelope(t *testing.T) {
	msg := newMessage("id-1", event.Envelope{
		Topic:     "t",
		EventType: "e",
		Subject:   "s",
		Data:      []byte("x"),
		Headers:   map[string]string{"traceparent": "tp"},
	}, time.Unix(0, 0))

	e := msg.Envelope()

	assert.Equal(t, "id-1", e.ID)
	assert.Equal(t, "s", e.Subject)
	assert.Equal(t, []byte("x"), e.Data)
	assert.Equal(t, "tp", e.Headers["traceparent"])
}
