package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("encodes data as json", func(t *testing.T) {
		ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		e, err := New(TopicDevice, DeviceStatusChanged, "d1", StatusChangedData{
			DeviceID:       "d1",
			PreviousStatus: "Available",
			NewStatus:      "Unavailable",
			Timestamp:      ts,
		})
		require.NoError(t, err)

		assert.Equal(t, TopicDevice, e.Topic)
		assert.Equal(t, DeviceStatusChanged, e.EventType)
		assert.Equal(t, "d1", e.Subject)
		assert.Equal(t, DefaultDataVersion, e.DataVersion)

		var data StatusChangedData
		require.NoError(t, json.Unmarshal(e.Data, &data))
		assert.Equal(t, "Unavailable", data.NewStatus)
		assert.True(t, ts.Equal(data.Timestamp))
	})

	t.Run("rejects missing topic", func(t *testing.T) {
		_, err := New("", DeviceCreated, "d1", DeviceData{})
		assert.ErrorIs(t, err, ErrInvalidEnvelope)
	})

	t.Run("rejects missing event type", func(t *testing.T) {
		_, err := New(TopicDevice, "", "d1", DeviceData{})
		assert.ErrorIs(t, err, ErrInvalidEnvelope)
	})

	t.Run("fails on unencodable data", func(t *testing.T) {
		_, err := New(TopicDevice, DeviceCreated, "d1", make(chan int))
		assert.Error(t, err)
	})
}

func TestEnvelopeVersion(t *testing.T) {
	assert.Equal(t, "1.0", Envelope{}.Version())
	assert.Equal(t, "2.0", Envelope{DataVersion: "2.0"}.Version())
}
