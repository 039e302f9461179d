package avro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDevice struct {
	ID     string `avro:"id"`
	Status string `avro:"status"`
	Count  int64  `avro:"count"`
}

const testDeviceSchema = `{
	"type": "record",
	"name": "TestDevice",
	"namespace": "test",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "count", "type": "long"}
	]
}`

func TestCodec(t *testing.T) {
	t.Run("encodes and decodes", func(t *testing.T) {
		codec, err := NewCodec[testDevice](testDeviceSchema)
		require.NoError(t, err)

		data, err := codec.Encode(testDevice{ID: "d1", Status: "Available", Count: 3})
		require.NoError(t, err)
		assert.NotEmpty(t, data)

		got, err := codec.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, testDevice{ID: "d1", Status: "Available", Count: 3}, got)
	})

	t.Run("invalid schema", func(t *testing.T) {
		_, err := NewCodec[testDevice](`{"type": "record"}`)
		assert.Error(t, err)
	})

	t.Run("must panics on invalid schema", func(t *testing.T) {
		assert.Panics(t, func() {
			MustNewCodec[testDevice](`not json`)
		})
	})

	t.Run("truncated data", func(t *testing.T) {
		codec := MustNewCodec[testDevice](testDeviceSchema)
		data, err := codec.Encode(testDevice{ID: "device-with-long-id", Status: "Lost"})
		require.NoError(t, err)

		_, err = codec.Decode(data[:3])
		assert.Error(t, err)
	})

	t.Run("fingerprint is stable", func(t *testing.T) {
		a := MustNewCodec[testDevice](testDeviceSchema)
		b := MustNewCodec[testDevice](testDeviceSchema)
		assert.NotEmpty(t, a.Fingerprint())
		assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	})
}
