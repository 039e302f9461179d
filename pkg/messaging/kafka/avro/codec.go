// Package avro encodes message values with a fixed Avro schema.
package avro

import (
	"fmt"

	hambavro "github.com/hamba/avro/v2"
)

// Codec encodes and decodes T with one parsed schema.
type Codec[T any] struct {
	schema hambavro.Schema
}

// NewCodec parses schemaJSON once. T must carry avro tags matching the schema.
func NewCodec[T any](schemaJSON string) (*Codec[T], error) {
	schema, err := hambavro.Parse(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse avro schema: %w", err)
	}
	return &Codec[T]{schema: schema}, nil
}

// MustNewCodec is NewCodec for package-level schemas.
func MustNewCodec[T any](schemaJSON string) *Codec[T] {
	c, err := NewCodec[T](schemaJSON)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Codec[T]) Encode(v T) ([]byte, error) {
	data, err := hambavro.Marshal(c.schema, v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal avro data: %w", err)
	}
	return data, nil
}

func (c *Codec[T]) Decode(data []byte) (T, error) {
	var v T
	if err := hambavro.Unmarshal(c.schema, data, &v); err != nil {
		return v, fmt.Errorf("failed to unmarshal avro data: %w", err)
	}
	return v, nil
}

// Fingerprint is the SHA-256 fingerprint of the canonical schema.
func (c *Codec[T]) Fingerprint() string {
	return fmt.Sprintf("%x", c.schema.Fingerprint())
}
