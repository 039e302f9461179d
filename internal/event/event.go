// Package event defines the envelope shared by every domain event and the
// Publisher contract implemented by the outbox and the live transport.
package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const DefaultDataVersion = "1.0"

var ErrInvalidEnvelope = errors.New("invalid event envelope")

// Envelope is the transport-neutral form of a domain event.
type Envelope struct {
	// ID is assigned by the outbox; publishers ignore it on input.
	ID          string
	Topic       string
	EventType   string
	Subject     string
	Data        []byte
	DataVersion string
	EventTime   time.Time
	// Headers carry propagated trace context.
	Headers map[string]string
}

// Publisher publishes domain events.
type Publisher interface {
	Publish(ctx context.Context, e Envelope) error
	// PublishBatch publishes events one by one and stops at the first error.
	// Events published before the error stay published.
	PublishBatch(ctx context.Context, events []Envelope) error
}

// New builds an envelope with data encoded as JSON.
func New(topic, eventType, subject string, data any) (Envelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}
	e := Envelope{
		Topic:       topic,
		EventType:   eventType,
		Subject:     subject,
		Data:        payload,
		DataVersion: DefaultDataVersion,
	}
	return e, e.Validate()
}

func (e Envelope) Validate() error {
	switch {
	case e.Topic == "":
		return fmt.Errorf("%w: topic is required", ErrInvalidEnvelope)
	case e.EventType == "":
		return fmt.Errorf("%w: event type is required", ErrInvalidEnvelope)
	}
	return nil
}

// Version returns DataVersion or the default when unset.
func (e Envelope) Version() string {
	if e.DataVersion == "" {
		return DefaultDataVersion
	}
	return e.DataVersion
}
