package outbox

import (
	"time"

	"github.com/Sokol111/device-catalogue-service/internal/event"
)

// Message is a pending or delivered domain event.
// Processed messages carry ExpireAt and are removed by the TTL index; pending
// ones never expire.
type Message struct {
	ID          string            `bson:"_id"`
	Topic       string            `bson:"topic"`
	EventType   string            `bson:"eventType"`
	Subject     string            `bson:"subject"`
	Data        []byte            `bson:"data"`
	DataVersion string            `bson:"dataVersion"`
	Headers     map[string]string `bson:"headers,omitempty"`
	EventTime   time.Time         `bson:"eventTime"`
	Processed   bool              `bson:"processed"`
	ProcessedAt *time.Time        `bson:"processedAt,omitempty"`
	Error       string            `bson:"error,omitempty"`
	RetryCount  int               `bson:"retryCount"`
	Version     int64             `bson:"version"`
	ExpireAt    *time.Time        `bson:"expireAt,omitempty"`
}

func newMessage(id string, e event.Envelope, now time.Time) *Message {
	return &Message{
		ID:          id,
		Topic:       e.Topic,
		EventType:   e.EventType,
		Subject:     e.Subject,
		Data:        e.Data,
		DataVersion: e.Version(),
		Headers:     e.Headers,
		EventTime:   now.UTC(),
	}
}

// Envelope returns the event to hand to the live publisher.
func (m *Message) Envelope() event.Envelope {
	return event.Envelope{
		ID:          m.ID,
		Topic:       m.Topic,
		EventType:   m.EventType,
		Subject:     m.Subject,
		Data:        m.Data,
		DataVersion: m.DataVersion,
		EventTime:   m.EventTime,
		Headers:     m.Headers,
	}
}

func (m *Message) markProcessed(now time.Time, retention time.Duration) {
	processedAt := now.UTC()
	expireAt := processedAt.Add(retention)
	m.Processed = true
	m.ProcessedAt = &processedAt
	m.ExpireAt = &expireAt
	m.Error = ""
}

func (m *Message) markFailed(reason string) {
	m.RetryCount++
	m.Error = reason
	m.Processed = false
}
