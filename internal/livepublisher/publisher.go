// Package livepublisher delivers domain events to Kafka.
package livepublisher

import (
	"context"
	"fmt"
	"time"

	"github.com/Sokol111/device-catalogue-service/internal/event"
	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/consumer"
	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/producer"
	"github.com/Sokol111/device-catalogue-service/pkg/observability/tracing"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	HeaderEventID     = "event-id"
	HeaderContentType = "content-type"
	HeaderSchema      = "schema-fingerprint"
)

type kafkaPublisher struct {
	producer producer.Producer
	tracer   trace.Tracer
	log      *zap.Logger
}

func newKafkaPublisher(p producer.Producer, tp trace.TracerProvider, log *zap.Logger) *kafkaPublisher {
	return &kafkaPublisher{
		producer: p,
		tracer:   tp.Tracer("livepublisher"),
		log:      log.With(zap.String("component", "live-publisher")),
	}
}

func (p *kafkaPublisher) Enabled() bool {
	return true
}

// Publish sends e and waits for the broker acknowledgement. The trace stored
// in e.Headers, if any, is continued by the producer span.
func (p *kafkaPublisher) Publish(ctx context.Context, e event.Envelope) error {
	if len(e.Headers) > 0 {
		ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(e.Headers))
	}
	ctx, span := p.tracer.Start(ctx, "kafka.produce",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", e.Topic),
			attribute.String("messaging.message.id", e.ID),
			attribute.String("event.type", e.EventType),
		),
	)
	defer span.End()

	msg, err := p.buildMessage(e)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode failed")
		return err
	}
	tracing.InjectKafkaHeaders(ctx, msg)

	if err := p.producer.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return fmt.Errorf("failed to publish %s %s: %w", e.EventType, e.ID, err)
	}

	p.log.Debug("event published",
		zap.String("id", e.ID),
		zap.String("topic", e.Topic),
		zap.String("event_type", e.EventType),
	)
	return nil
}

func (p *kafkaPublisher) PublishBatch(ctx context.Context, events []event.Envelope) error {
	for _, e := range events {
		if err := p.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (p *kafkaPublisher) buildMessage(e event.Envelope) (*kafka.Message, error) {
	eventTime := e.EventTime
	if eventTime.IsZero() {
		eventTime = time.Now().UTC()
	}

	value, err := envelopeCodec.Encode(envelopeRecord{
		ID:          e.ID,
		EventType:   e.EventType,
		Subject:     e.Subject,
		DataVersion: e.Version(),
		EventTime:   eventTime,
		Data:        e.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s %s: %w", e.EventType, e.ID, err)
	}

	topic := e.Topic
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
		Headers: []kafka.Header{
			{Key: consumer.HeaderEventType, Value: []byte(e.EventType)},
			{Key: HeaderEventID, Value: []byte(e.ID)},
			{Key: HeaderContentType, Value: []byte(ContentType)},
			{Key: HeaderSchema, Value: []byte(envelopeCodec.Fingerprint())},
		},
	}
	if e.Subject != "" {
		msg.Key = []byte(e.Subject)
	}
	return msg, nil
}

// noopPublisher is used when no brokers are configured.
type noopPublisher struct {
	log *zap.Logger
}

func (noopPublisher) Enabled() bool {
	return false
}

func (p noopPublisher) Publish(_ context.Context, e event.Envelope) error {
	p.log.Debug("live publisher not configured, event not sent", zap.String("id", e.ID))
	return nil
}

func (p noopPublisher) PublishBatch(ctx context.Context, events []event.Envelope) error {
	for _, e := range events {
		_ = p.Publish(ctx, e)
	}
	return nil
}
