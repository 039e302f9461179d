package consumer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/producer"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// DLQHandler sends messages that could not be processed to a dead letter topic.
type DLQHandler interface {
	SendToDLQ(ctx context.Context, message *kafka.Message, processingErr error) error
}

type dlqHandler struct {
	producer producer.Producer
	dlqTopic string
	tracer   MessageTracer
	log      *zap.Logger
}

func newDLQHandler(p producer.Producer, dlqTopic string, tracer MessageTracer, log *zap.Logger) DLQHandler {
	return &dlqHandler{
		producer: p,
		dlqTopic: dlqTopic,
		tracer:   tracer,
		log:      log,
	}
}

func (h *dlqHandler) SendToDLQ(ctx context.Context, message *kafka.Message, processingErr error) error {
	ctx, span := h.tracer.StartDLQSpan(ctx, message, h.dlqTopic)
	defer span.End()

	headers := make([]kafka.Header, 0, len(message.Headers)+5)
	headers = append(headers, message.Headers...)
	headers = append(headers,
		kafka.Header{Key: "dlq.original.topic", Value: []byte(topicOf(message))},
		kafka.Header{Key: "dlq.original.partition", Value: []byte(strconv.Itoa(int(message.TopicPartition.Partition)))},
		kafka.Header{Key: "dlq.original.offset", Value: []byte(strconv.FormatInt(int64(message.TopicPartition.Offset), 10))},
		kafka.Header{Key: "dlq.error", Value: []byte(processingErr.Error())},
		kafka.Header{Key: "dlq.timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
	)

	dlqMessage := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &h.dlqTopic, Partition: kafka.PartitionAny},
		Key:            message.Key,
		Value:          message.Value,
		Headers:        headers,
	}
	h.tracer.InjectContext(ctx, dlqMessage)

	if err := h.producer.Send(ctx, dlqMessage); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send message to DLQ")
		h.log.Error("failed to send message to DLQ",
			zap.String("dlq_topic", h.dlqTopic),
			zap.String("key", string(message.Key)),
			zap.Error(err))
		return fmt.Errorf("failed to send message to DLQ %s: %w", h.dlqTopic, err)
	}

	span.SetStatus(codes.Ok, "message sent to DLQ")
	h.log.Info("message sent to DLQ",
		zap.String("dlq_topic", h.dlqTopic),
		zap.String("key", string(message.Key)),
		zap.Int32("original_partition", message.TopicPartition.Partition),
		zap.Int64("original_offset", int64(message.TopicPartition.Offset)))
	return nil
}

// noopDLQHandler is used when the DLQ is disabled. It always returns
// ErrDLQDisabled so the failed message is kept for redelivery.
type noopDLQHandler struct {
	log *zap.Logger
}

func newNoopDLQHandler(log *zap.Logger) DLQHandler {
	return &noopDLQHandler{log: log}
}

func (h *noopDLQHandler) SendToDLQ(_ context.Context, message *kafka.Message, processingErr error) error {
	h.log.Warn("DLQ disabled, keeping failed message for redelivery",
		zap.String("key", string(message.Key)),
		zap.Int32("partition", message.TopicPartition.Partition),
		zap.Int64("offset", int64(message.TopicPartition.Offset)),
		zap.Error(processingErr))
	return ErrDLQDisabled
}

func topicOf(message *kafka.Message) string {
	if message.TopicPartition.Topic == nil {
		return ""
	}
	return *message.TopicPartition.Topic
}
