package consumer

import (
	"context"
	"errors"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type offsetStorer interface {
	StoreMessage(m *kafka.Message) (storedOffsets []kafka.TopicPartition, err error)
}

// resultHandler acts on the outcome of a processed message. The offset is
// stored once the message is processed, skipped or dead-lettered. A failed
// message that could not be dead-lettered keeps its offset and handle returns
// ErrNotDelivered.
type resultHandler struct {
	log        *zap.Logger
	dlqHandler DLQHandler
	consumer   offsetStorer
}

func newResultHandler(log *zap.Logger, dlqHandler DLQHandler, consumer offsetStorer) *resultHandler {
	return &resultHandler{
		log:        log,
		dlqHandler: dlqHandler,
		consumer:   consumer,
	}
}

func (h *resultHandler) handle(ctx context.Context, err error, message *kafka.Message, span trace.Span) error {
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "message processed successfully")

	case errors.Is(err, ErrSkipMessage):
		span.SetStatus(codes.Ok, "message skipped")
		h.log.Debug("skipping message", h.messageFields(message, err)...)

	case errors.Is(err, context.Canceled):
		// Shutting down: leave the offset so the message is redelivered.
		h.log.Info("processing interrupted by shutdown", h.messageFields(message, err)...)
		return nil

	case errors.Is(err, ErrPermanent):
		span.RecordError(err)
		span.SetStatus(codes.Error, "permanent error")
		h.log.Error("permanent error, sending message to DLQ", h.messageFields(message, err)...)
		if dlqErr := h.dlqHandler.SendToDLQ(ctx, message, err); dlqErr != nil {
			return fmt.Errorf("%w: %w", ErrNotDelivered, dlqErr)
		}

	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "retries exhausted")
		h.log.Error("message processing failed after retries, sending to DLQ", h.messageFields(message, err)...)
		if dlqErr := h.dlqHandler.SendToDLQ(ctx, message, err); dlqErr != nil {
			return fmt.Errorf("%w: %w", ErrNotDelivered, dlqErr)
		}
	}

	h.storeOffset(message)
	return nil
}

func (h *resultHandler) storeOffset(message *kafka.Message) {
	if _, err := h.consumer.StoreMessage(message); err != nil {
		h.log.Error("failed to store offset", h.messageFields(message, err)...)
	}
}

func (h *resultHandler) messageFields(message *kafka.Message, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("key", string(message.Key)),
		zap.Int32("partition", message.TopicPartition.Partition),
		zap.Int64("offset", int64(message.TopicPartition.Offset)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}
