package reconcile

import (
	"context"
	"fmt"

	"github.com/Sokol111/device-catalogue-service/pkg/core/logger"
	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/consumer"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

// ReservationKafkaHandler feeds reservation-events messages to the
// ReservationHandler. Malformed messages are skipped; store failures are
// returned for retry.
type ReservationKafkaHandler struct {
	handler *ReservationHandler
}

func NewReservationKafkaHandler(h *ReservationHandler) *ReservationKafkaHandler {
	return &ReservationKafkaHandler{handler: h}
}

func (k *ReservationKafkaHandler) Process(ctx context.Context, message *kafka.Message) error {
	e, err := DecodeReservationEvent(message.Value, consumer.GetEventType(message.Headers))
	if err != nil {
		logger.Get(ctx).Warn("dropping malformed reservation event", zap.Error(err))
		return fmt.Errorf("%w: %w", consumer.ErrSkipMessage, err)
	}
	_, err = k.handler.Handle(ctx, e)
	return err
}

type AvailabilityKafkaHandler struct {
	handler *AvailabilityHandler
}

func NewAvailabilityKafkaHandler(h *AvailabilityHandler) *AvailabilityKafkaHandler {
	return &AvailabilityKafkaHandler{handler: h}
}

func (k *AvailabilityKafkaHandler) Process(ctx context.Context, message *kafka.Message) error {
	e, err := DecodeAvailabilityEvent(message.Value, consumer.GetEventType(message.Headers))
	if err != nil {
		logger.Get(ctx).Warn("dropping malformed availability event", zap.Error(err))
		return fmt.Errorf("%w: %w", consumer.ErrSkipMessage, err)
	}
	_, err = k.handler.Handle(ctx, e)
	return err
}
