package reconcile

import (
	"context"

	"github.com/Sokol111/device-catalogue-service/pkg/core/logger"
	"go.uber.org/zap"
)

// ReservationHandler reconciles reservation lifecycle events.
type ReservationHandler struct {
	reconciler *Reconciler
}

func NewReservationHandler(r *Reconciler) *ReservationHandler {
	return &ReservationHandler{reconciler: r}
}

func (h *ReservationHandler) Handle(ctx context.Context, e ReservationEvent) (Outcome, error) {
	target, ok := ReservationTarget(e.EventType)
	if !ok {
		logger.Get(ctx).Debug("ignoring reservation event", zap.String("event_type", e.EventType))
		return OutcomeIgnored, nil
	}
	return h.reconciler.Apply(ctx, Update{
		DeviceID:   e.DeviceID,
		Target:     target,
		SourceTime: e.EventTime,
		Source:     e.EventType,
	})
}

// AvailabilityHandler reconciles availability changes.
type AvailabilityHandler struct {
	reconciler *Reconciler
}

func NewAvailabilityHandler(r *Reconciler) *AvailabilityHandler {
	return &AvailabilityHandler{reconciler: r}
}

func (h *AvailabilityHandler) Handle(ctx context.Context, e AvailabilityEvent) (Outcome, error) {
	if e.EventType != AvailabilityChanged {
		logger.Get(ctx).Debug("ignoring availability event", zap.String("event_type", e.EventType))
		return OutcomeIgnored, nil
	}
	target, ok := AvailabilityTarget(e.NewStatus)
	if !ok {
		logger.Get(ctx).Warn("ignoring availability event with unknown status",
			zap.String("device_id", e.DeviceID),
			zap.String("new_status", e.NewStatus),
		)
		return OutcomeIgnored, nil
	}
	return h.reconciler.Apply(ctx, Update{
		DeviceID:   e.DeviceID,
		Target:     target,
		SourceTime: e.EventTime,
		Source:     e.EventType,
	})
}
