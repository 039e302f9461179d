// Package reconcile keeps the cached device status in line with the
// reservation and availability services.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sokol111/device-catalogue-service/internal/device"
	"github.com/Sokol111/device-catalogue-service/internal/event"
	"github.com/Sokol111/device-catalogue-service/pkg/core/logger"
	"github.com/Sokol111/device-catalogue-service/pkg/persistence"
	"go.uber.org/zap"
)

// Outcome tells what Apply did with an update.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeUnchanged
	OutcomeNotFound
	OutcomeStale
	OutcomeIgnored
	OutcomeInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeStale:
		return "stale"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// DeviceStore is the part of device.Repository used by the reconciler.
type DeviceStore interface {
	GetByID(ctx context.Context, id string) (*device.Device, error)
	Save(ctx context.Context, d *device.Device) error
}

// Update is a requested status change from an upstream source.
type Update struct {
	DeviceID string
	Target   device.Status
	// SourceTime is when the upstream change happened, if known.
	SourceTime *time.Time
	Source     string
}

// Reconciler applies status updates idempotently. The device write and the
// StatusChanged event share one unit of work.
type Reconciler struct {
	devices    DeviceStore
	tx         persistence.TxManager
	publisher  event.Publisher
	staleGuard bool
	now        func() time.Time
}

func NewReconciler(devices DeviceStore, tx persistence.TxManager, publisher event.Publisher, conf Config) *Reconciler {
	return &Reconciler{
		devices:    devices,
		tx:         tx,
		publisher:  publisher,
		staleGuard: !conf.DisableStaleGuard,
		now:        time.Now,
	}
}

// Apply returns an error only for unexpected store or publish failures, so
// the caller can redeliver. Every other outcome is final.
func (r *Reconciler) Apply(ctx context.Context, u Update) (Outcome, error) {
	log := logger.Get(ctx).With(
		zap.String("device_id", u.DeviceID),
		zap.String("target_status", u.Target.String()),
		zap.String("source", u.Source),
	)

	if u.DeviceID == "" || !u.Target.Valid() {
		log.Warn("dropping status update without device id or target")
		return OutcomeInvalid, nil
	}

	outcome, err := persistence.RunInTx(ctx, r.tx, func(txCtx context.Context) (Outcome, error) {
		return r.apply(txCtx, u)
	})
	if err != nil {
		return outcome, err
	}

	switch outcome {
	case OutcomeApplied:
		log.Info("device status reconciled")
	case OutcomeNotFound:
		log.Warn("device not found, dropping status update")
	case OutcomeStale:
		log.Info("status update older than the last applied one, dropping")
	default:
		log.Debug("status update dropped", zap.Stringer("outcome", outcome))
	}
	return outcome, nil
}

func (r *Reconciler) apply(ctx context.Context, u Update) (Outcome, error) {
	d, err := r.devices.GetByID(ctx, u.DeviceID)
	if errors.Is(err, persistence.ErrEntityNotFound) {
		return OutcomeNotFound, nil
	}
	if err != nil {
		return OutcomeApplied, fmt.Errorf("failed to load device for reconciliation: %w", err)
	}

	if r.staleGuard && d.IsStale(u.SourceTime) {
		return OutcomeStale, nil
	}

	now := r.now().UTC()
	previous, changed := d.ChangeStatus(u.Target, u.SourceTime, now)
	if !changed {
		// A newer event that agrees with the current status still moves the
		// source time forward, so older conflicting events become stale.
		// Replaying the same event writes nothing.
		if r.staleGuard && d.ObserveSourceTime(u.SourceTime) {
			if err := r.devices.Save(ctx, d); err != nil {
				return OutcomeUnchanged, fmt.Errorf("failed to save device source time: %w", err)
			}
		}
		return OutcomeUnchanged, nil
	}

	if err := r.devices.Save(ctx, d); err != nil {
		return OutcomeApplied, fmt.Errorf("failed to save reconciled device: %w", err)
	}

	e, err := event.New(event.TopicDevice, event.DeviceStatusChanged, d.ID, event.StatusChangedData{
		DeviceID:       d.ID,
		PreviousStatus: previous.String(),
		NewStatus:      d.Status.String(),
		Timestamp:      now,
	})
	if err != nil {
		return OutcomeApplied, err
	}
	if err := r.publisher.Publish(ctx, e); err != nil {
		return OutcomeApplied, fmt.Errorf("failed to publish status change: %w", err)
	}
	return OutcomeApplied, nil
}
