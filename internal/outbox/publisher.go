package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/Sokol111/device-catalogue-service/internal/event"
	"github.com/Sokol111/device-catalogue-service/pkg/core/logger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// publisher records events in the Store. Delivery happens later in the
// drainer, so Publish succeeds as soon as the message is saved.
type publisher struct {
	store Store
	now   func() time.Time
	newID func() string
}

func newPublisher(store Store) *publisher {
	return &publisher{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (p *publisher) Publish(ctx context.Context, e event.Envelope) error {
	if err := e.Validate(); err != nil {
		return err
	}

	e.Headers = saveTraceContext(ctx, e.Headers)
	msg := newMessage(p.newID(), e, p.now())

	if err := p.store.Save(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s to outbox: %w", e.EventType, err)
	}

	logger.Get(ctx).Debug("outbox message created",
		zap.String("id", msg.ID),
		zap.String("event_type", msg.EventType),
		zap.String("subject", msg.Subject),
	)
	return nil
}

func (p *publisher) PublishBatch(ctx context.Context, events []event.Envelope) error {
	for i, e := range events {
		if err := p.Publish(ctx, e); err != nil {
			return fmt.Errorf("batch stopped at event %d of %d: %w", i+1, len(events), err)
		}
	}
	return nil
}

// saveTraceContext copies the trace context of ctx into headers so the
// drainer can continue the trace when it delivers the message.
func saveTraceContext(ctx context.Context, headers map[string]string) map[string]string {
	carrier := propagation.MapCarrier{}
	for k, v := range headers {
		carrier[k] = v
	}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if len(carrier) == 0 {
		return nil
	}
	return carrier
}
