package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/Sokol111/device-catalogue-service/internal/event"
	"github.com/Sokol111/device-catalogue-service/pkg/core/logger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DrainResult summarises one drain tick.
type DrainResult struct {
	Fetched    int
	Published  int
	Failed     int
	MarkFailed int
}

// enabler is implemented by live publishers that can be unconfigured.
type enabler interface {
	Enabled() bool
}

// Drainer delivers unprocessed outbox messages through the live publisher.
// Messages are handled one by one in the order returned by the store.
// Delivery is at least once: a message whose processed flag cannot be stored
// is sent again on a later tick.
type Drainer struct {
	store     Store
	live      event.Publisher
	conf      Config
	metrics   *drainMetrics
	log       *zap.Logger
	throttler *logger.LogThrottler
}

type drainerParams struct {
	fx.In
	Store         Store
	Live          event.Publisher `name:"live"`
	Conf          Config
	MeterProvider metric.MeterProvider
	Log           *zap.Logger
}

func provideDrainer(p drainerParams) (*Drainer, error) {
	return newDrainer(p.Store, p.Live, p.Conf, p.MeterProvider, p.Log)
}

func newDrainer(store Store, live event.Publisher, conf Config, mp metric.MeterProvider, log *zap.Logger) (*Drainer, error) {
	m, err := newDrainMetrics(mp)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("component", "outbox-drainer"))
	return &Drainer{
		store:     store,
		live:      live,
		conf:      conf,
		metrics:   m,
		log:       log,
		throttler: logger.NewLogThrottler(log, 0),
	}, nil
}

// Tick drains one batch. The returned error is set only when the batch could
// not be fetched; delivery failures are recorded on the messages.
func (d *Drainer) Tick(ctx context.Context) (DrainResult, error) {
	start := time.Now()
	defer func() {
		d.metrics.duration.Record(ctx, time.Since(start).Seconds())
	}()

	if e, ok := d.live.(enabler); ok && !e.Enabled() {
		d.throttler.Warn("live-publisher-disabled", "live publisher is not configured, outbox messages are kept")
		return DrainResult{}, nil
	}

	messages, err := d.store.ListUnprocessed(ctx, d.conf.BatchSize)
	if err != nil {
		return DrainResult{}, fmt.Errorf("failed to fetch outbox batch: %w", err)
	}

	res := DrainResult{Fetched: len(messages)}
	if len(messages) == 0 {
		return res, nil
	}

	for _, msg := range messages {
		if ctx.Err() != nil {
			break
		}
		d.deliver(ctx, msg, &res)
	}

	d.metrics.published.Add(ctx, int64(res.Published))
	d.metrics.failed.Add(ctx, int64(res.Failed))
	d.metrics.markFailed.Add(ctx, int64(res.MarkFailed))

	d.log.Info("outbox batch drained",
		zap.Int("fetched", res.Fetched),
		zap.Int("published", res.Published),
		zap.Int("failed", res.Failed),
		zap.Int("mark_failed", res.MarkFailed),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

func (d *Drainer) deliver(ctx context.Context, msg *Message, res *DrainResult) {
	log := d.log.With(
		zap.String("id", msg.ID),
		zap.String("event_type", msg.EventType),
		zap.Int("retry_count", msg.RetryCount),
	)

	if msg.RetryCount >= d.conf.StuckRetryThreshold {
		d.throttler.Warn("stuck:"+msg.ID, "outbox message is stuck",
			zap.String("id", msg.ID),
			zap.Int("retry_count", msg.RetryCount),
			zap.String("last_error", msg.Error),
		)
	}

	if err := d.live.Publish(ctx, msg.Envelope()); err != nil {
		res.Failed++
		log.Warn("failed to publish outbox message", zap.Error(err))
		if markErr := d.store.MarkAsFailed(ctx, msg.ID, err.Error()); markErr != nil {
			res.MarkFailed++
			log.Error("failed to record outbox delivery failure", zap.Error(markErr))
		}
		return
	}

	res.Published++
	if err := d.store.MarkAsProcessed(ctx, msg.ID); err != nil {
		res.MarkFailed++
		log.Error("outbox message published but not marked as processed, it will be sent again", zap.Error(err))
		return
	}
	d.throttler.Reset("stuck:" + msg.ID)
	log.Debug("outbox message published")
}
