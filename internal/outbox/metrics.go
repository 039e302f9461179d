package outbox

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

type drainMetrics struct {
	published  metric.Int64Counter
	failed     metric.Int64Counter
	markFailed metric.Int64Counter
	duration   metric.Float64Histogram
}

func newDrainMetrics(provider metric.MeterProvider) (*drainMetrics, error) {
	meter := provider.Meter("device-catalogue.outbox")

	var (
		m   drainMetrics
		err error
	)

	m.published, err = meter.Int64Counter(
		"outbox.messages.published",
		metric.WithDescription("Number of outbox messages delivered by the live publisher"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create outbox.messages.published counter: %w", err)
	}

	m.failed, err = meter.Int64Counter(
		"outbox.messages.failed",
		metric.WithDescription("Number of outbox delivery attempts that failed"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create outbox.messages.failed counter: %w", err)
	}

	m.markFailed, err = meter.Int64Counter(
		"outbox.messages.mark_failed",
		metric.WithDescription("Number of outbox messages whose state could not be updated"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create outbox.messages.mark_failed counter: %w", err)
	}

	m.duration, err = meter.Float64Histogram(
		"outbox.drain.duration",
		metric.WithDescription("Time taken by one drain tick"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create outbox.drain.duration histogram: %w", err)
	}

	return &m, nil
}
