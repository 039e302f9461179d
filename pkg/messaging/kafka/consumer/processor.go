package consumer

import (
	"context"
	"time"

	"github.com/Sokol111/device-catalogue-service/pkg/core/logger"
	"github.com/Sokol111/device-catalogue-service/pkg/observability/tracing"
	"github.com/cenkalti/backoff/v4"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

type processor struct {
	messagesChan  <-chan *kafka.Message
	handler       Handler
	resultHandler *resultHandler
	retryExecutor RetryExecutor
	tracer        MessageTracer
	log           *zap.Logger

	// redeliveryInterval is the pause before a message that was neither
	// processed nor dead-lettered is run again.
	redeliveryInterval time.Duration
}

func newProcessor(
	messagesChan <-chan *kafka.Message,
	handler Handler,
	resultHandler *resultHandler,
	retryExecutor RetryExecutor,
	tracer MessageTracer,
	log *zap.Logger,
	redeliveryInterval time.Duration,
) *processor {
	return &processor{
		messagesChan:       messagesChan,
		handler:            handler,
		resultHandler:      resultHandler,
		retryExecutor:      retryExecutor,
		tracer:             tracer,
		log:                log,
		redeliveryInterval: redeliveryInterval,
	}
}

// run processes messages one at a time until ctx is done.
func (p *processor) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.messagesChan:
			p.processMessage(ctx, msg)
		}
	}
}

// processMessage blocks until the message is processed, skipped or
// dead-lettered, or ctx is done. Later messages wait behind it.
func (p *processor) processMessage(ctx context.Context, message *kafka.Message) {
	b := backoff.WithContext(backoff.NewConstantBackOff(p.redeliveryInterval), ctx)
	_ = backoff.RetryNotify(
		func() error { return p.deliver(ctx, message) },
		b,
		func(err error, wait time.Duration) {
			p.log.Error("message kept for redelivery",
				zap.Int32("partition", message.TopicPartition.Partition),
				zap.Int64("offset", int64(message.TopicPartition.Offset)),
				zap.Duration("wait", wait),
				zap.Error(err))
		},
	)
}

func (p *processor) deliver(ctx context.Context, message *kafka.Message) error {
	ctx = p.tracer.ExtractContext(ctx, message)
	ctx, span := p.tracer.StartConsumerSpan(ctx, message)
	defer span.End()

	msgLog := p.log.With(zap.String("event_type", GetEventType(message.Headers)))
	msgLog = msgLog.With(tracing.LogFields(ctx)...)
	ctx = logger.With(ctx, msgLog)

	err := p.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		return p.handler.Process(ctx, message)
	})

	return p.resultHandler.handle(ctx, err, message, span)
}
