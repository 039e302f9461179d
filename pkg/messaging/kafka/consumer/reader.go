package consumer

import (
	"context"
	"fmt"
	"time"

	"github.com/Sokol111/device-catalogue-service/pkg/core/health"
	"github.com/Sokol111/device-catalogue-service/pkg/core/logger"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

const readTimeout = time.Second

type messageReader interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
}

// reader polls kafka and hands messages to the processor over messagesChan.
type reader struct {
	consumer     messageReader
	messagesChan chan<- *kafka.Message
	readiness    health.ReadinessWaiter
	throttler    *logger.LogThrottler
	log          *zap.Logger
}

func newReader(consumer messageReader, messagesChan chan<- *kafka.Message, readiness health.ReadinessWaiter, log *zap.Logger) *reader {
	return &reader{
		consumer:     consumer,
		messagesChan: messagesChan,
		readiness:    readiness,
		throttler:    logger.NewLogThrottler(log, 0),
		log:          log,
	}
}

// run reads until ctx is done. It returns an error only for fatal kafka errors.
func (r *reader) run(ctx context.Context) error {
	r.log.Info("waiting for readiness before reading messages")
	if err := r.readiness.WaitReady(ctx); err != nil {
		return nil
	}
	r.log.Info("readiness achieved, reading messages")

	for ctx.Err() == nil {
		msg, err := r.consumer.ReadMessage(readTimeout)
		if err != nil {
			rerr := classifyReaderError(err)
			if rerr.isTimeout() {
				continue
			}
			if rerr.isFatal() {
				r.log.Error("stopping reader", zap.Error(rerr))
				return fmt.Errorf("kafka reader: %w", rerr)
			}
			r.throttler.Warn(rerr.key, rerr.description, zap.Error(err))
			sleep(ctx, rerr.retryDelay())
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case r.messagesChan <- msg:
		}
	}
	return nil
}
