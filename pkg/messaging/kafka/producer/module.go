package producer

import (
	"context"
	"fmt"

	"github.com/Sokol111/device-catalogue-service/pkg/core/health"
	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/config"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewProducerModule() fx.Option {
	return fx.Provide(
		provideProducer,
	)
}

func provideProducer(lc fx.Lifecycle, log *zap.Logger, conf config.Config, readiness health.ComponentManager) (Producer, error) {
	log = log.With(zap.String("component", "producer"))
	if !conf.Enabled() {
		return disabledProducer{}, nil
	}

	kp, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  conf.Brokers,
		"client.id":          conf.ClientID,
		"acks":               conf.ProducerConfig.Acks,
		"enable.idempotence": conf.ProducerConfig.Acks == "all",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	// Delivery reports go to the per-message channel; drain the rest.
	go func() {
		for e := range kp.Events() {
			if kerr, ok := e.(kafka.Error); ok {
				log.Warn("producer event error", zap.Error(kerr))
			}
		}
	}()

	markReady := readiness.AddComponent("kafka-producer")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := waitForBrokers(ctx, kp, log, conf.ProducerConfig.ReadinessTimeoutSeconds, conf.ProducerConfig.FailOnBrokerError); err != nil {
				return err
			}
			markReady()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if remaining := kp.Flush(int(conf.ProducerConfig.DeliveryTimeout.Milliseconds())); remaining > 0 {
				log.Warn("producer closed with undelivered messages", zap.Int("remaining", remaining))
			}
			kp.Close()
			return nil
		},
	})

	return newProducer(kp, conf.ProducerConfig.DeliveryTimeout, log), nil
}
