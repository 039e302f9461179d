package consumer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Sokol111/device-catalogue-service/pkg/core/health"
	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/config"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// consumer owns one kafka consumer plus its reader and processor goroutines.
type consumer struct {
	kafkaConsumer *kafka.Consumer
	topic         string
	reader        *reader
	processor     *processor
	shutdowner    fx.Shutdowner
	log           *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newKafkaConsumer(brokers string, conf config.ConsumerConfig) (*kafka.Consumer, error) {
	kc, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":        brokers,
		"group.id":                 conf.GroupID,
		"enable.auto.commit":       true,
		"enable.auto.offset.store": false,
		"auto.commit.interval.ms":  3000,
		"auto.offset.reset":        conf.AutoOffsetReset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer, name: %s: %w", conf.Name, err)
	}
	return kc, nil
}

func (c *consumer) start() error {
	c.log.Info("subscribing to topic", zap.String("topic", c.topic))
	if err := c.kafkaConsumer.SubscribeTopics([]string{c.topic}, c.onRebalance); err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", c.topic, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		if err := c.reader.run(ctx); err != nil {
			if shutdownErr := c.shutdowner.Shutdown(fx.ExitCode(1)); shutdownErr != nil {
				c.log.Error("failed to initiate shutdown", zap.Error(shutdownErr))
			}
		}
	}()
	go func() {
		defer c.wg.Done()
		c.processor.run(ctx)
	}()
	return nil
}

func (c *consumer) stop(ctx context.Context) error {
	c.log.Info("stopping consumer")
	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		c.log.Warn("consumer did not stop in time")
	}

	if _, err := c.kafkaConsumer.Commit(); err != nil {
		var kafkaErr kafka.Error
		if !errors.As(err, &kafkaErr) || kafkaErr.Code() != kafka.ErrNoOffset {
			c.log.Warn("failed to commit offsets on shutdown", zap.Error(err))
		}
	}
	return c.kafkaConsumer.Close()
}

func (c *consumer) onRebalance(_ *kafka.Consumer, event kafka.Event) error {
	switch ev := event.(type) {
	case kafka.AssignedPartitions:
		logPartitionEvent(c.log, "partitions assigned", ev.Partitions)
	case kafka.RevokedPartitions:
		logPartitionEvent(c.log, "partitions revoked", ev.Partitions)
	}
	return nil
}

func logPartitionEvent(log *zap.Logger, event string, partitions []kafka.TopicPartition) {
	partitionIDs := make([]int32, len(partitions))
	for idx, partition := range partitions {
		partitionIDs[idx] = partition.Partition
	}
	log.Info(event,
		zap.Int("partition_count", len(partitions)),
		zap.Int32s("partitions", partitionIDs))
}

type consumerParams struct {
	fx.In
	Lc           fx.Lifecycle
	Log          *zap.Logger
	Shutdowner   fx.Shutdowner
	Conf         config.Config
	ConsumerConf config.ConsumerConfig
	Handler      Handler
	DLQ          DLQHandler
	Tracer       MessageTracer
	Readiness    health.ReadinessWaiter
	Components   health.ComponentManager
}

func provideConsumer(p consumerParams) (*consumer, error) {
	if !p.Conf.Enabled() {
		p.Log.Info("kafka disabled, consumer not started")
		return nil, nil
	}

	kc, err := newKafkaConsumer(p.Conf.Brokers, p.ConsumerConf)
	if err != nil {
		return nil, err
	}

	cc := p.ConsumerConf
	messagesChan := make(chan *kafka.Message, cc.ChannelBufferSize)
	c := &consumer{
		kafkaConsumer: kc,
		topic:         cc.Topic,
		reader:        newReader(kc, messagesChan, p.Readiness, p.Log),
		processor: newProcessor(
			messagesChan,
			p.Handler,
			newResultHandler(p.Log, p.DLQ, kc),
			newRetryExecutor(cc.MaxRetryAttempts, cc.InitialBackoff, cc.MaxBackoff, cc.ProcessingTimeout, p.Log),
			p.Tracer,
			p.Log,
			cc.MaxBackoff,
		),
		shutdowner: p.Shutdowner,
		log:        p.Log,
	}

	markReady := p.Components.AddComponent("kafka-consumer-" + cc.Name)
	p.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := c.start(); err != nil {
				return err
			}
			markReady()
			return nil
		},
		OnStop: c.stop,
	})
	return c, nil
}
