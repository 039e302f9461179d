package producer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

// ErrDisabled is returned by the producer when no brokers are configured.
var ErrDisabled = errors.New("kafka producer is disabled")

// Producer sends messages and waits for the broker acknowledgement.
type Producer interface {
	Send(ctx context.Context, message *kafka.Message) error
}

// kafkaProducer is the part of *kafka.Producer used here.
type kafkaProducer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
}

type producer struct {
	producer        kafkaProducer
	deliveryTimeout time.Duration
	log             *zap.Logger
}

func newProducer(p kafkaProducer, deliveryTimeout time.Duration, log *zap.Logger) *producer {
	return &producer{producer: p, deliveryTimeout: deliveryTimeout, log: log}
}

func (p *producer) Send(ctx context.Context, message *kafka.Message) error {
	topic := topicOf(message)
	deliveryChan := make(chan kafka.Event, 1)

	if err := p.producer.Produce(message, deliveryChan); err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", topic, err)
	}

	if p.deliveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.deliveryTimeout)
		defer cancel()
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("delivery to topic %s not confirmed: %w", topic, ctx.Err())
	case ev := <-deliveryChan:
		switch e := ev.(type) {
		case *kafka.Message:
			if e.TopicPartition.Error != nil {
				return fmt.Errorf("delivery to topic %s failed: %w", topic, e.TopicPartition.Error)
			}
			p.log.Debug("message delivered",
				zap.String("topic", topic),
				zap.Int32("partition", e.TopicPartition.Partition),
				zap.Int64("offset", int64(e.TopicPartition.Offset)),
			)
			return nil
		case kafka.Error:
			return fmt.Errorf("delivery to topic %s failed: %w", topic, e)
		default:
			return fmt.Errorf("unexpected delivery event for topic %s: %v", topic, ev)
		}
	}
}

type disabledProducer struct{}

func (disabledProducer) Send(context.Context, *kafka.Message) error {
	return ErrDisabled
}

func topicOf(message *kafka.Message) string {
	if message.TopicPartition.Topic == nil {
		return ""
	}
	return *message.TopicPartition.Topic
}
