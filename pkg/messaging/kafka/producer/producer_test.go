package producer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockKafkaProducer struct {
	produceFunc func(msg *kafka.Message, deliveryChan chan kafka.Event) error
}

func (m *mockKafkaProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	return m.produceFunc(msg, deliveryChan)
}

func newMessage(topic string) *kafka.Message {
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          []byte("value"),
	}
}

func TestProducer_Send(t *testing.T) {
	t.Run("waits for successful delivery", func(t *testing.T) {
		var captured *kafka.Message
		mock := &mockKafkaProducer{produceFunc: func(msg *kafka.Message, ch chan kafka.Event) error {
			captured = msg
			delivered := *msg
			delivered.TopicPartition.Offset = 42
			ch <- &delivered
			return nil
		}}
		p := newProducer(mock, time.Second, zap.NewNop())

		err := p.Send(context.Background(), newMessage("devices"))

		require.NoError(t, err)
		require.NotNil(t, captured)
		assert.Equal(t, "devices", *captured.TopicPartition.Topic)
	})

	t.Run("produce error", func(t *testing.T) {
		mock := &mockKafkaProducer{produceFunc: func(*kafka.Message, chan kafka.Event) error {
			return errors.New("queue full")
		}}
		p := newProducer(mock, time.Second, zap.NewNop())

		err := p.Send(context.Background(), newMessage("devices"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send message to topic devices")
	})

	t.Run("delivery report error", func(t *testing.T) {
		mock := &mockKafkaProducer{produceFunc: func(msg *kafka.Message, ch chan kafka.Event) error {
			failed := *msg
			failed.TopicPartition.Error = kafka.NewError(kafka.ErrMsgTimedOut, "timed out", false)
			ch <- &failed
			return nil
		}}
		p := newProducer(mock, time.Second, zap.NewNop())

		err := p.Send(context.Background(), newMessage("devices"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "delivery to topic devices failed")
	})

	t.Run("no delivery report before timeout", func(t *testing.T) {
		mock := &mockKafkaProducer{produceFunc: func(*kafka.Message, chan kafka.Event) error {
			return nil
		}}
		p := newProducer(mock, 20*time.Millisecond, zap.NewNop())

		err := p.Send(context.Background(), newMessage("devices"))

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestDisabledProducer(t *testing.T) {
	err := disabledProducer{}.Send(context.Background(), newMessage("devices"))
	assert.ErrorIs(t, err, ErrDisabled)
}
