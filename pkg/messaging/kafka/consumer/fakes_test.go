package consumer

import (
	"context"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

type fakeOffsetStorer struct {
	mu     sync.Mutex
	stored []*kafka.Message
	err    error
}

func (f *fakeOffsetStorer) StoreMessage(m *kafka.Message) ([]kafka.TopicPartition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, m)
	return []kafka.TopicPartition{m.TopicPartition}, f.err
}

func (f *fakeOffsetStorer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

type fakeDLQ struct {
	mu   sync.Mutex
	sent []error
	// failures is the number of leading sends that return err.
	failures int
	err      error
}

func (f *fakeDLQ) SendToDLQ(_ context.Context, _ *kafka.Message, err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, err)
	if f.failures > 0 {
		f.failures--
		return f.err
	}
	return nil
}

func (f *fakeDLQ) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeProducer struct {
	mu   sync.Mutex
	sent []*kafka.Message
	err  error
}

func (f *fakeProducer) Send(_ context.Context, message *kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, message)
	return f.err
}

func testMessage(topic string, headers ...kafka.Header) *kafka.Message {
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 2, Offset: 17},
		Key:            []byte("device-1"),
		Value:          []byte(`{"deviceId":"device-1"}`),
		Headers:        headers,
	}
}
