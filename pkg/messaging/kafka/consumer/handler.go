package consumer

import (
	"context"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// Handler processes one message. Returning nil or an ErrSkipMessage-wrapped
// error acknowledges the message; any other error is retried.
type Handler interface {
	Process(ctx context.Context, message *kafka.Message) error
}

type HandlerFunc func(ctx context.Context, message *kafka.Message) error

func (f HandlerFunc) Process(ctx context.Context, message *kafka.Message) error {
	return f(ctx, message)
}
