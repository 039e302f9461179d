package modules

import (
	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/config"
	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/producer"
	"go.uber.org/fx"
)

// NewMessagingModule provides the kafka config and the shared producer.
// Consumers are registered with consumer.RegisterHandlerAndConsumer.
func NewMessagingModule(opts ...config.Option) fx.Option {
	return fx.Options(
		config.NewKafkaConfigModule(opts...),
		producer.NewProducerModule(),
	)
}
