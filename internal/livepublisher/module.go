package livepublisher

import (
	"github.com/Sokol111/device-catalogue-service/internal/event"
	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/config"
	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/producer"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLivePublisherModule provides the event.Publisher named "live".
// Without brokers it is a silent no-op and outbox messages stay pending.
func NewLivePublisherModule() fx.Option {
	return fx.Provide(
		fx.Annotate(
			providePublisher,
			fx.ResultTags(`name:"live"`),
		),
	)
}

func providePublisher(conf config.Config, p producer.Producer, tp trace.TracerProvider, log *zap.Logger) event.Publisher {
	if !conf.Enabled() {
		log.Warn("kafka brokers not configured, live publisher disabled")
		return noopPublisher{log: log}
	}
	return newKafkaPublisher(p, tp, log)
}
