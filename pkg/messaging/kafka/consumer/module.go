package consumer

import (
	"fmt"

	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/config"
	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/producer"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func getConsumerConfig(conf config.Config, consumerName string) (config.ConsumerConfig, error) {
	if c, ok := conf.Consumer(consumerName); ok {
		return c, nil
	}
	if !conf.Enabled() {
		return config.ConsumerConfig{Name: consumerName}, nil
	}
	return config.ConsumerConfig{}, fmt.Errorf("no consumer config found for consumer name: %s", consumerName)
}

func provideDLQHandler(conf config.ConsumerConfig, p producer.Producer, tracer MessageTracer, log *zap.Logger) DLQHandler {
	if !conf.EnableDLQ {
		return newNoopDLQHandler(log)
	}
	return newDLQHandler(p, conf.DLQTopic, tracer, log)
}

// RegisterHandlerAndConsumer wires a consumer named consumerName to the
// Handler built by handlerConstructor. Everything except the consumer itself
// is private to the module, so several consumers can coexist.
//
//	consumer.RegisterHandlerAndConsumer("reservation-events", reconcile.NewReservationKafkaHandler)
func RegisterHandlerAndConsumer(consumerName string, handlerConstructor any) fx.Option {
	return fx.Module(
		consumerName,
		fx.Decorate(
			func(log *zap.Logger, consumerConf config.ConsumerConfig) *zap.Logger {
				return log.With(
					zap.String("component", "consumer"),
					zap.String("consumer_name", consumerConf.Name),
					zap.String("topic", consumerConf.Topic),
					zap.String("group_id", consumerConf.GroupID),
				)
			},
		),
		fx.Supply(
			fx.Annotate(
				consumerName,
				fx.ResultTags(`name:"consumerName"`),
			),
			fx.Private,
		),
		fx.Provide(
			fx.Annotate(
				getConsumerConfig,
				fx.ParamTags(``, `name:"consumerName"`),
			),
			fx.Annotate(
				handlerConstructor,
				fx.As(new(Handler)),
			),
			func(tp trace.TracerProvider) MessageTracer { return newMessageTracer(tp) },
			provideDLQHandler,
			provideConsumer,
			fx.Private,
		),
		fx.Invoke(func(*consumer) {}),
	)
}
