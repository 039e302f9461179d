package reconcile

import (
	"github.com/Sokol111/device-catalogue-service/internal/device"
	"github.com/Sokol111/device-catalogue-service/pkg/messaging/kafka/consumer"
	"go.uber.org/fx"
)

// NewReconcileModule provides the status handlers and registers one Kafka
// consumer per upstream source.
func NewReconcileModule() fx.Option {
	return fx.Options(
		fx.Provide(
			newConfig,
			func(r device.Repository) DeviceStore { return r },
			NewReconciler,
			NewReservationHandler,
			NewAvailabilityHandler,
		),
		consumer.RegisterHandlerAndConsumer(ReservationConsumer, NewReservationKafkaHandler),
		consumer.RegisterHandlerAndConsumer(AvailabilityConsumer, NewAvailabilityKafkaHandler),
	)
}
