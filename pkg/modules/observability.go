package modules

import (
	"github.com/Sokol111/device-catalogue-service/pkg/observability"
	"go.uber.org/fx"
)

// NewObservabilityModule provides tracing and metrics.
func NewObservabilityModule(opts ...observability.Option) fx.Option {
	return observability.NewObservabilityModule(opts...)
}
