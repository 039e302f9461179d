package health

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewReadinessModule provides the readiness tracker under each of its interfaces.
func NewReadinessModule() fx.Option {
	return fx.Provide(
		newConfig,
		func(log *zap.Logger, cfg Config) *readiness {
			return newReadiness(log.With(zap.String("component", "readiness")), cfg.RunningInKubernetes)
		},
		func(r *readiness) ComponentManager { return r },
		func(r *readiness) ReadinessChecker { return r },
		func(r *readiness) ReadinessWaiter { return r },
		func(r *readiness) TrafficController { return r },
	)
}
