package device

import (
	"context"

	"github.com/Sokol111/device-catalogue-service/pkg/persistence/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewDeviceModule provides the device repositories and the catalogue Service.
func NewDeviceModule() fx.Option {
	return fx.Options(
		fx.Provide(
			newDeviceRepository,
			newModelRepository,
			NewService,
		),
		fx.Invoke(ensureIndexesOnStart),
	)
}

func ensureIndexesOnStart(lc fx.Lifecycle, m mongo.Mongo, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := EnsureIndexes(ctx, m); err != nil {
				return err
			}
			log.Info("device indexes ensured")
			return nil
		},
	})
}
