package outbox

import (
	"context"

	"github.com/Sokol111/device-catalogue-service/internal/event"
	"github.com/Sokol111/device-catalogue-service/pkg/core/worker"
	"github.com/Sokol111/device-catalogue-service/pkg/persistence/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type moduleOptions struct {
	static      *Config
	withoutLoop bool
}

type Option func(*moduleOptions)

// WithOutboxConfig supplies a static Config instead of reading viper.
func WithOutboxConfig(cfg Config) Option {
	return func(o *moduleOptions) {
		cfg.applyDefaults()
		o.static = &cfg
	}
}

// WithoutDrainLoop omits the background scheduler. Drainer is still provided.
func WithoutDrainLoop() Option {
	return func(o *moduleOptions) {
		o.withoutLoop = true
	}
}

// NewOutboxModule provides the outbox event.Publisher used by the write side,
// the Store and the Drainer, and registers the drain loop worker.
// The live publisher must be provided as event.Publisher named "live".
func NewOutboxModule(opts ...Option) fx.Option {
	o := &moduleOptions{}
	for _, opt := range opts {
		opt(o)
	}

	configProvider := fx.Provide(newConfig)
	if o.static != nil {
		configProvider = fx.Supply(*o.static)
	}

	options := []fx.Option{
		configProvider,
		fx.Provide(
			provideStore,
			fx.Annotate(newPublisher, fx.As(new(event.Publisher))),
			provideDrainer,
		),
		fx.Invoke(ensureIndexesOnStart),
	}
	if !o.withoutLoop {
		options = append(options, fx.Provide(
			newScheduler,
			worker.Register[*Scheduler]("outbox-drain", worker.WithReady()),
		))
	}
	return fx.Options(options...)
}

func provideStore(m mongo.Mongo, conf Config, log *zap.Logger) Store {
	return newStore(m, conf, log)
}

func ensureIndexesOnStart(lc fx.Lifecycle, m mongo.Mongo, conf Config, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := EnsureIndexes(ctx, m, conf); err != nil {
				return err
			}
			log.Info("outbox indexes ensured", zap.String("collection", conf.Collection))
			return nil
		},
	})
}
