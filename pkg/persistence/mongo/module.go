package mongo

import (
	"context"

	"github.com/Sokol111/device-catalogue-service/pkg/core/health"
	"github.com/Sokol111/device-catalogue-service/pkg/persistence"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type moduleOptions struct {
	static *Config
}

type Option func(*moduleOptions)

// WithMongoConfig supplies a static Config instead of reading viper.
func WithMongoConfig(cfg Config) Option {
	return func(o *moduleOptions) {
		cfg.applyDefaults()
		o.static = &cfg
	}
}

// NewMongoModule provides Mongo, Admin and a persistence.TxManager. The tx
// manager is transactional only when Config.Transactions is set.
func NewMongoModule(opts ...Option) fx.Option {
	o := &moduleOptions{}
	for _, opt := range opts {
		opt(o)
	}

	configProvider := fx.Provide(newConfig)
	if o.static != nil {
		configProvider = fx.Supply(*o.static)
	}

	return fx.Options(
		configProvider,
		fx.Provide(
			provideMongo,
			provideTxManager,
		),
	)
}

func provideMongo(lc fx.Lifecycle, log *zap.Logger, conf Config, readiness health.ComponentManager) (Mongo, Admin, error) {
	m, err := newMongo(log.With(zap.String("component", "mongo")), conf)
	if err != nil {
		return nil, nil, err
	}

	markReady := readiness.AddComponent("mongo")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := m.connect(ctx); err != nil {
				return err
			}
			markReady()
			return nil
		},
		OnStop: m.disconnect,
	})

	return m, m, nil
}

func provideTxManager(conf Config, admin Admin, log *zap.Logger) persistence.TxManager {
	if !conf.Transactions {
		log.Info("mongo transactions disabled, writes are applied step by step")
		return persistence.NoopTxManager{}
	}
	return newTxManager(admin, log)
}
