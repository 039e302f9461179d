package core

import (
	"time"

	"github.com/Sokol111/device-catalogue-service/pkg/core/config"
	"github.com/Sokol111/device-catalogue-service/pkg/core/health"
	"github.com/Sokol111/device-catalogue-service/pkg/core/logger"
	"github.com/Sokol111/device-catalogue-service/pkg/core/worker"
	"go.uber.org/fx"
)

type coreOptions struct {
	appConfig     *config.AppConfig
	loggerConfig  *logger.Config
	configPath    *string
	disableDotEnv bool
	disableConfig bool
}

type Option func(*coreOptions)

// WithAppConfig supplies a static AppConfig (tests).
func WithAppConfig(cfg config.AppConfig) Option {
	return func(opts *coreOptions) {
		opts.appConfig = &cfg
	}
}

// WithLoggerConfig supplies a static logger Config (tests).
func WithLoggerConfig(cfg logger.Config) Option {
	return func(opts *coreOptions) {
		opts.loggerConfig = &cfg
	}
}

// WithConfigPath reads configuration from path instead of CONFIG_FILE.
func WithConfigPath(path string) Option {
	return func(opts *coreOptions) {
		opts.configPath = &path
	}
}

func WithoutEnvFile() Option {
	return func(opts *coreOptions) {
		opts.disableDotEnv = true
	}
}

func WithoutConfigFile() Option {
	return func(opts *coreOptions) {
		opts.disableConfig = true
	}
}

// NewCoreModule provides configuration, logging, readiness and the worker
// group runner.
//
//	core.NewCoreModule(
//	    core.WithAppConfig(config.AppConfig{...}),
//	    core.WithoutEnvFile(),
//	    core.WithoutConfigFile(),
//	)
func NewCoreModule(opts ...Option) fx.Option {
	cfg := &coreOptions{}
	for _, opt := range opts {
		opt(cfg)
	}

	return fx.Options(
		fx.StartTimeout(2*time.Minute),
		fx.StopTimeout(time.Minute),

		dotEnvModule(cfg),
		viperModule(cfg),
		appConfigModule(cfg),
		loggerModule(cfg),
		health.NewReadinessModule(),
		worker.NewWorkersModule(),
	)
}

func dotEnvModule(cfg *coreOptions) fx.Option {
	if cfg.disableDotEnv {
		return fx.Options()
	}
	return config.NewDotEnvModule("")
}

func viperModule(cfg *coreOptions) fx.Option {
	switch {
	case cfg.disableConfig:
		return config.NewViperModule(config.WithoutConfigFile())
	case cfg.configPath != nil:
		return config.NewViperModule(config.WithConfigPath(*cfg.configPath))
	default:
		return config.NewViperModule()
	}
}

func appConfigModule(cfg *coreOptions) fx.Option {
	if cfg.appConfig != nil {
		return config.NewAppConfigModule(config.WithAppConfig(*cfg.appConfig))
	}
	return config.NewAppConfigModule()
}

func loggerModule(cfg *coreOptions) fx.Option {
	if cfg.loggerConfig != nil {
		return logger.NewZapLoggingModule(logger.WithLoggerConfig(*cfg.loggerConfig))
	}
	return logger.NewZapLoggingModule()
}
