package server

import (
	"context"
	"net/http"

	"github.com/Sokol111/device-catalogue-service/pkg/core/health"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type moduleOptions struct {
	static *Config
}

type Option func(*moduleOptions)

// WithServerConfig supplies a static Config instead of reading viper.
func WithServerConfig(cfg Config) Option {
	return func(o *moduleOptions) {
		cfg.setDefaults()
		o.static = &cfg
	}
}

// NewHTTPServerModule provides the *http.ServeMux and serves it for the
// application's lifetime.
func NewHTTPServerModule(opts ...Option) fx.Option {
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
		fx.Provide(http.NewServeMux),
		fx.Invoke(startHTTPServer),
	)
}

func startHTTPServer(lc fx.Lifecycle, log *zap.Logger, conf Config, mux *http.ServeMux, readiness health.ComponentManager, shutdowner fx.Shutdowner) {
	log = log.With(zap.String("component", "http-server"))
	var srv Server
	markReady := readiness.AddComponent("http-server")
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// Routes are registered by now.
			srv = newServer(log, conf, mux)

			go func() {
				if err := srv.ServeWithReadyCallback(markReady); err != nil {
					log.Error("HTTP server failed, shutting down application", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if srv != nil {
				return srv.Shutdown(ctx)
			}
			return nil
		},
	})
}
