package modules

import (
	"github.com/Sokol111/device-catalogue-service/pkg/http/health"
	"github.com/Sokol111/device-catalogue-service/pkg/http/server"
	"go.uber.org/fx"
)

// NewHTTPModule serves the health probes.
func NewHTTPModule(opts ...server.Option) fx.Option {
	return fx.Options(
		server.NewHTTPServerModule(opts...),
		health.NewHealthRoutesModule(),
	)
}
