package reconcile

import (
	"fmt"

	"github.com/Sokol111/device-catalogue-service/pkg/core/config"
	"github.com/spf13/viper"
)

const (
	ReservationConsumer  = "reservation-events"
	AvailabilityConsumer = "availability-events"
)

type Config struct {
	// DisableStaleGuard applies inbound events in arrival order even when
	// they are older than the last applied one.
	DisableStaleGuard bool `mapstructure:"disable-stale-guard"`
}

func newConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := config.Sub(v, "reconcile").Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load reconcile config: %w", err)
	}
	return cfg, nil
}
