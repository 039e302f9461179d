package health

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	RunningInKubernetes bool `mapstructure:"running-in-kubernetes"`
}

func newConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	sub := v.Sub("readiness")
	if sub == nil {
		return cfg, nil
	}
	if err := sub.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load readiness config: %w", err)
	}
	return cfg, nil
}
