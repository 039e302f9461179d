package config

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type moduleOptions struct {
	static *Config
}

type Option func(*moduleOptions)

// WithKafkaConfig supplies a static Config instead of reading viper.
func WithKafkaConfig(cfg Config) Option {
	return func(o *moduleOptions) {
		o.static = &cfg
	}
}

func NewKafkaConfigModule(opts ...Option) fx.Option {
	o := &moduleOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.static != nil {
		return fx.Provide(func(log *zap.Logger) (Config, error) {
			return finalize(*o.static, log)
		})
	}
	return fx.Provide(newConfig)
}

func newConfig(v *viper.Viper, log *zap.Logger) (Config, error) {
	var cfg Config
	if sub := v.Sub("kafka"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load kafka config: %w", err)
		}
	}
	return finalize(cfg, log)
}

func finalize(cfg Config, log *zap.Logger) (Config, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid kafka config: %w", err)
	}
	if !cfg.Enabled() {
		log.Warn("kafka brokers not configured, publishing and consuming are disabled")
	} else {
		log.Info("loaded kafka config",
			zap.String("brokers", cfg.Brokers),
			zap.Int("consumers", len(cfg.ConsumersConfig.ConsumerConfig)),
		)
	}
	return cfg, nil
}
