package outbox

import (
	"errors"
	"fmt"
	"time"

	"github.com/Sokol111/device-catalogue-service/pkg/core/config"
	"github.com/spf13/viper"
)

const (
	defaultCollection          = "outbox"
	defaultBatchSize           = 20
	defaultInterval            = 5 * time.Second
	defaultRetention           = 7 * 24 * time.Hour
	defaultStuckRetryThreshold = 10
)

type Config struct {
	// Collection holding outbox messages.
	// Default: outbox
	Collection string `mapstructure:"collection"`

	// BatchSize is the maximum number of messages drained per tick.
	// Default: 20
	BatchSize int `mapstructure:"batch-size"`

	// Interval between drain ticks.
	// Default: 5s
	Interval time.Duration `mapstructure:"interval"`

	// Retention is how long a processed message is kept before the TTL index removes it.
	// Default: 7 days
	Retention time.Duration `mapstructure:"retention"`

	// StuckRetryThreshold is the retry count from which a message is reported as stuck.
	// Default: 10
	StuckRetryThreshold int `mapstructure:"stuck-retry-threshold"`
}

func (c *Config) applyDefaults() {
	if c.Collection == "" {
		c.Collection = defaultCollection
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.Interval <= 0 {
		c.Interval = defaultInterval
	}
	if c.Retention <= 0 {
		c.Retention = defaultRetention
	}
	if c.StuckRetryThreshold <= 0 {
		c.StuckRetryThreshold = defaultStuckRetryThreshold
	}
}

func (c Config) Validate() error {
	if c.Retention < time.Second {
		return errors.New("outbox retention must be at least one second")
	}
	return nil
}

func newConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := config.Sub(v, "outbox").Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load outbox config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
