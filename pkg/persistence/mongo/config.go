package mongo

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ConnectionString string `mapstructure:"connection-string"`
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	ReplicaSet       string `mapstructure:"replica-set"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Database         string `mapstructure:"database"`
	DirectConnection bool   `mapstructure:"direct-connection"`

	// Transactions enables multi-document transactions. Requires a replica set.
	Transactions bool `mapstructure:"transactions"`

	MaxPoolSize         uint64        `mapstructure:"max-pool-size"`
	MinPoolSize         uint64        `mapstructure:"min-pool-size"`
	MaxConnIdleTime     time.Duration `mapstructure:"max-conn-idle-time"`
	ConnectTimeout      time.Duration `mapstructure:"connect-timeout"`
	ServerSelectTimeout time.Duration `mapstructure:"server-select-timeout"`

	// QueryTimeout bounds every single collection call.
	QueryTimeout time.Duration `mapstructure:"query-timeout"`

	// BulkheadLimit caps concurrent collection calls. Zero disables the bulkhead.
	BulkheadLimit   int           `mapstructure:"bulkhead-limit"`
	BulkheadTimeout time.Duration `mapstructure:"bulkhead-timeout"`
}

func (c Config) Validate() error {
	if c.Database == "" {
		return errors.New("mongo database is required")
	}
	if c.BulkheadLimit < 0 {
		return fmt.Errorf("mongo bulkhead-limit must not be negative, got %d", c.BulkheadLimit)
	}
	if c.ConnectionString == "" && (c.Host == "" || c.Port == 0) {
		return errors.New("mongo host and port are required when connection-string is empty")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = 100
	}
	if c.MinPoolSize == 0 {
		c.MinPoolSize = 10
	}
	if c.MaxConnIdleTime == 0 {
		c.MaxConnIdleTime = 5 * time.Minute
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.ServerSelectTimeout == 0 {
		c.ServerSelectTimeout = 30 * time.Second
	}
	if c.QueryTimeout == 0 {
		c.QueryTimeout = 30 * time.Second
	}
	if c.BulkheadLimit > 0 && c.BulkheadTimeout == 0 {
		c.BulkheadTimeout = 5 * time.Second
	}
}

func newConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	sub := v.Sub("mongo")
	if sub == nil {
		return cfg, errors.New("mongo config section is missing")
	}
	if err := sub.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load mongo config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}
