package config

import (
	"strings"
	"time"
)

// Config is the kafka section of the service config. An empty Brokers value
// disables Kafka: the live publisher becomes a no-op and no consumers start.
type Config struct {
	Brokers         string          `mapstructure:"brokers"`
	ClientID        string          `mapstructure:"client-id"`
	ConsumersConfig ConsumersConfig `mapstructure:"consumers-config"`
	ProducerConfig  ProducerConfig  `mapstructure:"producer-config"`
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Brokers) != ""
}

// Consumer returns the consumer config registered under name.
func (c Config) Consumer(name string) (ConsumerConfig, bool) {
	for _, consumer := range c.ConsumersConfig.ConsumerConfig {
		if consumer.Name == name {
			return consumer, true
		}
	}
	return ConsumerConfig{}, false
}

// ConsumersConfig holds defaults shared by every consumer plus the consumers themselves.
type ConsumersConfig struct {
	DefaultGroupID           string           `mapstructure:"default-group-id"`
	DefaultAutoOffsetReset   string           `mapstructure:"default-auto-offset-reset"`
	DefaultMaxRetryAttempts  int              `mapstructure:"default-max-retry-attempts"`
	DefaultInitialBackoff    time.Duration    `mapstructure:"default-initial-backoff"`
	DefaultMaxBackoff        time.Duration    `mapstructure:"default-max-backoff"`
	DefaultProcessingTimeout time.Duration    `mapstructure:"default-processing-timeout"`
	DefaultChannelBufferSize int              `mapstructure:"default-channel-buffer-size"`
	ConsumerConfig           []ConsumerConfig `mapstructure:"consumers"`
}

type ConsumerConfig struct {
	Name            string `mapstructure:"name"`
	Topic           string `mapstructure:"topic"`
	GroupID         string `mapstructure:"group-id"`
	AutoOffsetReset string `mapstructure:"auto-offset-reset"`
	// EnableDLQ sends messages that exhausted their retries to DLQTopic
	// ("{topic}.dlq" unless set).
	EnableDLQ         bool          `mapstructure:"enable-dlq"`
	DLQTopic          string        `mapstructure:"dlq-topic"`
	MaxRetryAttempts  int           `mapstructure:"max-retry-attempts"`
	InitialBackoff    time.Duration `mapstructure:"initial-backoff"`
	MaxBackoff        time.Duration `mapstructure:"max-backoff"`
	ProcessingTimeout time.Duration `mapstructure:"processing-timeout"`
	ChannelBufferSize int           `mapstructure:"channel-buffer-size"`
}

type ProducerConfig struct {
	// ReadinessTimeoutSeconds bounds the broker check on startup. 0 means no limit.
	ReadinessTimeoutSeconds int `mapstructure:"readiness-timeout-seconds"`
	// FailOnBrokerError fails startup when brokers are unreachable. Otherwise
	// the outbox keeps accumulating messages until they come back.
	FailOnBrokerError bool          `mapstructure:"fail-on-broker-error"`
	DeliveryTimeout   time.Duration `mapstructure:"delivery-timeout"`
	Acks              string        `mapstructure:"acks"`
}
