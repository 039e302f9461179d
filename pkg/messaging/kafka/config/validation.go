package config

import (
	"fmt"
	"strings"
)

func validateConfig(cfg *Config) error {
	if err := validateConsumers(cfg.ConsumersConfig.ConsumerConfig); err != nil {
		return err
	}
	if cfg.ProducerConfig.ReadinessTimeoutSeconds > maxReadinessTimeout {
		return fmt.Errorf("producer readiness timeout cannot exceed %d seconds, got: %d",
			maxReadinessTimeout, cfg.ProducerConfig.ReadinessTimeoutSeconds)
	}
	switch cfg.ProducerConfig.Acks {
	case "", "all", "0", "1", "-1":
	default:
		return fmt.Errorf("producer acks must be one of all, 0, 1, -1, got: %s", cfg.ProducerConfig.Acks)
	}
	return nil
}

func validateConsumers(consumers []ConsumerConfig) error {
	seen := make(map[string]struct{}, len(consumers))
	for i := range consumers {
		consumer := &consumers[i]
		if err := validateConsumer(i, consumer); err != nil {
			return err
		}
		if _, dup := seen[consumer.Name]; dup {
			return fmt.Errorf("consumer[%d] (%s): duplicate consumer name", i, consumer.Name)
		}
		seen[consumer.Name] = struct{}{}
	}
	return nil
}

func validateConsumer(index int, consumer *ConsumerConfig) error {
	if strings.TrimSpace(consumer.Name) == "" {
		return fmt.Errorf("consumer[%d]: name cannot be empty", index)
	}
	if strings.TrimSpace(consumer.Topic) == "" {
		return fmt.Errorf("consumer[%d] (%s): topic cannot be empty", index, consumer.Name)
	}
	if strings.TrimSpace(consumer.GroupID) == "" {
		return fmt.Errorf("consumer[%d] (%s): group id cannot be empty", index, consumer.Name)
	}
	if consumer.AutoOffsetReset != "earliest" && consumer.AutoOffsetReset != "latest" {
		return fmt.Errorf("consumer[%d] (%s): auto offset reset must be 'earliest' or 'latest', got: %s",
			index, consumer.Name, consumer.AutoOffsetReset)
	}
	if consumer.MaxRetryAttempts < minMaxRetryAttempts || consumer.MaxRetryAttempts > maxMaxRetryAttempts {
		return fmt.Errorf("consumer[%d] (%s): max retry attempts must be between %d and %d, got: %d",
			index, consumer.Name, minMaxRetryAttempts, maxMaxRetryAttempts, consumer.MaxRetryAttempts)
	}
	if consumer.InitialBackoff < minInitialBackoff || consumer.InitialBackoff > maxInitialBackoff {
		return fmt.Errorf("consumer[%d] (%s): initial backoff must be between %v and %v, got: %v",
			index, consumer.Name, minInitialBackoff, maxInitialBackoff, consumer.InitialBackoff)
	}
	if consumer.MaxBackoff < minMaxBackoff || consumer.MaxBackoff > maxMaxBackoffDuration {
		return fmt.Errorf("consumer[%d] (%s): max backoff must be between %v and %v, got: %v",
			index, consumer.Name, minMaxBackoff, maxMaxBackoffDuration, consumer.MaxBackoff)
	}
	if consumer.InitialBackoff > consumer.MaxBackoff {
		return fmt.Errorf("consumer[%d] (%s): initial backoff (%v) cannot be greater than max backoff (%v)",
			index, consumer.Name, consumer.InitialBackoff, consumer.MaxBackoff)
	}
	if consumer.ProcessingTimeout < minProcessingTimeout || consumer.ProcessingTimeout > maxProcessingTimeout {
		return fmt.Errorf("consumer[%d] (%s): processing timeout must be between %v and %v, got: %v",
			index, consumer.Name, minProcessingTimeout, maxProcessingTimeout, consumer.ProcessingTimeout)
	}
	if consumer.ChannelBufferSize < minChannelBufferSize || consumer.ChannelBufferSize > maxChannelBufferSize {
		return fmt.Errorf("consumer[%d] (%s): channel buffer size must be between %d and %d, got: %d",
			index, consumer.Name, minChannelBufferSize, maxChannelBufferSize, consumer.ChannelBufferSize)
	}
	if consumer.EnableDLQ && consumer.DLQTopic == consumer.Topic {
		return fmt.Errorf("consumer[%d] (%s): DLQ topic cannot be the same as main topic", index, consumer.Name)
	}
	return nil
}
