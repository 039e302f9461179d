package config

func applyDefaults(cfg *Config) {
	global := &cfg.ConsumersConfig
	if global.DefaultAutoOffsetReset == "" {
		global.DefaultAutoOffsetReset = defaultAutoOffsetReset
	}
	if global.DefaultMaxRetryAttempts == 0 {
		global.DefaultMaxRetryAttempts = defaultMaxRetryAttempts
	}
	if global.DefaultInitialBackoff == 0 {
		global.DefaultInitialBackoff = defaultInitialBackoff
	}
	if global.DefaultMaxBackoff == 0 {
		global.DefaultMaxBackoff = defaultMaxBackoff
	}
	if global.DefaultProcessingTimeout == 0 {
		global.DefaultProcessingTimeout = defaultProcessingTimeout
	}
	if global.DefaultChannelBufferSize == 0 {
		global.DefaultChannelBufferSize = defaultChannelBufferSize
	}

	for i := range global.ConsumerConfig {
		applyConsumerDefaults(&global.ConsumerConfig[i], global)
	}

	if cfg.ProducerConfig.ReadinessTimeoutSeconds == 0 {
		cfg.ProducerConfig.ReadinessTimeoutSeconds = defaultProducerReadinessTimeout
	}
	if cfg.ProducerConfig.DeliveryTimeout == 0 {
		cfg.ProducerConfig.DeliveryTimeout = defaultDeliveryTimeout
	}
	if cfg.ProducerConfig.Acks == "" {
		cfg.ProducerConfig.Acks = defaultAcks
	}
}

func applyConsumerDefaults(consumer *ConsumerConfig, global *ConsumersConfig) {
	if consumer.GroupID == "" {
		consumer.GroupID = global.DefaultGroupID
	}
	if consumer.AutoOffsetReset == "" {
		consumer.AutoOffsetReset = global.DefaultAutoOffsetReset
	}
	if consumer.EnableDLQ && consumer.DLQTopic == "" {
		consumer.DLQTopic = consumer.Topic + ".dlq"
	}
	if consumer.MaxRetryAttempts == 0 {
		consumer.MaxRetryAttempts = global.DefaultMaxRetryAttempts
	}
	if consumer.InitialBackoff == 0 {
		consumer.InitialBackoff = global.DefaultInitialBackoff
	}
	if consumer.MaxBackoff == 0 {
		consumer.MaxBackoff = global.DefaultMaxBackoff
	}
	if consumer.ProcessingTimeout == 0 {
		consumer.ProcessingTimeout = global.DefaultProcessingTimeout
	}
	if consumer.ChannelBufferSize == 0 {
		consumer.ChannelBufferSize = global.DefaultChannelBufferSize
	}
}
