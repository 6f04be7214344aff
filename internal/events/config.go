package events

import (
	"fmt"
	"time"
)

const TypeKafka = "kafka"

type Config struct {
	Type  string       `mapstructure:"type"`
	Kafka *KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers            []string      `mapstructure:"brokers"`
	Topic              string        `mapstructure:"topic"`
	Acks               string        `mapstructure:"acks"`
	Timeout            time.Duration `mapstructure:"timeout"`
	BufferSize         int           `mapstructure:"buffer_size"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `mapstructure:"breaker_open_timeout"`
}

// Validate accepts an empty Type, which disables events.
func (c *Config) Validate() error {
	switch c.Type {
	case "":
		return nil
	case TypeKafka:
		if c.Kafka == nil {
			return fmt.Errorf("kafka config must be provided for type=kafka")
		}
		if err := c.Kafka.Validate(); err != nil {
			return fmt.Errorf("kafka config: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown events type %q", c.Type)
	}
}

func (k *KafkaConfig) Validate() error {
	if len(k.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must not be empty")
	}
	if k.Topic == "" {
		return fmt.Errorf("kafka.topic is required")
	}
	if k.Acks != "0" && k.Acks != "1" && k.Acks != "all" {
		return fmt.Errorf("kafka.acks must be one of: 0, 1, all")
	}
	if k.Timeout <= 0 {
		return fmt.Errorf("kafka.timeout must be > 0")
	}
	if k.BufferSize <= 0 {
		return fmt.Errorf("kafka.buffer_size must be > 0")
	}
	if k.BreakerMaxFailures == 0 {
		return fmt.Errorf("kafka.breaker_max_failures must be > 0")
	}
	if k.BreakerOpenTimeout <= 0 {
		return fmt.Errorf("kafka.breaker_open_timeout must be > 0")
	}
	return nil
}
