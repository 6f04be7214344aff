package snowflake

import (
	"fmt"
	"time"
)

type Config struct {
	GeneratorID     uint64        `mapstructure:"generator_id"`
	TimestampBits   uint8         `mapstructure:"timestamp_bits"`
	GeneratorIDBits uint8         `mapstructure:"generator_id_bits"`
	SequenceBits    uint8         `mapstructure:"sequence_bits"`
	Epoch           time.Time     `mapstructure:"epoch"`
	Tick            time.Duration `mapstructure:"tick"` // 0 means DefaultTick
	Clock           string        `mapstructure:"clock"`
}

// Validate checks only what the builders cannot; layout problems are reported
// by NewStructure as a *ConfigError.
func (c *Config) Validate() error {
	switch c.Clock {
	case "", ClockMonotonic, ClockRaw:
	default:
		return fmt.Errorf("clock must be one of: %s, %s", ClockMonotonic, ClockRaw)
	}
	if c.Tick < 0 {
		return fmt.Errorf("tick must be >= 0")
	}
	if c.Epoch.IsZero() {
		return fmt.Errorf("epoch is required")
	}
	return nil
}

func (c *Config) NewStructure() (*Structure, error) {
	clock, err := NewClock(c.Clock)
	if err != nil {
		return nil, err
	}
	b := NewStructureBuilder().
		TimestampBits(c.TimestampBits).
		GeneratorIDBits(c.GeneratorIDBits).
		SequenceBits(c.SequenceBits).
		Epoch(c.Epoch).
		Clock(clock)
	if c.Tick != 0 {
		b.Tick(c.Tick)
	}
	return b.Build()
}

func (c *Config) NewGenerator(observer Observer, registerMetrics bool) (*Generator, error) {
	structure, err := c.NewStructure()
	if err != nil {
		return nil, err
	}
	return NewGeneratorBuilder().
		Structure(structure).
		GeneratorID(c.GeneratorID).
		Observer(observer).
		RegisterMetrics(registerMetrics).
		Build()
}
