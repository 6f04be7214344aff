package interceptor

import (
	"fmt"
	"time"
)

type Config struct {
	SlowThreshold time.Duration   `mapstructure:"slow_threshold"`
	IgnoreMethods []string        `mapstructure:"ignore_methods"`
	RateLimit     RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig configures a token bucket. RequestsPerSecond == 0 disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

func (c *Config) Validate() error {
	if c.SlowThreshold < 0 {
		return fmt.Errorf("slow_threshold must be >= 0")
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("rate_limit.requests_per_second must be >= 0")
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.burst must be > 0 when rate limiting is enabled")
	}
	return nil
}
