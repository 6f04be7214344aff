package server

import (
	"fmt"
	"time"

	"github.com/zhukov-alex/idgen/internal/interceptor"
)

type Config struct {
	GRPC         GRPCConfig         `mapstructure:"grpc"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	Interceptors interceptor.Config `mapstructure:"interceptors"`
}

type GRPCConfig struct {
	BindAddr          string        `mapstructure:"bind_addr"`
	ConnectionTimeout time.Duration `mapstructure:"connection_timeout"`
	EnableHealth      bool          `mapstructure:"enable_health"`
}

// HTTPConfig configures the JSON gateway. An empty BindAddr disables it.
type HTTPConfig struct {
	BindAddr     string        `mapstructure:"bind_addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

func (c *Config) Validate() error {
	if err := c.GRPC.Validate(); err != nil {
		return fmt.Errorf("grpc: %w", err)
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := c.Interceptors.Validate(); err != nil {
		return fmt.Errorf("interceptors: %w", err)
	}
	return nil
}

func (g *GRPCConfig) Validate() error {
	if g.BindAddr == "" {
		return fmt.Errorf("bind_addr is required")
	}
	if g.ConnectionTimeout <= 0 {
		return fmt.Errorf("connection_timeout must be > 0")
	}
	return nil
}

func (h *HTTPConfig) Enabled() bool { return h.BindAddr != "" }

func (h *HTTPConfig) Validate() error {
	if !h.Enabled() {
		return nil
	}
	if h.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be > 0")
	}
	if h.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be > 0")
	}
	return nil
}
