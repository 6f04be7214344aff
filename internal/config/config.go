package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/zhukov-alex/idgen/internal/events"
	"github.com/zhukov-alex/idgen/internal/logger"
	"github.com/zhukov-alex/idgen/internal/server"
	"github.com/zhukov-alex/idgen/internal/snowflake"
)

const (
	EnvPrefix = "IDGEN"
	EnvFile   = ".env"
)

type Config struct {
	MetricsAddr string `mapstructure:"metrics_addr"`

	Generator snowflake.Config `mapstructure:"generator"`
	Server    server.Config    `mapstructure:"server"`
	Events    events.Config    `mapstructure:"events"`
	Logger    logger.Config    `mapstructure:"logger"`
}

func NewConfigInit(cfgFile *string) func() {
	return func() {
		if strings.TrimSpace(*cfgFile) == "" {
			log.Fatalf("invalid config file name")
		}
		if _, err := os.Stat(*cfgFile); err != nil {
			log.Fatalf("invalid config path: %v", err)
		}
		if err := LoadEnvFile(EnvFile); err != nil {
			log.Fatalf("Failed to load %s: %v\n", EnvFile, err)
		}

		SetDefaults(viper.GetViper())
		BindEnv(viper.GetViper())
		viper.SetConfigFile(*cfgFile)

		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("Failed to read config: %v\n", err)
		}
	}
}

// LoadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// BindEnv lets IDGEN_SERVER_GRPC_BIND_ADDR override server.grpc.bind_addr.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// SetDefaults registers the reference layout and addresses.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generator.generator_id", 0)
	v.SetDefault("generator.timestamp_bits", 41)
	v.SetDefault("generator.generator_id_bits", 10)
	v.SetDefault("generator.sequence_bits", 13)
	v.SetDefault("generator.tick", snowflake.DefaultTick)
	v.SetDefault("generator.clock", snowflake.ClockMonotonic)
	v.SetDefault("server.grpc.bind_addr", "[::1]:10000")
	v.SetDefault("server.grpc.connection_timeout", 5*time.Second)
	v.SetDefault("server.grpc.enable_health", true)
	v.SetDefault("server.http.read_timeout", 3*time.Second)
	v.SetDefault("server.http.write_timeout", 3*time.Second)
}

func New(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(DecodeHook())); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return &cfg, nil
}

func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func (c *Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config: %w", err)
	}
	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("generator config: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events config: %w", err)
	}
	return nil
}
