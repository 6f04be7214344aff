package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukov-alex/idgen/internal/config"
)

const fullYAML = `
metrics_addr: ":9100"
generator:
  generator_id: 12
  timestamp_bits: 41
  generator_id_bits: 10
  sequence_bits: 13
  epoch: "2024-01-01T00:00:00Z"
  tick: 2ms
  clock: monotonic
server:
  grpc:
    bind_addr: "127.0.0.1:10000"
    connection_timeout: 1s
  http:
    bind_addr: "127.0.0.1:8080"
    read_timeout: 2s
    write_timeout: 2s
  interceptors:
    slow_threshold: 25ms
    rate_limit:
      requests_per_second: 100
      burst: 10
events:
  type: kafka
  kafka:
    brokers: ["localhost:9092"]
    topic: idgen-events
    acks: all
    timeout: 2s
    buffer_size: 32
    breaker_max_failures: 3
    breaker_open_timeout: 10s
logger:
  level: info
`

func load(t *testing.T, yaml string) (*config.Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	v := viper.New()
	config.SetDefaults(v)
	config.BindEnv(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	return config.New(v)
}

func TestNew_Full(t *testing.T) {
	cfg, err := load(t, fullYAML)
	require.NoError(t, err)

	assert.Equal(t, uint64(12), cfg.Generator.GeneratorID)
	assert.Equal(t, uint8(41), cfg.Generator.TimestampBits)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Generator.Epoch.UTC())
	assert.Equal(t, 2*time.Millisecond, cfg.Generator.Tick)
	assert.Equal(t, time.Second, cfg.Server.GRPC.ConnectionTimeout)
	assert.True(t, cfg.Server.GRPC.EnableHealth, "defaults fill keys missing from the file")
	assert.Equal(t, 25*time.Millisecond, cfg.Server.Interceptors.SlowThreshold)
	assert.Equal(t, 10, cfg.Server.Interceptors.RateLimit.Burst)
	require.NotNil(t, cfg.Events.Kafka)
	assert.Equal(t, uint32(3), cfg.Events.Kafka.BreakerMaxFailures)
	assert.Equal(t, 10*time.Second, cfg.Events.Kafka.BreakerOpenTimeout)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestNew_Defaults(t *testing.T) {
	cfg, err := load(t, "generator:\n  epoch: \"2024-01-01T00:00:00Z\"\n")
	require.NoError(t, err)

	assert.Equal(t, uint8(41), cfg.Generator.TimestampBits)
	assert.Equal(t, uint8(10), cfg.Generator.GeneratorIDBits)
	assert.Equal(t, uint8(13), cfg.Generator.SequenceBits)
	assert.Equal(t, uint64(0), cfg.Generator.GeneratorID)
	assert.Equal(t, "[::1]:10000", cfg.Server.GRPC.BindAddr)
	assert.Empty(t, cfg.Events.Type)
}

func TestNew_EnvOverride(t *testing.T) {
	t.Setenv("IDGEN_SERVER_GRPC_BIND_ADDR", "0.0.0.0:7000")
	t.Setenv("IDGEN_GENERATOR_GENERATOR_ID", "99")
	t.Setenv("IDGEN_EVENTS_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := load(t, fullYAML)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7000", cfg.Server.GRPC.BindAddr)
	assert.Equal(t, uint64(99), cfg.Generator.GeneratorID)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.Kafka.Brokers)
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "missing epoch", yaml: "generator:\n  generator_id: 1\n"},
		{name: "bad clock", yaml: "generator:\n  epoch: \"2024-01-01T00:00:00Z\"\n  clock: sundial\n"},
		{name: "kafka without section", yaml: "generator:\n  epoch: \"2024-01-01T00:00:00Z\"\nevents:\n  type: kafka\n"},
		{name: "bad log level", yaml: "generator:\n  epoch: \"2024-01-01T00:00:00Z\"\nlogger:\n  level: chatty\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(t, tc.yaml)
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	assert.NoError(t, config.LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	const key = "IDGEN_TEST_DOTENV_VALUE"
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	require.NoError(t, config.LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv(key))
}
