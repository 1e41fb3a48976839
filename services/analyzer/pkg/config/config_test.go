package config

import (
	"testing"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Strategy.FastWindow)
	assert.Equal(t, 20, cfg.Strategy.SlowWindow)
	assert.Equal(t, ModeLevel, cfg.Strategy.Mode)
	assert.Equal(t, 16, cfg.History.Shards)
	assert.Zero(t, cfg.History.IdleTTL)
	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.Equal(t, 256, cfg.Engine.QueueSize)
	assert.True(t, cfg.Snapshot.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Snapshot.Interval)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "stock-raw", cfg.Kafka.TickTopic)
	assert.Equal(t, "trade-signals", cfg.Kafka.SignalTopic)
	assert.Equal(t, []string{"localhost:6379"}, cfg.Redis.Addrs)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STRATEGY_FAST_WINDOW", "2")
	t.Setenv("STRATEGY_SLOW_WINDOW", "4")
	t.Setenv("STRATEGY_MODE", "crossover")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("HISTORY_IDLE_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Strategy.FastWindow)
	assert.Equal(t, 4, cfg.Strategy.SlowWindow)
	assert.Equal(t, ModeCrossover, cfg.Strategy.Mode)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 15*time.Minute, cfg.History.IdleTTL)
}

func TestLoad_RejectsInvalidWindows(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STRATEGY_FAST_WINDOW", "20")
	t.Setenv("STRATEGY_SLOW_WINDOW", "20")

	_, err := Load()
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.InvalidConfigurationError)))
}

func validConfig() *Config {
	return &Config{
		Strategy: StrategyConfig{FastWindow: 5, SlowWindow: 20, Mode: ModeLevel},
		History:  HistoryConfig{Shards: 16},
		Engine:   EngineConfig{Workers: 4, QueueSize: 256, JanitorInterval: time.Minute},
		Snapshot: SnapshotConfig{Enabled: true, Interval: 30 * time.Second},
		Kafka:    KafkaConfig{Brokers: []string{"localhost:9092"}},
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero fast", mutate: func(c *Config) { c.Strategy.FastWindow = 0 }, wantField: "STRATEGY_FAST_WINDOW"},
		{name: "negative slow", mutate: func(c *Config) { c.Strategy.SlowWindow = -1 }, wantField: "STRATEGY_SLOW_WINDOW"},
		{name: "fast equals slow", mutate: func(c *Config) { c.Strategy.FastWindow = 20 }, wantField: "STRATEGY_FAST_WINDOW"},
		{name: "fast above slow", mutate: func(c *Config) { c.Strategy.FastWindow = 30 }, wantField: "STRATEGY_FAST_WINDOW"},
		{name: "unknown mode", mutate: func(c *Config) { c.Strategy.Mode = "edge" }, wantField: "STRATEGY_MODE"},
		{name: "no shards", mutate: func(c *Config) { c.History.Shards = 0 }, wantField: "HISTORY_SHARDS"},
		{name: "no workers", mutate: func(c *Config) { c.Engine.Workers = 0 }, wantField: "ENGINE_WORKERS"},
		{name: "no queue", mutate: func(c *Config) { c.Engine.QueueSize = 0 }, wantField: "ENGINE_QUEUE_SIZE"},
		{
			name: "idle ttl without janitor",
			mutate: func(c *Config) {
				c.History.IdleTTL = time.Minute
				c.Engine.JanitorInterval = 0
			},
			wantField: "ENGINE_JANITOR_INTERVAL",
		},
		{name: "snapshot without interval", mutate: func(c *Config) { c.Snapshot.Interval = 0 }, wantField: "SNAPSHOT_INTERVAL"},
		{
			name: "snapshot disabled ignores interval",
			mutate: func(c *Config) {
				c.Snapshot.Enabled = false
				c.Snapshot.Interval = 0
			},
		},
		{name: "no brokers", mutate: func(c *Config) { c.Kafka.Brokers = nil }, wantField: "KAFKA_BROKERS"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var details *errors.ErrorDetails
			require.ErrorAs(t, err, &details)
			assert.Equal(t, string(errors.InvalidConfigurationError), details.Code)
			assert.Equal(t, tc.wantField, details.Field)
		})
	}
}
