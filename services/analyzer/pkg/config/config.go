package config

import (
	stderrors "errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/redis"
)

// StrategyMode selects how signals are emitted.
type StrategyMode string

const (
	// ModeLevel emits on every warm tick whose averages differ.
	ModeLevel StrategyMode = "level"
	// ModeCrossover emits only when the fast/slow relationship changes.
	ModeCrossover StrategyMode = "crossover"
)

// Config holds the configuration for the analyzer service.
type Config struct {
	Strategy StrategyConfig `envPrefix:"STRATEGY_"`
	History  HistoryConfig  `envPrefix:"HISTORY_"`
	Engine   EngineConfig   `envPrefix:"ENGINE_"`
	Snapshot SnapshotConfig `envPrefix:"SNAPSHOT_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
	Redis    redis.Config   `envPrefix:"REDIS_"`
	Log      LogConfig      `envPrefix:"LOG_"`
	Server   ServerConfig   `envPrefix:"SERVER_"`
}

// StrategyConfig holds the moving average windows.
type StrategyConfig struct {
	FastWindow int          `env:"FAST_WINDOW" envDefault:"5"`
	SlowWindow int          `env:"SLOW_WINDOW" envDefault:"20"`
	Mode       StrategyMode `env:"MODE" envDefault:"level"`
}

// HistoryConfig holds the symbol history store settings.
type HistoryConfig struct {
	Shards int `env:"SHARDS" envDefault:"16"`
	// IdleTTL evicts symbols without ticks for longer than this. Zero disables eviction.
	IdleTTL time.Duration `env:"IDLE_TTL" envDefault:"0s"`
}

// EngineConfig holds the tick dispatch settings.
type EngineConfig struct {
	Workers         int           `env:"WORKERS" envDefault:"4"`
	QueueSize       int           `env:"QUEUE_SIZE" envDefault:"256"`
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL" envDefault:"1m"`
	ReadBackoff     time.Duration `env:"READ_BACKOFF" envDefault:"100ms"`
}

// SnapshotConfig holds the Redis warm-restart settings.
type SnapshotConfig struct {
	Enabled  bool          `env:"ENABLED" envDefault:"true"`
	Interval time.Duration `env:"INTERVAL" envDefault:"30s"`
	Key      string        `env:"KEY" envDefault:"analyzer:history"`
}

// KafkaConfig holds the configuration for Kafka consumer and producer.
type KafkaConfig struct {
	Brokers     []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	TickTopic   string   `env:"TICK_TOPIC" envDefault:"stock-raw"`
	SignalTopic string   `env:"SIGNAL_TOPIC" envDefault:"trade-signals"`
	GroupID     string   `env:"GROUP_ID" envDefault:"analyzer-group"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

// ServerConfig holds the listen addresses of the side servers.
type ServerConfig struct {
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9100"`
	HealthAddr  string `env:"HEALTH_ADDR" envDefault:":9101"`
}

// Load reads an optional .env file, parses the environment and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func invalid(message, field string) error {
	return errors.NewErrorDetails(message, string(errors.InvalidConfigurationError), field)
}

// Validate checks the startup invariants. FastWindow must be positive and
// strictly smaller than SlowWindow.
func (c *Config) Validate() error {
	switch {
	case c.Strategy.FastWindow <= 0:
		return invalid("fast window must be positive", "STRATEGY_FAST_WINDOW")
	case c.Strategy.SlowWindow <= 0:
		return invalid("slow window must be positive", "STRATEGY_SLOW_WINDOW")
	case c.Strategy.FastWindow >= c.Strategy.SlowWindow:
		return invalid("fast window must be smaller than slow window", "STRATEGY_FAST_WINDOW")
	case c.Strategy.Mode != ModeLevel && c.Strategy.Mode != ModeCrossover:
		return invalid("strategy mode must be level or crossover", "STRATEGY_MODE")
	case c.History.Shards <= 0:
		return invalid("history shards must be positive", "HISTORY_SHARDS")
	case c.History.IdleTTL < 0:
		return invalid("history idle ttl must not be negative", "HISTORY_IDLE_TTL")
	case c.Engine.Workers <= 0:
		return invalid("engine workers must be positive", "ENGINE_WORKERS")
	case c.Engine.QueueSize <= 0:
		return invalid("engine queue size must be positive", "ENGINE_QUEUE_SIZE")
	case c.History.IdleTTL > 0 && c.Engine.JanitorInterval <= 0:
		return invalid("janitor interval must be positive when idle eviction is on", "ENGINE_JANITOR_INTERVAL")
	case c.Snapshot.Enabled && c.Snapshot.Interval <= 0:
		return invalid("snapshot interval must be positive", "SNAPSHOT_INTERVAL")
	case len(c.Kafka.Brokers) == 0:
		return invalid("at least one kafka broker is required", "KAFKA_BROKERS")
	}
	return nil
}
