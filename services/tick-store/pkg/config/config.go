package config

import (
	stderrors "errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/questdb"
)

// Config holds the configuration for the tick-store service.
type Config struct {
	Kafka         KafkaConfig    `envPrefix:"KAFKA_"`
	QuestDB       questdb.Config `envPrefix:"QUESTDB_"`
	Batch         BatchConfig    `envPrefix:"BATCH_"`
	Log           LogConfig      `envPrefix:"LOG_"`
	HealthAddr    string         `env:"HEALTH_ADDR" envDefault:":4100"`
	MigrationsDir string         `env:"MIGRATIONS_DIR" envDefault:"services/tick-store/migrations"`
}

// KafkaConfig holds the consumer settings for both topics.
type KafkaConfig struct {
	Brokers     []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	TickTopic   string   `env:"TICK_TOPIC" envDefault:"stock-raw"`
	SignalTopic string   `env:"SIGNAL_TOPIC" envDefault:"trade-signals"`
	GroupID     string   `env:"GROUP_ID" envDefault:"storage-group"`
}

// BatchConfig controls how rows are grouped before a write.
type BatchConfig struct {
	Size          int           `env:"SIZE" envDefault:"500"`
	FlushInterval time.Duration `env:"FLUSH_INTERVAL" envDefault:"1s"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

// Load reads an optional .env file and parses the environment.
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

// Validate checks the batching settings.
func (c *Config) Validate() error {
	if c.Batch.Size <= 0 {
		return errors.NewErrorDetails("batch size must be positive", string(errors.InvalidConfigurationError), "BATCH_SIZE")
	}
	if c.Batch.FlushInterval <= 0 {
		return errors.NewErrorDetails("flush interval must be positive", string(errors.InvalidConfigurationError), "BATCH_FLUSH_INTERVAL")
	}
	if len(c.Kafka.Brokers) == 0 {
		return errors.NewErrorDetails("at least one kafka broker is required", string(errors.InvalidConfigurationError), "KAFKA_BROKERS")
	}
	return nil
}
