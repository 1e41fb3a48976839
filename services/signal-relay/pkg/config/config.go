package config

import (
	stderrors "errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/stockstream/pkg/errors"
)

// Config holds the configuration for the signal-relay service.
type Config struct {
	Kafka  KafkaConfig  `envPrefix:"KAFKA_"`
	Server ServerConfig `envPrefix:"SERVER_"`
	Log    LogConfig    `envPrefix:"LOG_"`
}

// KafkaConfig holds the consumer settings.
type KafkaConfig struct {
	Brokers     []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	TickTopic   string   `env:"TICK_TOPIC" envDefault:"stock-raw"`
	SignalTopic string   `env:"SIGNAL_TOPIC" envDefault:"trade-signals"`
	GroupID     string   `env:"GROUP_ID" envDefault:"websocket-group"`
}

// ServerConfig holds the websocket server settings.
type ServerConfig struct {
	Addr           string        `env:"ADDR" envDefault:":4000"`
	SendBuffer     int           `env:"SEND_BUFFER" envDefault:"256"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	WriteWait      time.Duration `env:"WRITE_WAIT" envDefault:"2s"`
	PongWait       time.Duration `env:"PONG_WAIT" envDefault:"60s"`
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

// Validate checks the settings that would make the relay unusable.
func (c *Config) Validate() error {
	if len(c.Kafka.Brokers) == 0 {
		return errors.NewErrorDetails("at least one kafka broker is required", string(errors.InvalidConfigurationError), "KAFKA_BROKERS")
	}
	if c.Server.SendBuffer <= 0 {
		return errors.NewErrorDetails("send buffer must be positive", string(errors.InvalidConfigurationError), "SERVER_SEND_BUFFER")
	}
	if c.Server.PongWait <= 0 || c.Server.WriteWait <= 0 {
		return errors.NewErrorDetails("websocket timeouts must be positive", string(errors.InvalidConfigurationError), "SERVER_PONG_WAIT")
	}
	return nil
}
