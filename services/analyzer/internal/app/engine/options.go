package engine

import (
	"time"

	"github.com/muhammadchandra19/stockstream/services/analyzer/pkg/config"
)

// Options represents configuration options for the Engine.
type Options struct {
	Workers   int
	QueueSize int

	ReadBackoff time.Duration

	JanitorInterval time.Duration
	IdleTTL         time.Duration

	// SnapshotInterval is ignored when the engine has no snapshot store.
	SnapshotInterval time.Duration
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		Workers:          4,
		QueueSize:        256,
		ReadBackoff:      100 * time.Millisecond,
		JanitorInterval:  time.Minute,
		SnapshotInterval: 30 * time.Second,
	}
}

// OptionsFromConfig maps the service configuration onto engine options.
func OptionsFromConfig(cfg *config.Config) *Options {
	return &Options{
		Workers:          cfg.Engine.Workers,
		QueueSize:        cfg.Engine.QueueSize,
		ReadBackoff:      cfg.Engine.ReadBackoff,
		JanitorInterval:  cfg.Engine.JanitorInterval,
		IdleTTL:          cfg.History.IdleTTL,
		SnapshotInterval: cfg.Snapshot.Interval,
	}
}
