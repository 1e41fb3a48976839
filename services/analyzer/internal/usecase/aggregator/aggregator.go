package aggregator

import (
	"context"
	"math"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	signalv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/signal/v1"
	tickv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/tick/v1"
	"github.com/muhammadchandra19/stockstream/services/analyzer/internal/usecase/classifier"
	"github.com/muhammadchandra19/stockstream/services/analyzer/internal/usecase/history"
	"github.com/muhammadchandra19/stockstream/services/analyzer/internal/usecase/indicator"
	"github.com/muhammadchandra19/stockstream/services/analyzer/pkg/config"
)

// Aggregator turns ticks into signals: it records each price, waits for the
// history to fill, then compares the fast and slow moving averages.
type Aggregator struct {
	store  *history.Store
	fast   int
	mode   config.StrategyMode
	clock  func() time.Time
	logger logger.Interface
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock sets the source of Signal.EmittedAt.
func WithClock(clock func() time.Time) Option {
	return func(a *Aggregator) {
		a.clock = clock
	}
}

// WithMode selects level or crossover emission.
func WithMode(mode config.StrategyMode) Option {
	return func(a *Aggregator) {
		a.mode = mode
	}
}

// WithLogger sets the logger used for per-tick debug lines.
func WithLogger(log logger.Interface) Option {
	return func(a *Aggregator) {
		a.logger = log
	}
}

// New creates an Aggregator. The slow window is the store capacity and must
// be larger than fast.
func New(store *history.Store, fast int, opts ...Option) (*Aggregator, error) {
	if fast <= 0 || fast >= store.Capacity() {
		return nil, errors.NewErrorDetails("fast window must be positive and smaller than slow window", string(errors.InvalidConfigurationError), "fast_window")
	}

	a := &Aggregator{
		store:  store,
		fast:   fast,
		mode:   config.ModeLevel,
		clock:  time.Now,
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Store returns the underlying history store.
func (a *Aggregator) Store() *history.Store {
	return a.store
}

// OnTick processes one tick. It returns a MalformedTick error for invalid
// ticks, nil while the symbol is warming up or on HOLD, and a Signal for
// BUY or SELL. In crossover mode a signal is only returned when the
// direction differs from the symbol's previous classification.
func (a *Aggregator) OnTick(ctx context.Context, tick *tickv1.Tick) (*signalv1.Signal, error) {
	if err := tick.Validate(); err != nil {
		return nil, err
	}

	view := a.store.Observe(tick.Symbol, tick.Price)
	if !view.Warm {
		a.logger.DebugContext(ctx, "warming up",
			logger.NewField("symbol", tick.Symbol),
			logger.NewField("size", len(view.Prices)),
			logger.NewField("window", a.store.Capacity()),
		)
		return nil, nil
	}

	fastMA, slowMA := indicator.FastSlow(view.Prices, a.fast)
	direction := classifier.Classify(fastMA, slowMA)

	a.logger.DebugContext(ctx, "tick analyzed",
		logger.NewField("symbol", tick.Symbol),
		logger.NewField("price", round2(tick.Price)),
		logger.NewField("fast_ma", round2(fastMA)),
		logger.NewField("slow_ma", round2(slowMA)),
		logger.NewField("direction", direction),
	)

	if a.mode == config.ModeCrossover && !a.store.Transition(tick.Symbol, direction) {
		return nil, nil
	}
	if direction == signalv1.Hold {
		return nil, nil
	}

	return &signalv1.Signal{
		Symbol:    tick.Symbol,
		Direction: direction,
		Price:     tick.Price,
		EmittedAt: a.clock(),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
