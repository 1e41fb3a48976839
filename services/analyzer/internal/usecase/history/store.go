package history

import (
	"sort"
	"sync"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/util"
	signalv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/signal/v1"
)

// View is the state of one symbol right after a price was recorded.
type View struct {
	// Prices is a copy of the history, oldest first.
	Prices []float64
	// Warm reports whether the history holds exactly capacity prices.
	Warm bool
}

type series struct {
	prices   *ring
	lastSeen time.Time
	// last is the most recent classification, used by crossover mode.
	last signalv1.Direction
}

type shard struct {
	mu     sync.Mutex
	series map[string]*series
}

// Store keeps a bounded price history per symbol. Symbols are spread over
// shards, each guarded by its own mutex, so different symbols rarely contend.
type Store struct {
	capacity int
	shards   []*shard
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithShards sets the number of lock shards.
func WithShards(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.shards = make([]*shard, n)
		}
	}
}

// WithClock replaces time.Now for last-seen bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store whose histories hold at most capacity prices.
func NewStore(capacity int, opts ...Option) (*Store, error) {
	if capacity <= 0 {
		return nil, errors.NewErrorDetails("history capacity must be positive", string(errors.InvalidConfigurationError), "capacity")
	}

	s := &Store{
		capacity: capacity,
		shards:   make([]*shard, 16),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.shards {
		s.shards[i] = &shard{series: make(map[string]*series)}
	}
	return s, nil
}

// Capacity returns the maximum history length.
func (s *Store) Capacity() int {
	return s.capacity
}

func (s *Store) shardFor(symbol string) *shard {
	return s.shards[util.Bucket(symbol, len(s.shards))]
}

// getOrCreate must be called with sh.mu held.
func (s *Store) getOrCreate(sh *shard, symbol string) *series {
	sr, ok := sh.series[symbol]
	if !ok {
		sr = &series{prices: newRing(s.capacity)}
		sh.series[symbol] = sr
	}
	return sr
}

// Record appends price to the symbol's history, evicting the oldest price
// once the history is full. Unknown symbols are created.
func (s *Store) Record(symbol string, price float64) {
	sh := s.shardFor(symbol)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sr := s.getOrCreate(sh, symbol)
	sr.prices.push(price)
	sr.lastSeen = s.now()
}

// Snapshot returns a copy of the symbol's prices, oldest first. It is empty
// for unknown symbols.
func (s *Store) Snapshot(symbol string) []float64 {
	sh := s.shardFor(symbol)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sr, ok := sh.series[symbol]
	if !ok {
		return []float64{}
	}
	return sr.prices.values()
}

// IsWarm reports whether the symbol's history holds exactly capacity prices.
func (s *Store) IsWarm(symbol string) bool {
	sh := s.shardFor(symbol)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sr, ok := sh.series[symbol]
	return ok && sr.prices.full()
}

// Observe records price and returns the resulting history in one critical
// section, so the returned view always includes this price.
func (s *Store) Observe(symbol string, price float64) View {
	sh := s.shardFor(symbol)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sr := s.getOrCreate(sh, symbol)
	sr.prices.push(price)
	sr.lastSeen = s.now()

	return View{
		Prices: sr.prices.values(),
		Warm:   sr.prices.full(),
	}
}

// Transition stores dir as the symbol's latest classification and reports
// whether it differs from the previous one. The first classification of a
// symbol always counts as a change.
func (s *Store) Transition(symbol string, dir signalv1.Direction) bool {
	sh := s.shardFor(symbol)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sr := s.getOrCreate(sh, symbol)
	changed := sr.last != dir
	sr.last = dir
	return changed
}

// Len returns the number of tracked symbols.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.series)
		sh.mu.Unlock()
	}
	return n
}

// Symbols returns the tracked symbols in lexical order.
func (s *Store) Symbols() []string {
	var symbols []string
	for _, sh := range s.shards {
		sh.mu.Lock()
		for symbol := range sh.series {
			symbols = append(symbols, symbol)
		}
		sh.mu.Unlock()
	}
	sort.Strings(symbols)
	return symbols
}

// Export copies every history. Shards are locked one at a time, so the
// result is consistent per symbol but not across symbols.
func (s *Store) Export() map[string][]float64 {
	out := make(map[string][]float64)
	for _, sh := range s.shards {
		sh.mu.Lock()
		for symbol, sr := range sh.series {
			out[symbol] = sr.prices.values()
		}
		sh.mu.Unlock()
	}
	return out
}

// Directions copies the last classification of every symbol that has one.
func (s *Store) Directions() map[string]signalv1.Direction {
	out := make(map[string]signalv1.Direction)
	for _, sh := range s.shards {
		sh.mu.Lock()
		for symbol, sr := range sh.series {
			if sr.last != "" {
				out[symbol] = sr.last
			}
		}
		sh.mu.Unlock()
	}
	return out
}

// RestoreDirections sets the last classification of symbols that already
// have a history. Call it after Restore, which resets classifications.
func (s *Store) RestoreDirections(directions map[string]signalv1.Direction) int {
	restored := 0
	for symbol, dir := range directions {
		sh := s.shardFor(symbol)
		sh.mu.Lock()
		if sr, ok := sh.series[symbol]; ok {
			sr.last = dir
			restored++
		}
		sh.mu.Unlock()
	}
	return restored
}

// Restore replaces the histories of the given symbols. Histories longer than
// capacity keep only their newest prices. It returns the number of symbols
// restored.
func (s *Store) Restore(histories map[string][]float64) int {
	restored := 0
	now := s.now()
	for symbol, prices := range histories {
		if symbol == "" || len(prices) == 0 {
			continue
		}
		if len(prices) > s.capacity {
			prices = prices[len(prices)-s.capacity:]
		}

		r := newRing(s.capacity)
		for _, p := range prices {
			r.push(p)
		}

		sh := s.shardFor(symbol)
		sh.mu.Lock()
		sh.series[symbol] = &series{prices: r, lastSeen: now}
		sh.mu.Unlock()
		restored++
	}
	return restored
}

// EvictIdle drops symbols that have not been recorded within ttl and
// returns them. A non-positive ttl evicts nothing.
func (s *Store) EvictIdle(ttl time.Duration) []string {
	if ttl <= 0 {
		return nil
	}

	cutoff := s.now().Add(-ttl)
	var evicted []string
	for _, sh := range s.shards {
		sh.mu.Lock()
		for symbol, sr := range sh.series {
			if sr.lastSeen.Before(cutoff) {
				delete(sh.series, symbol)
				evicted = append(evicted, symbol)
			}
		}
		sh.mu.Unlock()
	}
	sort.Strings(evicted)
	return evicted
}
