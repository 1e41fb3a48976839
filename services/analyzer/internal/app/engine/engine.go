package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/muhammadchandra19/stockstream/pkg/util"
	signalv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/signal/v1"
	snapshotv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/snapshot/v1"
	tickv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/tick/v1"
	tickreaderv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/tick-reader/v1"
	"github.com/muhammadchandra19/stockstream/services/analyzer/internal/metrics"
	"github.com/muhammadchandra19/stockstream/services/analyzer/internal/usecase/aggregator"
	"github.com/segmentio/kafka-go"
)

type job struct {
	ctx  context.Context
	tick *tickv1.Tick
}

// Engine reads ticks, routes them to per-symbol workers and hands the
// resulting signals to the publisher.
type Engine struct {
	// Core components
	aggregator    *aggregator.Aggregator
	tickReader    tickreaderv1.TickReader
	publisher     signalv1.Publisher
	snapshotStore snapshotv1.Store
	metrics       *metrics.Metrics
	logger        logger.Interface
	options       *Options

	queues []chan job

	processed         atomic.Int64
	emitted           atomic.Int64
	lastSnapshotCount int64

	// Shutdown coordination
	ctx      context.Context
	cancel   context.CancelFunc
	readerWg sync.WaitGroup
	workerWg sync.WaitGroup
	loopWg   sync.WaitGroup
	stopOnce sync.Once
}

// NewEngine creates a new instance of Engine with the provided dependencies.
// snapshotStore may be nil to disable warm restarts.
func NewEngine(
	agg *aggregator.Aggregator,
	tickReader tickreaderv1.TickReader,
	publisher signalv1.Publisher,
	snapshotStore snapshotv1.Store,
	m *metrics.Metrics,
	log logger.Interface,
	options *Options,
) *Engine {
	if options == nil {
		options = DefaultEngineOptions()
	}

	e := &Engine{
		aggregator:    agg,
		tickReader:    tickReader,
		publisher:     publisher,
		snapshotStore: snapshotStore,
		metrics:       m,
		logger:        log,
		options:       options,
		queues:        make([]chan job, options.Workers),
	}
	for i := range e.queues {
		e.queues[i] = make(chan job, options.QueueSize)
	}
	return e
}

// Start restores the last snapshot, if any, and starts the reader, the
// workers and the maintenance loops.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	if err := e.loadSnapshot(e.ctx); err != nil {
		e.logger.Error(err, logger.NewField("action", "load_snapshot"))
	}

	for i, queue := range e.queues {
		e.workerWg.Add(1)
		go e.runWorker(i, queue)
	}

	e.readerWg.Add(1)
	go e.runTickReader()

	e.loopWg.Add(1)
	go e.runJanitor()

	if e.snapshotStore != nil && e.options.SnapshotInterval > 0 {
		e.loopWg.Add(1)
		go e.runSnapshotManager()
	}

	e.logger.Info("engine started",
		logger.NewField("workers", len(e.queues)),
		logger.NewField("queue_size", e.options.QueueSize),
		logger.NewField("window", e.aggregator.Store().Capacity()),
	)
	return nil
}

// Stop cancels reading, drains the queued ticks and writes a last snapshot.
func (e *Engine) Stop(ctx context.Context) error {
	done := make(chan struct{})
	e.stopOnce.Do(func() {
		if e.cancel != nil {
			e.cancel()
		}
		go func() {
			e.readerWg.Wait()
			for _, queue := range e.queues {
				close(queue)
			}
			e.workerWg.Wait()
			e.loopWg.Wait()
			close(done)
		}()
	})

	select {
	case <-done:
	case <-ctx.Done():
		e.logger.Warn("engine stop timeout exceeded")
		return ctx.Err()
	}

	if e.snapshotStore != nil {
		e.createAndStoreSnapshot(ctx)
	}

	e.logger.Info("engine stopped",
		logger.NewField("processed", e.processed.Load()),
		logger.NewField("emitted", e.emitted.Load()),
	)
	return nil
}

// runTickReader reads messages and dispatches them. A full worker queue
// blocks the loop, which stops fetching from Kafka.
func (e *Engine) runTickReader() {
	defer e.readerWg.Done()

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("tick reader shutting down")
			_ = e.tickReader.Close()
			return
		default:
		}

		msg, tick, err := e.tickReader.ReadMessage(e.ctx)
		if err != nil {
			if e.ctx.Err() != nil {
				continue
			}
			if errors.ErrorCodeEquals(err, string(errors.MalformedTickError)) {
				e.metrics.MalformedTicksTotal.Inc()
				e.logger.Warn("discarding malformed tick",
					logger.NewField("action", "read_tick"),
					logger.NewField("reason", err.Error()),
					logger.NewField("offset", msg.Offset),
					logger.NewField("partition", msg.Partition),
				)
				e.commit(msg)
				continue
			}

			e.logger.Error(err, logger.NewField("action", "read_tick"))
			e.backoff()
			continue
		}

		if !e.dispatch(e.eventContext(msg), tick) {
			continue
		}
		e.commit(msg)
	}
}

// eventContext survives engine cancellation so queued ticks can still be
// published while draining.
func (e *Engine) eventContext(msg kafka.Message) context.Context {
	ctx := util.WithEventID(context.WithoutCancel(e.ctx), "")
	return util.WithSource(ctx, fmt.Sprintf("%s/%d@%d", msg.Topic, msg.Partition, msg.Offset))
}

func (e *Engine) dispatch(ctx context.Context, tick *tickv1.Tick) bool {
	queue := e.queues[util.Bucket(tick.Symbol, len(e.queues))]
	select {
	case queue <- job{ctx: ctx, tick: tick}:
		return true
	case <-e.ctx.Done():
		return false
	}
}

func (e *Engine) commit(msg kafka.Message) {
	if err := e.tickReader.CommitMessages(e.ctx, msg); err != nil && e.ctx.Err() == nil {
		e.logger.Error(err, logger.NewField("action", "commit_tick"), logger.NewField("offset", msg.Offset))
	}
}

func (e *Engine) backoff() {
	t := time.NewTimer(e.options.ReadBackoff)
	defer t.Stop()
	select {
	case <-e.ctx.Done():
	case <-t.C:
	}
}

func (e *Engine) runWorker(id int, queue <-chan job) {
	defer e.workerWg.Done()

	for j := range queue {
		e.process(j)
	}
	e.logger.Debug("worker drained", logger.NewField("worker", id))
}

func (e *Engine) process(j job) {
	start := time.Now()

	sig, err := e.aggregator.OnTick(j.ctx, j.tick)
	if err != nil {
		e.metrics.MalformedTicksTotal.Inc()
		e.logger.WarnContext(j.ctx, "discarding malformed tick",
			logger.NewField("action", "process_tick"),
			logger.NewField("reason", err.Error()),
		)
		return
	}
	e.processed.Add(1)

	if sig != nil {
		e.emitted.Add(1)
		e.metrics.ObserveSignal(sig.Symbol, string(sig.Direction))
		if err := e.publisher.Publish(j.ctx, sig); err != nil {
			e.metrics.PublishErrorsTotal.Inc()
			e.logger.ErrorContext(j.ctx, err,
				logger.NewField("action", "publish_signal"),
				logger.NewField("symbol", sig.Symbol),
			)
		}
	}

	e.metrics.ObserveTick(j.tick.Symbol, time.Since(start))
}

// runJanitor refreshes the tracked symbol gauge and evicts idle symbols.
func (e *Engine) runJanitor() {
	defer e.loopWg.Done()

	interval := e.options.JanitorInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			e.sweep()
		}
	}
}

func (e *Engine) sweep() {
	store := e.aggregator.Store()
	if evicted := store.EvictIdle(e.options.IdleTTL); len(evicted) > 0 {
		e.logger.Info("evicted idle symbols",
			logger.NewField("count", len(evicted)),
			logger.NewField("symbols", evicted),
		)
	}
	e.metrics.TrackedSymbols.Set(float64(store.Len()))
}

// runSnapshotManager handles periodic snapshots
func (e *Engine) runSnapshotManager() {
	defer e.loopWg.Done()

	ticker := time.NewTicker(e.options.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			if e.shouldCreateSnapshot() {
				e.createAndStoreSnapshot(e.ctx)
			}
		}
	}
}

// shouldCreateSnapshot reports whether ticks were processed since the last snapshot.
func (e *Engine) shouldCreateSnapshot() bool {
	return e.processed.Load() != atomic.LoadInt64(&e.lastSnapshotCount)
}

func (e *Engine) createAndStoreSnapshot(ctx context.Context) {
	count := e.processed.Load()
	snapshot := &snapshotv1.Snapshot{
		TakenAt:    time.Now().UTC(),
		Histories:  e.aggregator.Store().Export(),
		Directions: e.aggregator.Store().Directions(),
	}

	if err := e.snapshotStore.Store(ctx, snapshot); err != nil {
		e.logger.ErrorContext(ctx, err, logger.NewField("action", "store_snapshot"))
		return
	}
	atomic.StoreInt64(&e.lastSnapshotCount, count)
}

// loadSnapshot restores histories saved by a previous run.
func (e *Engine) loadSnapshot(ctx context.Context) error {
	if e.snapshotStore == nil {
		return nil
	}

	snapshot, err := e.snapshotStore.LoadStore(ctx)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return nil
	}

	restored := e.aggregator.Store().Restore(snapshot.Histories)
	e.aggregator.Store().RestoreDirections(snapshot.Directions)
	e.metrics.TrackedSymbols.Set(float64(e.aggregator.Store().Len()))
	e.logger.Info("histories restored from snapshot",
		logger.NewField("symbols", restored),
		logger.NewField("taken_at", snapshot.TakenAt),
	)
	return nil
}

// Processed returns the number of valid ticks handled.
func (e *Engine) Processed() int64 {
	return e.processed.Load()
}

// Emitted returns the number of signals handed to the publisher.
func (e *Engine) Emitted() int64 {
	return e.emitted.Load()
}
