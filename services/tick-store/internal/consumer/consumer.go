package consumer

import (
	"context"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the consumer depends on.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DecodeFunc turns a message into a row. ok is false for messages that
// should be skipped; they are still committed.
type DecodeFunc[T any] func(msg kafka.Message) (row T, ok bool)

// StoreFunc writes a batch of rows.
type StoreFunc[T any] func(ctx context.Context, rows []T) error

// Options controls batching.
type Options struct {
	BatchSize     int
	FlushInterval time.Duration
}

// BatchConsumer reads a topic and writes rows in batches. Offsets are
// committed only after the batch holding them was stored.
type BatchConsumer[T any] struct {
	name    string
	reader  MessageReader
	decode  DecodeFunc[T]
	store   StoreFunc[T]
	logger  logger.Interface
	options Options

	rows    []T
	pending []kafka.Message
}

// NewBatchConsumer creates a consumer. name appears in log lines.
func NewBatchConsumer[T any](name string, reader MessageReader, decode DecodeFunc[T], store StoreFunc[T], log logger.Interface, options Options) *BatchConsumer[T] {
	return &BatchConsumer[T]{
		name:    name,
		reader:  reader,
		decode:  decode,
		store:   store,
		logger:  log,
		options: options,
		rows:    make([]T, 0, options.BatchSize),
	}
}

// NewKafkaReader creates a consumer-group reader that starts from the
// oldest retained message on first join.
func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
}

// Start consumes until ctx is cancelled, then flushes what is buffered.
func (c *BatchConsumer[T]) Start(ctx context.Context) {
	c.logger.InfoContext(ctx, "starting consumer", logger.NewField("action", c.name+"_consumer_start"))

	msgChan := make(chan kafka.Message)
	go c.fetch(ctx, msgChan)

	ticker := time.NewTicker(c.options.FlushInterval)
	defer ticker.Stop()

	for {
		// Stop taking messages while a failed batch is waiting for retry.
		in := msgChan
		if len(c.pending) >= c.options.BatchSize {
			in = nil
		}

		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			c.flush(flushCtx)
			cancel()
			c.logger.Info("consumer stopped", logger.NewField("action", c.name+"_consumer_stop"))
			return
		case msg := <-in:
			c.add(ctx, msg)
			if len(c.pending) >= c.options.BatchSize {
				c.flush(ctx)
			}
		case <-ticker.C:
			c.flush(ctx)
		}
	}
}

func (c *BatchConsumer[T]) fetch(ctx context.Context, out chan<- kafka.Message) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.ErrorContext(ctx, err, logger.NewField("action", c.name+"_read_message"))
			continue
		}

		select {
		case out <- msg:
		case <-ctx.Done():
			return
		}
	}
}

func (c *BatchConsumer[T]) add(ctx context.Context, msg kafka.Message) {
	c.pending = append(c.pending, msg)

	row, ok := c.decode(msg)
	if !ok {
		c.logger.WarnContext(ctx, "skipping undecodable message",
			logger.NewField("action", c.name+"_decode"),
			logger.NewField("offset", msg.Offset),
			logger.NewField("partition", msg.Partition),
		)
		return
	}
	c.rows = append(c.rows, row)
}

// flush stores the buffered rows. On failure the buffer is kept so the next
// flush retries it.
func (c *BatchConsumer[T]) flush(ctx context.Context) {
	if len(c.pending) == 0 {
		return
	}

	if len(c.rows) > 0 {
		if err := c.store(ctx, c.rows); err != nil {
			c.logger.ErrorContext(ctx, err,
				logger.NewField("action", c.name+"_store_batch"),
				logger.NewField("rows", len(c.rows)),
			)
			return
		}
	}

	if err := c.reader.CommitMessages(ctx, c.pending...); err != nil {
		c.logger.ErrorContext(ctx, err, logger.NewField("action", c.name+"_commit"))
	}

	c.logger.Debug("batch stored",
		logger.NewField("consumer", c.name),
		logger.NewField("rows", len(c.rows)),
		logger.NewField("messages", len(c.pending)),
	)
	c.rows = c.rows[:0]
	c.pending = c.pending[:0]
}

// Stop closes the underlying reader.
func (c *BatchConsumer[T]) Stop() error {
	return c.reader.Close()
}
