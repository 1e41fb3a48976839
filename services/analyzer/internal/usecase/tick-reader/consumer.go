package tickreader

import (
	"context"

	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/muhammadchandra19/stockstream/pkg/payload"
	tickv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/tick/v1"
	tickreaderv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/tick-reader/v1"
	"github.com/muhammadchandra19/stockstream/services/analyzer/pkg/config"
	"github.com/segmentio/kafka-go"
)

// messageFetcher is the part of *kafka.Reader the Reader depends on.
type messageFetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Reader represents a Kafka Reader for consuming ticks from the stock-raw topic.
type Reader struct {
	kafkaReader messageFetcher
	logger      logger.Interface
}

var _ tickreaderv1.TickReader = (*Reader)(nil)

// NewReader creates a consumer-group reader for the tick topic.
func NewReader(cfg config.KafkaConfig, log logger.Interface) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.TickTopic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return newReader(kafkaReader, log)
}

func newReader(fetcher messageFetcher, log logger.Interface) *Reader {
	return &Reader{
		kafkaReader: fetcher,
		logger:      log,
	}
}

// ReadMessage fetches the next message and decodes it into a Tick.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *tickv1.Tick, error) {
	msg, err := r.kafkaReader.FetchMessage(ctx)
	if err != nil {
		return kafka.Message{}, nil, errors.NewTracer(string(errors.KafkaReadError)).Wrap(err)
	}

	p, err := payload.DecodeTick(msg.Value)
	if err != nil {
		return msg, nil, errors.NewErrorDetailsWithObject("tick is not valid json", string(errors.MalformedTickError), "value", string(msg.Value))
	}

	tick, err := tickv1.FromPayload(p, msg.Time)
	if err != nil {
		return msg, nil, err
	}

	return msg, tick, nil
}

// CommitMessages commits the messages to Kafka after processing.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if err := r.kafkaReader.CommitMessages(ctx, msgs...); err != nil {
		return errors.NewTracer(string(errors.KafkaCommitError)).Wrap(err)
	}
	return nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logger.Error(err, logger.NewField("action", "close_tick_reader"))
		return err
	}
	return nil
}
