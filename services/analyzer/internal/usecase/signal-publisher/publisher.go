package signalpublisher

import (
	"context"

	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/muhammadchandra19/stockstream/pkg/payload"
	signalv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/signal/v1"
	"github.com/muhammadchandra19/stockstream/services/analyzer/pkg/config"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher represents a Kafka Publisher for the trade-signals topic.
type Publisher struct {
	kafkaWriter messageWriter
	logger      logger.Interface
}

var _ signalv1.Publisher = (*Publisher)(nil)

// NewPublisher creates a publisher keyed by symbol, so signals of one
// symbol land on one partition in order.
func NewPublisher(cfg config.KafkaConfig, log logger.Interface) *Publisher {
	kafkaWriter := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.SignalTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return newPublisher(kafkaWriter, log)
}

func newPublisher(w messageWriter, log logger.Interface) *Publisher {
	return &Publisher{
		kafkaWriter: w,
		logger:      log,
	}
}

// Publish publishes a signal to the Kafka topic.
func (p *Publisher) Publish(ctx context.Context, signal *signalv1.Signal) error {
	value, err := payload.Encode(signal.ToPayload())
	if err != nil {
		return errors.NewTracer("failed to encode signal").Wrap(err)
	}

	msg := kafka.Message{
		Key:   []byte(signal.Symbol),
		Value: value,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.NewField("action", "publish_signal"),
			logger.NewField("symbol", signal.Symbol),
			logger.NewField("signal", signal.Direction),
		)
		return errors.NewTracer(string(errors.KafkaPublishError)).Wrap(err)
	}

	p.logger.InfoContext(ctx, "signal published",
		logger.NewField("symbol", signal.Symbol),
		logger.NewField("signal", signal.Direction),
		logger.NewField("price", signal.Price),
	)
	return nil
}

// Close flushes pending writes.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
