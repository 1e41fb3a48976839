package relay

import (
	"context"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/muhammadchandra19/stockstream/pkg/util"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafka.Reader the relay depends on.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Broadcaster delivers a JSON document to viewers under an event name.
type Broadcaster interface {
	Broadcast(ctx context.Context, event string, data []byte) error
}

// Relay forwards every message of the subscribed topics to a Broadcaster.
type Relay struct {
	reader      MessageReader
	broadcaster Broadcaster
	events      map[string]string
	backoff     time.Duration
	logger      logger.Interface
}

// New creates a relay. events maps a topic to the event name viewers see.
func New(reader MessageReader, broadcaster Broadcaster, events map[string]string, log logger.Interface) *Relay {
	return &Relay{
		reader:      reader,
		broadcaster: broadcaster,
		events:      events,
		backoff:     time.Second,
		logger:      log,
	}
}

// NewKafkaReader creates a group reader over all topics. New groups start at
// the newest offset since viewers only care about live data.
func NewKafkaReader(brokers []string, groupID string, topics ...string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})
}

// Start relays until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) {
	for {
		msg, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.ErrorContext(ctx, errors.NewTracer(string(errors.KafkaReadError)).Wrap(err),
				logger.NewField("action", "relay_read_message"))
			select {
			case <-time.After(r.backoff):
			case <-ctx.Done():
				return
			}
			continue
		}

		r.forward(ctx, msg)
	}
}

func (r *Relay) forward(ctx context.Context, msg kafka.Message) {
	ctx = util.WithEventID(ctx, util.NewEventID())
	ctx = util.WithSource(ctx, msg.Topic)

	event, ok := r.events[msg.Topic]
	if !ok {
		r.logger.WarnContext(ctx, "message from unexpected topic", logger.NewField("topic", msg.Topic))
	} else if err := r.broadcaster.Broadcast(ctx, event, msg.Value); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.ErrorContext(ctx, err,
			logger.NewField("action", "relay_broadcast"),
			logger.NewField("topic", msg.Topic),
			logger.NewField("offset", msg.Offset),
		)
	} else {
		r.logger.DebugContext(ctx, "relayed message",
			logger.NewField("event", event),
			logger.NewField("key", string(msg.Key)),
		)
	}

	// Committed whether or not the broadcast succeeded.
	if err := r.reader.CommitMessages(ctx, msg); err != nil {
		r.logger.ErrorContext(ctx, errors.NewTracer(string(errors.KafkaCommitError)).Wrap(err),
			logger.NewField("action", "relay_commit"))
	}
}

// Stop closes the underlying reader.
func (r *Relay) Stop() error {
	return r.reader.Close()
}
