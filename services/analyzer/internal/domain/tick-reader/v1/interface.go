package tickreaderv1

import (
	"context"

	tickv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/tick/v1"
	"github.com/segmentio/kafka-go"
)

// TickReader defines the interface for reading ticks from the tick source.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=tickreaderv1_mock
type TickReader interface {
	// ReadMessage fetches the next message and decodes it. A message that
	// cannot be turned into a Tick is returned together with a MalformedTick
	// error so the caller can still commit it.
	ReadMessage(ctx context.Context) (kafka.Message, *tickv1.Tick, error)
	// CommitMessages commits the messages to Kafka after processing
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	// Close closes the reader
	Close() error
}
