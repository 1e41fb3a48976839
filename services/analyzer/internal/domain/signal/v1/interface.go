package signalv1

import "context"

// Publisher delivers emitted signals to the signal sink.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=signalv1_mock
type Publisher interface {
	// Publish sends one signal. Implementations must be safe for concurrent use.
	Publish(ctx context.Context, signal *Signal) error
	// Close flushes and releases the underlying writer.
	Close() error
}
