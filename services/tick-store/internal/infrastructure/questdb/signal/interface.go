package signal

import "context"

// Repository is the interface for the trade_signals repository.
//
//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock
type Repository interface {
	StoreBatch(ctx context.Context, signals []*Signal) error
}
