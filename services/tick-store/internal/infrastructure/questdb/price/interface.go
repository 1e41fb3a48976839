package price

import "context"

// Repository is the interface for the stock_price repository.
//
//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock
type Repository interface {
	StoreBatch(ctx context.Context, prices []*Price) error
}
