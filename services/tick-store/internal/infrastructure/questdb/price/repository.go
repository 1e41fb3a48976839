package price

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/questdb"
)

const insertQuery = `INSERT INTO stock_price (timestamp, symbol, price) VALUES ($1, $2, $3)`

// QuestDBRepository stores prices in QuestDB.
type QuestDBRepository struct {
	client questdb.QuestDBClient
}

var _ Repository = (*QuestDBRepository)(nil)

// NewRepository creates a new price repository.
func NewRepository(client questdb.QuestDBClient) *QuestDBRepository {
	return &QuestDBRepository{
		client: client,
	}
}

// StoreBatch inserts all prices in a single round trip.
func (r *QuestDBRepository) StoreBatch(ctx context.Context, prices []*Price) error {
	if len(prices) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range prices {
		batch.Queue(insertQuery, p.Timestamp, p.Symbol, p.Price)
	}

	if err := r.client.ExecBatch(ctx, batch); err != nil {
		return errors.NewTracer(string(errors.QuestDBStoreError)).Wrap(err)
	}
	return nil
}
