package signal

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/questdb"
)

const insertQuery = `INSERT INTO trade_signals (timestamp, symbol, signal, price) VALUES ($1, $2, $3, $4)`

// QuestDBRepository stores signals in QuestDB.
type QuestDBRepository struct {
	client questdb.QuestDBClient
}

var _ Repository = (*QuestDBRepository)(nil)

// NewRepository creates a new signal repository.
func NewRepository(client questdb.QuestDBClient) *QuestDBRepository {
	return &QuestDBRepository{
		client: client,
	}
}

// StoreBatch inserts all signals in a single round trip.
func (r *QuestDBRepository) StoreBatch(ctx context.Context, signals []*Signal) error {
	if len(signals) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, s := range signals {
		batch.Queue(insertQuery, s.Timestamp, s.Symbol, s.Signal, s.Price)
	}

	if err := r.client.ExecBatch(ctx, batch); err != nil {
		return errors.NewTracer(string(errors.QuestDBStoreError)).Wrap(err)
	}
	return nil
}
