package price

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/muhammadchandra19/stockstream/pkg/payload"
	mock "github.com/muhammadchandra19/stockstream/pkg/questdb/mock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_StoreBatch(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := []*Price{
		{Timestamp: ts, Symbol: "AAPL", Price: 150.12},
		{Timestamp: ts.Add(time.Second), Symbol: "MSFT", Price: 300.5},
	}

	testCases := []struct {
		name     string
		prices   []*Price
		mockFn   func(mock *mock.MockQuestDBClient)
		assertFn func(t *testing.T, err error)
	}{
		{
			name:   "success",
			prices: prices,
			mockFn: func(mock *mock.MockQuestDBClient) {
				mock.EXPECT().ExecBatch(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, batch *pgx.Batch) error {
					require.Equal(t, 2, batch.Len())
					assert.Equal(t, insertQuery, batch.QueuedQueries[0].SQL)
					assert.Equal(t, []any{ts, "AAPL", 150.12}, batch.QueuedQueries[0].Arguments)
					assert.Equal(t, "MSFT", batch.QueuedQueries[1].Arguments[1])
					return nil
				})
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "empty batch is a no-op",
			prices: nil,
			mockFn: func(mock *mock.MockQuestDBClient) {},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:   "error",
			prices: prices,
			mockFn: func(mock *mock.MockQuestDBClient) {
				mock.EXPECT().ExecBatch(gomock.Any(), gomock.Any()).Return(errors.New("table busy"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "table busy")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mock.NewMockQuestDBClient(ctrl)
			tc.mockFn(client)

			tc.assertFn(t, NewRepository(client).StoreBatch(context.Background(), tc.prices))
		})
	}
}

func TestFromPayload(t *testing.T) {
	fallback := time.Date(2024, 1, 1, 0, 0, 9, 0, time.UTC)

	row, ok := FromPayload(payload.NewTickPayload("AAPL", 150, fallback.Add(-time.Second)), fallback)
	require.True(t, ok)
	assert.Equal(t, fallback.Add(-time.Second), row.Timestamp)

	price := 1.5
	row, ok = FromPayload(payload.TickPayload{Symbol: "AAPL", Price: &price}, fallback)
	require.True(t, ok)
	assert.Equal(t, fallback, row.Timestamp)

	_, ok = FromPayload(payload.TickPayload{Symbol: "AAPL"}, fallback)
	assert.False(t, ok)
}

func TestDecode(t *testing.T) {
	msgTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	row, ok := Decode(kafka.Message{Value: []byte(`{"symbol":"TSLA","price":901.25}`), Time: msgTime})
	require.True(t, ok)
	assert.Equal(t, &Price{Timestamp: msgTime, Symbol: "TSLA", Price: 901.25}, row)

	_, ok = Decode(kafka.Message{Value: []byte(`{"symbol":`), Time: msgTime})
	assert.False(t, ok)
}
