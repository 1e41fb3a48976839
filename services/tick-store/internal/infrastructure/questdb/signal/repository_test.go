package signal

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

	testCases := []struct {
		name     string
		mockFn   func(mock *mock.MockQuestDBClient)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			mockFn: func(mock *mock.MockQuestDBClient) {
				mock.EXPECT().ExecBatch(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, batch *pgx.Batch) error {
					require.Equal(t, 1, batch.Len())
					assert.Equal(t, []any{ts, "AAPL", "BUY", 103.0}, batch.QueuedQueries[0].Arguments)
					return nil
				})
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "error",
			mockFn: func(mock *mock.MockQuestDBClient) {
				mock.EXPECT().ExecBatch(gomock.Any(), gomock.Any()).Return(errors.New("error"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mock.NewMockQuestDBClient(ctrl)
			tc.mockFn(client)

			err := NewRepository(client).StoreBatch(context.Background(), []*Signal{
				{Timestamp: ts, Symbol: "AAPL", Signal: "BUY", Price: 103},
			})
			tc.assertFn(t, err)
		})
	}
}

func TestFromPayload(t *testing.T) {
	fallback := time.Date(2024, 1, 1, 0, 0, 9, 0, time.UTC)

	row, ok := FromPayload(payload.SignalPayload{Symbol: "AAPL", Signal: "SELL", Price: 99}, fallback)
	require.True(t, ok)
	assert.Equal(t, fallback, row.Timestamp)

	_, ok = FromPayload(payload.SignalPayload{Symbol: "AAPL", Signal: "HOLD"}, fallback)
	assert.False(t, ok)
	_, ok = FromPayload(payload.SignalPayload{Signal: "BUY"}, fallback)
	assert.False(t, ok)
}

func TestDecode(t *testing.T) {
	row, ok := Decode(kafka.Message{Value: []byte(`{"symbol":"AAPL","signal":"BUY","price":151.2,"timestamp":"2024-01-01T00:00:01Z"}`)})
	require.True(t, ok)
	assert.Equal(t, "BUY", row.Signal)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC), row.Timestamp.UTC())

	_, ok = Decode(kafka.Message{Value: []byte(`[]`)})
	assert.False(t, ok)
}
