package tickreader

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	msgs      []kafka.Message
	fetchErr  error
	committed []kafka.Message
	closed    bool
}

func (f *fakeFetcher) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if f.fetchErr != nil {
		return kafka.Message{}, f.fetchErr
	}
	msg := f.msgs[0]
	f.msgs = f.msgs[1:]
	return msg, nil
}

func (f *fakeFetcher) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeFetcher) Close() error {
	f.closed = true
	return nil
}

func TestReader_ReadMessage(t *testing.T) {
	msgTime := time.Date(2024, 1, 1, 0, 0, 9, 0, time.UTC)

	testCases := []struct {
		name     string
		value    string
		assertFn func(t *testing.T, msg kafka.Message, err error, symbol string, price float64, ts time.Time)
	}{
		{
			name:  "valid tick",
			value: `{"symbol":"AAPL","price":150.12,"timestamp":"2024-01-01T00:00:00.000Z"}`,
			assertFn: func(t *testing.T, msg kafka.Message, err error, symbol string, price float64, ts time.Time) {
				require.NoError(t, err)
				assert.Equal(t, "AAPL", symbol)
				assert.Equal(t, 150.12, price)
				assert.True(t, ts.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
			},
		},
		{
			name:  "missing timestamp falls back to message time",
			value: `{"symbol":"AAPL","price":1}`,
			assertFn: func(t *testing.T, _ kafka.Message, err error, _ string, _ float64, ts time.Time) {
				require.NoError(t, err)
				assert.Equal(t, msgTime, ts)
			},
		},
		{
			name:  "invalid json",
			value: `{"symbol":`,
			assertFn: func(t *testing.T, msg kafka.Message, err error, _ string, _ float64, _ time.Time) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.MalformedTickError)))
				assert.Equal(t, int64(7), msg.Offset)
			},
		},
		{
			name:  "missing price",
			value: `{"symbol":"AAPL"}`,
			assertFn: func(t *testing.T, msg kafka.Message, err error, _ string, _ float64, _ time.Time) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.MalformedTickError)))
				assert.Equal(t, int64(7), msg.Offset)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := &fakeFetcher{msgs: []kafka.Message{{Offset: 7, Value: []byte(tc.value), Time: msgTime}}}
			r := newReader(fetcher, logger.NewNop())

			msg, tick, err := r.ReadMessage(context.Background())
			var (
				symbol string
				price  float64
				ts     time.Time
			)
			if tick != nil {
				symbol, price, ts = tick.Symbol, tick.Price, tick.Timestamp
			}
			tc.assertFn(t, msg, err, symbol, price, ts)
		})
	}
}

func TestReader_ReadMessageFetchError(t *testing.T) {
	r := newReader(&fakeFetcher{fetchErr: stderrors.New("broker down")}, logger.NewNop())

	_, tick, err := r.ReadMessage(context.Background())
	assert.Nil(t, tick)
	assert.ErrorContains(t, err, "broker down")
	assert.False(t, errors.ErrorCodeEquals(err, string(errors.MalformedTickError)))
}

func TestReader_CommitAndClose(t *testing.T) {
	fetcher := &fakeFetcher{}
	r := newReader(fetcher, logger.NewNop())

	require.NoError(t, r.CommitMessages(context.Background(), kafka.Message{Offset: 3}))
	require.NoError(t, r.Close())

	assert.Len(t, fetcher.committed, 1)
	assert.True(t, fetcher.closed)
}
