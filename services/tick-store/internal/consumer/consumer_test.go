package consumer

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/muhammadchandra19/stockstream/services/tick-store/internal/infrastructure/questdb/price"
	pricemock "github.com/muhammadchandra19/stockstream/services/tick-store/internal/infrastructure/questdb/price/mock"
	"github.com/muhammadchandra19/stockstream/services/tick-store/internal/infrastructure/questdb/signal"
	signalmock "github.com/muhammadchandra19/stockstream/services/tick-store/internal/infrastructure/questdb/signal/mock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	msgs      chan kafka.Message
	committed []int64
	closed    bool
}

func newFakeReader() *fakeReader {
	return &fakeReader{msgs: make(chan kafka.Message, 16)}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg := <-r.msgs:
		return msg, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func decodeInt(msg kafka.Message) (int, bool) {
	v, err := strconv.Atoi(string(msg.Value))
	return v, err == nil
}

type recorder struct {
	mu      sync.Mutex
	batches [][]int
	failN   int
}

func (r *recorder) store(_ context.Context, rows []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failN > 0 {
		r.failN--
		return errors.New("questdb unavailable")
	}
	r.batches = append(r.batches, append([]int(nil), rows...))
	return nil
}

func (r *recorder) snapshot() [][]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]int(nil), r.batches...)
}

func run[T any](t *testing.T, c *BatchConsumer[T]) (cancel func()) {
	t.Helper()
	ctx, cancelFn := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()
	return func() {
		cancelFn()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("consumer did not stop")
		}
	}
}

func TestBatchConsumer_FlushesOnSize(t *testing.T) {
	reader := newFakeReader()
	rec := &recorder{}
	c := NewBatchConsumer("test", reader, decodeInt, rec.store, logger.NewNop(), Options{BatchSize: 3, FlushInterval: time.Hour})
	stop := run(t, c)

	for i := 1; i <= 3; i++ {
		reader.msgs <- kafka.Message{Offset: int64(i), Value: []byte(strconv.Itoa(i * 10))}
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 5*time.Second, 5*time.Millisecond)
	stop()

	assert.Equal(t, [][]int{{10, 20, 30}}, rec.snapshot())
	assert.Equal(t, []int64{1, 2, 3}, reader.commits())
}

func TestBatchConsumer_FlushesOnInterval(t *testing.T) {
	reader := newFakeReader()
	rec := &recorder{}
	c := NewBatchConsumer("test", reader, decodeInt, rec.store, logger.NewNop(), Options{BatchSize: 100, FlushInterval: 10 * time.Millisecond})
	stop := run(t, c)

	reader.msgs <- kafka.Message{Offset: 1, Value: []byte("7")}
	reader.msgs <- kafka.Message{Offset: 2, Value: []byte("not-a-number")}

	require.Eventually(t, func() bool { return len(reader.commits()) == 2 }, 5*time.Second, 5*time.Millisecond)
	stop()

	assert.Equal(t, [][]int{{7}}, rec.snapshot())
}

func TestBatchConsumer_RetriesFailedBatch(t *testing.T) {
	reader := newFakeReader()
	rec := &recorder{failN: 2}
	c := NewBatchConsumer("test", reader, decodeInt, rec.store, logger.NewNop(), Options{BatchSize: 2, FlushInterval: 10 * time.Millisecond})
	stop := run(t, c)

	reader.msgs <- kafka.Message{Offset: 1, Value: []byte("1")}
	reader.msgs <- kafka.Message{Offset: 2, Value: []byte("2")}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 5*time.Second, 5*time.Millisecond)
	stop()

	assert.Equal(t, [][]int{{1, 2}}, rec.snapshot())
	assert.Equal(t, []int64{1, 2}, reader.commits())
}

func TestBatchConsumer_FlushesOnShutdown(t *testing.T) {
	reader := newFakeReader()
	rec := &recorder{}
	c := NewBatchConsumer("test", reader, decodeInt, rec.store, logger.NewNop(), Options{BatchSize: 100, FlushInterval: time.Hour})
	stop := run(t, c)

	reader.msgs <- kafka.Message{Offset: 9, Value: []byte("5")}
	require.Eventually(t, func() bool { return len(reader.msgs) == 0 }, 5*time.Second, time.Millisecond)
	// Give the loop a moment to move the message from the fetch goroutine into the buffer.
	time.Sleep(20 * time.Millisecond)
	stop()

	assert.Equal(t, [][]int{{5}}, rec.snapshot())
	assert.Equal(t, []int64{9}, reader.commits())

	require.NoError(t, c.Stop())
	assert.True(t, reader.closed)
}

func TestBatchConsumer_PriceRepository(t *testing.T) {
	testCases := []struct {
		name        string
		values      []string
		mockFn      func(repo *pricemock.MockRepository)
		wantCommits int
	}{
		{
			name:   "stores decoded prices",
			values: []string{`{"symbol":"AAPL","price":150.5}`, `{"symbol":"MSFT","price":301}`},
			mockFn: func(repo *pricemock.MockRepository) {
				repo.EXPECT().StoreBatch(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rows []*price.Price) error {
					require.Len(t, rows, 2)
					assert.Equal(t, "AAPL", rows[0].Symbol)
					assert.Equal(t, 301.0, rows[1].Price)
					return nil
				})
			},
			wantCommits: 2,
		},
		{
			name:        "batch of only malformed ticks skips the store",
			values:      []string{`{"symbol":"AAPL"}`, `nope`},
			mockFn:      func(repo *pricemock.MockRepository) {},
			wantCommits: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := pricemock.NewMockRepository(ctrl)
			tc.mockFn(repo)

			reader := newFakeReader()
			c := NewBatchConsumer("stock_price", reader, price.Decode, repo.StoreBatch, logger.NewNop(),
				Options{BatchSize: len(tc.values), FlushInterval: time.Hour})
			stop := run(t, c)

			for i, v := range tc.values {
				reader.msgs <- kafka.Message{Offset: int64(i), Value: []byte(v), Time: time.Now()}
			}

			require.Eventually(t, func() bool { return len(reader.commits()) == tc.wantCommits }, 5*time.Second, 5*time.Millisecond)
			stop()
		})
	}
}

func TestBatchConsumer_SignalRepositoryFailureKeepsOffsets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := signalmock.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().StoreBatch(gomock.Any(), gomock.Len(1)).Return(errors.New("questdb unavailable")),
		repo.EXPECT().StoreBatch(gomock.Any(), gomock.Len(1)).DoAndReturn(func(_ context.Context, rows []*signal.Signal) error {
			assert.Equal(t, "SELL", rows[0].Signal)
			return nil
		}),
	)

	reader := newFakeReader()
	c := NewBatchConsumer("trade_signal", reader, signal.Decode, repo.StoreBatch, logger.NewNop(),
		Options{BatchSize: 1, FlushInterval: 10 * time.Millisecond})
	stop := run(t, c)

	reader.msgs <- kafka.Message{Offset: 4, Value: []byte(`{"symbol":"TSLA","signal":"SELL","price":890.1}`), Time: time.Now()}

	require.Eventually(t, func() bool { return len(reader.commits()) == 1 }, 5*time.Second, 5*time.Millisecond)
	stop()
	assert.Equal(t, []int64{4}, reader.commits())
}
