package snapshot

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	redis_mock "github.com/muhammadchandra19/stockstream/pkg/redis/mock"
	signalv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/signal/v1"
	snapshotv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/snapshot/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	key    = "stockstream:analyzer:history"
	dirKey = key + ":directions"
)

func TestStore_Store(t *testing.T) {
	takenAt := time.Date(2024, 1, 1, 0, 0, 30, 0, time.UTC)
	histories := map[string][]float64{"AAPL": {100, 101.5}}

	testCases := []struct {
		name       string
		directions map[string]signalv1.Direction
		mockFn     func(client *redis_mock.MockClient)
		assertFn   func(t *testing.T, err error)
	}{
		{
			name: "writes fields and drops stale symbols",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), key).Return(map[string]string{"AAPL": "[1]", "TSLA": "[2]"}, nil)
				client.EXPECT().HSet(gomock.Any(), key, map[string]any{
					"AAPL":       "[100,101.5]",
					takenAtField: "2024-01-01T00:00:30Z",
				}).Return(int64(1), nil)
				client.EXPECT().HDel(gomock.Any(), key, "TSLA").Return(int64(1), nil)
				client.EXPECT().Del(gomock.Any(), dirKey).Return(int64(0), nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:       "writes last directions",
			directions: map[string]signalv1.Direction{"AAPL": signalv1.Buy},
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), key).Return(map[string]string{}, nil)
				client.EXPECT().HSet(gomock.Any(), key, gomock.Any()).Return(int64(2), nil)
				client.EXPECT().Set(gomock.Any(), dirKey, `{"AAPL":"BUY"}`, time.Duration(0)).Return(nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:       "directions write failure",
			directions: map[string]signalv1.Direction{"AAPL": signalv1.Sell},
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), key).Return(map[string]string{}, nil)
				client.EXPECT().HSet(gomock.Any(), key, gomock.Any()).Return(int64(2), nil)
				client.EXPECT().Set(gomock.Any(), dirKey, gomock.Any(), gomock.Any()).Return(stderrors.New("OOM"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "snapshot_store_error")
				assert.ErrorContains(t, err, "OOM")
			},
		},
		{
			name: "hset failure",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), key).Return(map[string]string{}, nil)
				client.EXPECT().HSet(gomock.Any(), key, gomock.Any()).Return(int64(0), stderrors.New("READONLY"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "snapshot_store_error")
				assert.ErrorContains(t, err, "READONLY")
			},
		},
		{
			name: "read failure",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), key).Return(nil, stderrors.New("timeout"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "timeout")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := redis_mock.NewMockClient(ctrl)
			tc.mockFn(client)

			snap := &snapshotv1.Snapshot{TakenAt: takenAt, Histories: histories, Directions: tc.directions}
			tc.assertFn(t, NewSnapshotStore(client, key, logger.NewNop()).Store(context.Background(), snap))
		})
	}
}

func TestStore_LoadStore(t *testing.T) {
	testCases := []struct {
		name     string
		mockFn   func(client *redis_mock.MockClient)
		assertFn func(t *testing.T, snap *snapshotv1.Snapshot, err error)
	}{
		{
			name: "decodes histories",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), key).Return(map[string]string{
					"AAPL":       "[100,101]",
					"BROKEN":     "not-json",
					takenAtField: "2024-01-01T00:00:30Z",
				}, nil)
				client.EXPECT().Get(gomock.Any(), dirKey).Return(`{"AAPL":"SELL"}`, nil)
			},
			assertFn: func(t *testing.T, snap *snapshotv1.Snapshot, err error) {
				require.NoError(t, err)
				require.NotNil(t, snap)
				assert.Equal(t, map[string][]float64{"AAPL": {100, 101}}, snap.Histories)
				assert.Equal(t, map[string]signalv1.Direction{"AAPL": signalv1.Sell}, snap.Directions)
				assert.True(t, snap.TakenAt.Equal(time.Date(2024, 1, 1, 0, 0, 30, 0, time.UTC)))
			},
		},
		{
			name: "missing or unreadable directions",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), key).Return(map[string]string{"AAPL": "[100]"}, nil)
				client.EXPECT().Get(gomock.Any(), dirKey).Return("{broken", nil)
			},
			assertFn: func(t *testing.T, snap *snapshotv1.Snapshot, err error) {
				require.NoError(t, err)
				assert.Equal(t, map[string][]float64{"AAPL": {100}}, snap.Histories)
				assert.Nil(t, snap.Directions)
			},
		},
		{
			name: "directions read failure",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), key).Return(map[string]string{"AAPL": "[100]"}, nil)
				client.EXPECT().Get(gomock.Any(), dirKey).Return("", stderrors.New("i/o timeout"))
			},
			assertFn: func(t *testing.T, snap *snapshotv1.Snapshot, err error) {
				assert.Nil(t, snap)
				assert.ErrorContains(t, err, "snapshot_load_error")
			},
		},
		{
			name: "empty hash",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), key).Return(map[string]string{}, nil)
			},
			assertFn: func(t *testing.T, snap *snapshotv1.Snapshot, err error) {
				assert.NoError(t, err)
				assert.Nil(t, snap)
			},
		},
		{
			name: "redis failure",
			mockFn: func(client *redis_mock.MockClient) {
				client.EXPECT().HGetAll(gomock.Any(), key).Return(nil, stderrors.New("connection reset"))
			},
			assertFn: func(t *testing.T, snap *snapshotv1.Snapshot, err error) {
				assert.Nil(t, snap)
				assert.ErrorContains(t, err, "connection reset")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := redis_mock.NewMockClient(ctrl)
			tc.mockFn(client)

			snap, err := NewSnapshotStore(client, key, logger.NewNop()).LoadStore(context.Background())
			tc.assertFn(t, snap, err)
		})
	}
}
