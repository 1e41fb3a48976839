package tickv1

import (
	"math"
	"testing"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestFromPayload(t *testing.T) {
	fallback := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	stamped := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		payload  payload.TickPayload
		assertFn func(t *testing.T, tick *Tick, err error)
	}{
		{
			name:    "complete",
			payload: payload.TickPayload{Symbol: "AAPL", Price: ptr(150.12), Timestamp: &stamped},
			assertFn: func(t *testing.T, tick *Tick, err error) {
				require.NoError(t, err)
				assert.Equal(t, &Tick{Symbol: "AAPL", Price: 150.12, Timestamp: stamped}, tick)
			},
		},
		{
			name:    "missing timestamp uses fallback",
			payload: payload.TickPayload{Symbol: "AAPL", Price: ptr(1.0)},
			assertFn: func(t *testing.T, tick *Tick, err error) {
				require.NoError(t, err)
				assert.Equal(t, fallback, tick.Timestamp)
			},
		},
		{
			name:    "negative price accepted",
			payload: payload.TickPayload{Symbol: "AAPL", Price: ptr(-3.0)},
			assertFn: func(t *testing.T, tick *Tick, err error) {
				require.NoError(t, err)
				assert.Equal(t, -3.0, tick.Price)
			},
		},
		{
			name:    "missing price",
			payload: payload.TickPayload{Symbol: "AAPL"},
			assertFn: func(t *testing.T, _ *Tick, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.MalformedTickError)))
			},
		},
		{
			name:    "missing symbol",
			payload: payload.TickPayload{Price: ptr(10.0)},
			assertFn: func(t *testing.T, _ *Tick, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.MalformedTickError)))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tick, err := FromPayload(tc.payload, fallback)
			tc.assertFn(t, tick, err)
		})
	}
}

func TestTick_Validate(t *testing.T) {
	for _, price := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		tick := &Tick{Symbol: "AAPL", Price: price}
		assert.True(t, errors.ErrorCodeEquals(tick.Validate(), string(errors.MalformedTickError)))
	}

	var nilTick *Tick
	assert.Error(t, nilTick.Validate())
	assert.NoError(t, (&Tick{Symbol: "aapl", Price: 0}).Validate())
}
