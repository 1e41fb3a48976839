package metrics

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	logger_mock "github.com/muhammadchandra19/stockstream/pkg/logger/mock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTick("AAPL", 2*time.Millisecond)
	m.ObserveTick("AAPL", time.Millisecond)
	m.ObserveSignal("AAPL", "BUY")
	m.MalformedTicksTotal.Inc()
	m.TrackedSymbols.Set(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TicksTotal.WithLabelValues("AAPL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SignalsTotal.WithLabelValues("AAPL", "BUY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MalformedTicksTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.TrackedSymbols))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TickLatency))
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveSignal("MSFT", "SELL")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `analyzer_signals_total{direction="SELL",symbol="MSFT"} 1`)
}

func TestMetrics_ServeLogsBindFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	logged := make(chan struct{})
	log := logger_mock.NewMockInterface(ctrl)
	log.EXPECT().Error(gomock.Any(), gomock.Any()).Do(func(err error, _ ...logger.Field) {
		assert.Error(t, err)
		close(logged)
	})

	srv := New(prometheus.NewRegistry()).Serve(lis.Addr().String(), log)
	defer srv.Close()

	select {
	case <-logged:
	case <-time.After(5 * time.Second):
		t.Fatal("bind failure was not logged")
	}
}

func TestMetrics_ServeShutdownIsQuiet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := logger_mock.NewMockInterface(ctrl)
	log.EXPECT().Error(gomock.Any(), gomock.Any()).Times(0)

	srv := New(prometheus.NewRegistry()).Serve("127.0.0.1:0", log)
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, srv.Shutdown(context.Background()))
	time.Sleep(20 * time.Millisecond)
}
