package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "analyzer"

// Metrics holds the analyzer's Prometheus collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	TicksTotal          *prometheus.CounterVec
	SignalsTotal        *prometheus.CounterVec
	MalformedTicksTotal prometheus.Counter
	PublishErrorsTotal  prometheus.Counter
	TrackedSymbols      prometheus.Gauge
	TickLatency         prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		TicksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "ticks_total", Help: "Count of valid ticks processed"},
			[]string{"symbol"},
		),
		SignalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "signals_total", Help: "Signals emitted"},
			[]string{"symbol", "direction"},
		),
		MalformedTicksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "malformed_ticks_total", Help: "Ticks discarded as malformed"},
		),
		PublishErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "publish_errors_total", Help: "Signals the sink rejected"},
		),
		TrackedSymbols: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "tracked_symbols", Help: "Symbols with a price history"},
		),
		TickLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tick_processing_seconds",
				Help:      "Time from dequeue to signal hand-off",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
	}

	reg.MustRegister(
		m.TicksTotal,
		m.SignalsTotal,
		m.MalformedTicksTotal,
		m.PublishErrorsTotal,
		m.TrackedSymbols,
		m.TickLatency,
	)
	return m
}

// ObserveTick counts a processed tick and its latency.
func (m *Metrics) ObserveTick(symbol string, elapsed time.Duration) {
	m.TicksTotal.WithLabelValues(symbol).Inc()
	m.TickLatency.Observe(elapsed.Seconds())
}

// ObserveSignal counts an emitted signal.
func (m *Metrics) ObserveSignal(symbol, direction string) {
	m.SignalsTotal.WithLabelValues(symbol, direction).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Serve starts a /metrics server on addr in the background. Failures other
// than a graceful shutdown are logged.
func (m *Metrics) Serve(addr string, log logger.Interface) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, logger.NewField("action", "serve_metrics"), logger.NewField("addr", addr))
		}
	}()
	return srv
}
