package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/grpclib/health"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/muhammadchandra19/stockstream/pkg/redis"
	app "github.com/muhammadchandra19/stockstream/services/analyzer/internal/app/engine"
	snapshotv1 "github.com/muhammadchandra19/stockstream/services/analyzer/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/stockstream/services/analyzer/internal/metrics"
	"github.com/muhammadchandra19/stockstream/services/analyzer/internal/usecase/aggregator"
	"github.com/muhammadchandra19/stockstream/services/analyzer/internal/usecase/history"
	signalpublisher "github.com/muhammadchandra19/stockstream/services/analyzer/internal/usecase/signal-publisher"
	"github.com/muhammadchandra19/stockstream/services/analyzer/internal/usecase/snapshot"
	tickreader "github.com/muhammadchandra19/stockstream/services/analyzer/internal/usecase/tick-reader"
	"github.com/muhammadchandra19/stockstream/services/analyzer/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
)

const serviceName = "analyzer"

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}

	log, err = logger.NewLogger(
		logger.WithLoggingLevel(logger.ParseLevel(cfg.Log.Level)),
		logger.WithDevelopment(cfg.Log.Development),
	)
	if err != nil {
		panic(err)
	}
}

func main() {
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)
	metricsServer := m.Serve(cfg.Server.MetricsAddr, log)

	healthServer := health.NewServer()
	healthServer.SetNotServing(serviceName)
	grpcServer := grpc.NewServer()
	healthServer.Register(grpcServer)
	lis, err := net.Listen("tcp", cfg.Server.HealthAddr)
	if err != nil {
		log.Error(err, logger.NewField("action", "listen_health"))
		return
	}
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Error(err, logger.NewField("action", "serve_health"))
		}
	}()

	var snapshotStore snapshotv1.Store
	var rclient redis.Client
	if cfg.Snapshot.Enabled {
		rclient = redis.NewClient(log, &cfg.Redis)
		if err := rclient.Connect(ctx); err != nil {
			log.Error(err, logger.NewField("action", "connect_redis"))
			return
		}
		snapshotStore = snapshot.NewSnapshotStore(rclient, cfg.Redis.Key(cfg.Snapshot.Key), log)
	}

	store, err := history.NewStore(cfg.Strategy.SlowWindow, history.WithShards(cfg.History.Shards))
	if err != nil {
		log.Error(err, logger.NewField("action", "create_history_store"))
		return
	}
	agg, err := aggregator.New(store, cfg.Strategy.FastWindow,
		aggregator.WithMode(cfg.Strategy.Mode),
		aggregator.WithLogger(log),
	)
	if err != nil {
		log.Error(err, logger.NewField("action", "create_aggregator"))
		return
	}

	reader := tickreader.NewReader(cfg.Kafka, log)
	publisher := signalpublisher.NewPublisher(cfg.Kafka, log)
	engine := app.NewEngine(agg, reader, publisher, snapshotStore, m, log, app.OptionsFromConfig(cfg))

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.NewField("action", "start_engine"))
		return
	}
	healthServer.SetServing(serviceName)

	log.Info("analyzer started",
		logger.NewField("fast_window", cfg.Strategy.FastWindow),
		logger.NewField("slow_window", cfg.Strategy.SlowWindow),
		logger.NewField("mode", cfg.Strategy.Mode),
		logger.NewField("tick_topic", cfg.Kafka.TickTopic),
		logger.NewField("signal_topic", cfg.Kafka.SignalTopic),
	)

	sig := <-sigChan
	log.Info("received shutdown signal", logger.NewField("signal", sig.String()))
	healthServer.Shutdown()

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.NewField("action", "stop_engine"))
	}
	if err := publisher.Close(); err != nil {
		log.Error(err, logger.NewField("action", "close_publisher"))
	}
	if rclient != nil {
		if err := rclient.Disconnect(shutdownCtx); err != nil {
			log.Error(err, logger.NewField("action", "disconnect_redis"))
		}
	}
	grpcServer.GracefulStop()
	_ = metricsServer.Shutdown(shutdownCtx)

	log.Info("analyzer shutdown complete")
}
