package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/muhammadchandra19/stockstream/pkg/questdb"
	"github.com/muhammadchandra19/stockstream/services/tick-store/internal/consumer"
	"github.com/muhammadchandra19/stockstream/services/tick-store/internal/infrastructure/questdb/price"
	signalrepo "github.com/muhammadchandra19/stockstream/services/tick-store/internal/infrastructure/questdb/signal"
	"github.com/muhammadchandra19/stockstream/services/tick-store/pkg/config"
)

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

	client, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		log.Error(err, logger.NewField("action", "connect_questdb"))
		return
	}
	defer client.Close()

	priceRepo := price.NewRepository(client)
	signalRepo := signalrepo.NewRepository(client)

	options := consumer.Options{
		BatchSize:     cfg.Batch.Size,
		FlushInterval: cfg.Batch.FlushInterval,
	}

	priceConsumer := consumer.NewBatchConsumer(
		"stock_price",
		consumer.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.TickTopic, cfg.Kafka.GroupID),
		price.Decode,
		priceRepo.StoreBatch,
		log,
		options,
	)
	signalConsumer := consumer.NewBatchConsumer(
		"trade_signal",
		consumer.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.SignalTopic, cfg.Kafka.GroupID),
		signalrepo.Decode,
		signalRepo.StoreBatch,
		log,
		options,
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		priceConsumer.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		signalConsumer.Start(ctx)
	}()

	hc := healthcheck.New(2 * time.Second)
	hc.Register("questdb", client.Ping)
	healthServer := &http.Server{
		Addr:              cfg.HealthAddr,
		Handler:           hc.Handler(http.NotFoundHandler()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, logger.NewField("action", "serve_health"))
		}
	}()

	log.Info("tick-store started",
		logger.NewField("tick_topic", cfg.Kafka.TickTopic),
		logger.NewField("signal_topic", cfg.Kafka.SignalTopic),
		logger.NewField("batch_size", cfg.Batch.Size),
	)

	sig := <-sigChan
	log.Info("received shutdown signal", logger.NewField("signal", sig.String()))

	cancel()
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := priceConsumer.Stop(); err != nil {
		log.Error(err, logger.NewField("action", "close_price_reader"))
	}
	if err := signalConsumer.Stop(); err != nil {
		log.Error(err, logger.NewField("action", "close_signal_reader"))
	}
	_ = healthServer.Shutdown(shutdownCtx)

	log.Info("tick-store shutdown complete")
}
