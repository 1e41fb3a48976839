package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/muhammadchandra19/stockstream/services/signal-relay/internal/hub"
	"github.com/muhammadchandra19/stockstream/services/signal-relay/internal/relay"
	"github.com/muhammadchandra19/stockstream/services/signal-relay/pkg/config"
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

	h := hub.New(log, hub.Options{
		SendBuffer:     cfg.Server.SendBuffer,
		WriteWait:      cfg.Server.WriteWait,
		PongWait:       cfg.Server.PongWait,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	go h.Run(ctx)

	reader := relay.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.TickTopic, cfg.Kafka.SignalTopic)
	r := relay.New(reader, h, map[string]string{
		cfg.Kafka.TickTopic:   hub.EventStockUpdate,
		cfg.Kafka.SignalTopic: hub.EventTradeSignal,
	}, log)
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		r.Start(ctx)
	}()

	hc := healthcheck.New(2 * time.Second)
	hc.Register("hub", h.Check)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           hc.Handler(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, logger.NewField("action", "serve_http"))
			sigChan <- syscall.SIGTERM
		}
	}()

	log.Info("signal-relay started",
		logger.NewField("addr", cfg.Server.Addr),
		logger.NewField("group_id", cfg.Kafka.GroupID),
	)

	sig := <-sigChan
	log.Info("received shutdown signal", logger.NewField("signal", sig.String()))

	cancel()
	<-relayDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := r.Stop(); err != nil {
		log.Error(err, logger.NewField("action", "close_reader"))
	}
	_ = server.Shutdown(shutdownCtx)

	log.Info("signal-relay shutdown complete")
}
