package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/muhammadchandra19/stockstream/pkg/errors"
	"github.com/muhammadchandra19/stockstream/pkg/logger"
	"github.com/muhammadchandra19/stockstream/pkg/payload"
	"github.com/segmentio/kafka-go"
	"golang.org/x/time/rate"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// produce writes count ticks (forever when count <= 0) paced by limiter.
func produce(ctx context.Context, w messageWriter, gen *Generator, limiter *rate.Limiter, count int, log logger.Interface) (int, error) {
	sent := 0
	for count <= 0 || sent < count {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return sent, nil
			}
			return sent, err
		}

		tick := gen.Next()
		value, err := payload.Encode(tick)
		if err != nil {
			return sent, errors.TracerFromError(err)
		}

		if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(tick.Symbol), Value: value}); err != nil {
			if ctx.Err() != nil {
				return sent, nil
			}
			log.Error(errors.NewTracer(string(errors.KafkaPublishError)).Wrap(err),
				logger.NewField("symbol", tick.Symbol))
			continue
		}
		sent++

		log.Info("sent tick",
			logger.NewField("symbol", tick.Symbol),
			logger.NewField("price", *tick.Price),
		)
	}
	return sent, nil
}

func main() {
	var (
		brokers  = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic    = flag.String("topic", payload.TopicStockRaw, "Kafka topic name")
		interval = flag.Duration("interval", time.Second, "Delay between ticks")
		count    = flag.Int("count", 0, "Number of ticks to send, 0 runs until interrupted")
		seed     = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
		level    = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(*level)))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if *interval <= 0 {
		log.Error(errors.NewErrorDetails("interval must be positive", string(errors.InvalidConfigurationError), "interval"))
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	log.Info("producing ticks",
		logger.NewField("brokers", *brokers),
		logger.NewField("topic", *topic),
		logger.NewField("interval", interval.String()),
	)

	limiter := rate.NewLimiter(rate.Every(*interval), 1)
	sent, err := produce(ctx, writer, NewGenerator(DefaultQuotes, *seed), limiter, *count, log)
	if err != nil {
		log.Error(err, logger.NewField("action", "produce_ticks"))
	}

	log.Info("producer stopped", logger.NewField("sent", sent))
}
