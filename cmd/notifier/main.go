package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"courtbook/internal/notifications/worker"
	"courtbook/pkg/config"
	"courtbook/pkg/kafka"
	kafkaconfig "courtbook/pkg/kafka/config"
	kafkamiddleware "courtbook/pkg/kafka/middleware"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	w := worker.New(nil, cfg.Log)
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.Log,
		cfg.SessionsFinalizedTopic,
		cfg.NotifierGroupID,
		cfg.SessionsFinalizedDLQ,
		w.Handle,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	counters := &kafkamiddleware.Counters{}
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(kafkamiddleware.MetricsConsumerMiddleware(counters))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier", "topic", cfg.SessionsFinalizedTopic, "group_id", cfg.NotifierGroupID)
	if err := consumer.Start(ctx); err != nil &&
		!errors.Is(err, context.Canceled) && !errors.Is(err, kafka.ErrConsumerClosed) {
		cfg.Log.Error("Consumer stopped unexpectedly", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}

	snapshot := counters.Snapshot()
	cfg.Log.Info("Notifier stopped",
		"succeeded", snapshot.Succeeded,
		"failed", snapshot.Failed,
		"avg_duration", snapshot.AvgDuration,
	)
}
