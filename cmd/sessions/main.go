package main

import (
	"courtbook/internal/sessions/handler"
	"courtbook/internal/sessions/notifier"
	"courtbook/internal/sessions/repository"
	"courtbook/internal/sessions/service"
	"courtbook/internal/sessions/share"
	"courtbook/internal/sessions/validator"
	"courtbook/pkg/app"
	"courtbook/pkg/config"
	"courtbook/pkg/idgen"
	"courtbook/pkg/kafka"
	kafkaconfig "courtbook/pkg/kafka/config"
	kafkamiddleware "courtbook/pkg/kafka/middleware"
)

const ServiceName = "sessions"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Sessions service")
	publishCounters := &kafkamiddleware.Counters{}
	sessionService := initServices(cfg, publishCounters)

	serverApp := app.NewApplication()
	serverApp.SetApp(
		cfg,
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		handler.NewSessionHandler(sessionService, cfg.Log),
	)
	serverApp.Run()

	snapshot := publishCounters.Snapshot()
	cfg.Log.Info("Sessions service stopped",
		"events_published", snapshot.Succeeded,
		"events_failed", snapshot.Failed,
	)
}

func initServices(cfg *config.Config, counters *kafkamiddleware.Counters) service.SessionService {
	links, err := share.NewBuilder(cfg.ShareBaseURL)
	if err != nil {
		cfg.Log.Fatal("Invalid share base URL", "error", err)
	}

	sessionService := service.NewSessionService(
		repository.NewMongoSessionRepository(cfg),
		validator.NewSessionValidator(cfg.Log),
		initPublisher(cfg, counters),
		links,
		idgen.NewSlotSequence(nil).Next,
		idgen.DefaultClock{},
		cfg,
	)

	cfg.Log.Info("Session service initialized", "database", cfg.MongoDatabaseName)
	return sessionService
}

func initPublisher(cfg *config.Config, counters *kafkamiddleware.Counters) notifier.Publisher {
	if !cfg.NotificationsEnabled {
		cfg.Log.Info("Notifications disabled, finalized sessions will only be logged")
		return notifier.NewLogPublisher(cfg.Log)
	}

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log, cfg.SessionsFinalizedTopic, cfg.SessionsFinalizedDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafkamiddleware.MetricsProducerMiddleware(counters))
	}
	cfg.Client.SetProducer(producer)

	return notifier.NewKafkaPublisher(producer, cfg.Log)
}
