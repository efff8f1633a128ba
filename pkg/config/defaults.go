package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "courtbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRedisURL = ""

	DefaultShareBaseURL = "http://localhost:3000"
	DefaultTimeZone     = "Australia/Sydney"

	DefaultNotificationsEnabled   = true
	DefaultSessionsFinalizedTopic = "session.finalized"
	DefaultSessionsFinalizedDLQ   = "session.finalized.dlq"
	DefaultNotifierGroupID        = "courtbook-notifier"
)
