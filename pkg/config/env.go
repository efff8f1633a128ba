package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRedisURL = "REDIS_URL"

	EnvShareBaseURL = "SHARE_BASE_URL"
	EnvTimeZone     = "TIMEZONE"

	EnvNotificationsEnabled   = "NOTIFICATIONS_ENABLED"
	EnvSessionsFinalizedTopic = "SESSIONS_FINALIZED_TOPIC"
	EnvSessionsFinalizedDLQ   = "SESSIONS_FINALIZED_DLQ"
	EnvNotifierGroupID        = "NOTIFIER_GROUP_ID"
)
