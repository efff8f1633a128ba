package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"
	_ "time/tzdata"

	"courtbook/pkg/client"
	"courtbook/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// RedisURL, when set, backs idempotency keys with Redis so replicas
	// share them. Empty keeps them in process memory.
	RedisURL string

	ShareBaseURL string

	// TimeZone decides which calendar day counts as today when sessions
	// are split into upcoming and past.
	TimeZone string
	Location *time.Location

	NotificationsEnabled   bool
	SessionsFinalizedTopic string
	SessionsFinalizedDLQ   string
	NotifierGroupID        string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first without overriding variables already set.
func Load(serviceName string) *Config {
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		RedisURL: getEnvStr(EnvRedisURL, DefaultRedisURL),

		ShareBaseURL: getEnvStr(EnvShareBaseURL, DefaultShareBaseURL),
		TimeZone:     getEnvStr(EnvTimeZone, DefaultTimeZone),

		NotificationsEnabled:   getEnvBool(EnvNotificationsEnabled, DefaultNotificationsEnabled),
		SessionsFinalizedTopic: getEnvStr(EnvSessionsFinalizedTopic, DefaultSessionsFinalizedTopic),
		SessionsFinalizedDLQ:   getEnvStr(EnvSessionsFinalizedDLQ, DefaultSessionsFinalizedDLQ),
		NotifierGroupID:        getEnvStr(EnvNotifierGroupID, DefaultNotifierGroupID),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    getEnvStr(EnvLogFormat, logger.JSON),
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.Location, _ = time.LoadLocation(cfg.TimeZone)
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects only when REDIS_URL is configured.
func (cfg *Config) SetRedis() {
	if cfg.RedisURL == "" {
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisURL, cfg.MongoConnTimeout)
}

var (
	mongoSchemeRegex = regexp.MustCompile(`^mongodb(\+srv)?://`)
	redisSchemeRegex = regexp.MustCompile(`^rediss?://`)
)

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !mongoSchemeRegex.MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.RedisURL != "" && !redisSchemeRegex.MatchString(cfg.RedisURL) {
		errors = append(errors, "RedisURL must start with 'redis://' or 'rediss://'")
	}

	if u, err := url.Parse(cfg.ShareBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("ShareBaseURL must be an absolute URL, got: %s", cfg.ShareBaseURL))
	}

	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		errors = append(errors, fmt.Sprintf("TimeZone must be an IANA zone name, got: %s", cfg.TimeZone))
	}

	if cfg.NotificationsEnabled && cfg.SessionsFinalizedTopic == "" {
		errors = append(errors, "SessionsFinalizedTopic cannot be empty when notifications are enabled")
	}
	if cfg.NotifierGroupID == "" {
		errors = append(errors, "NotifierGroupID cannot be empty")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"redis_idempotency", cfg.RedisURL != "",
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"share_base_url", cfg.ShareBaseURL,
		"time_zone", cfg.TimeZone,
		"notifications_enabled", cfg.NotificationsEnabled,
		"sessions_finalized_topic", cfg.SessionsFinalizedTopic,
		"sessions_finalized_dlq", cfg.SessionsFinalizedDLQ,
		"notifier_group_id", cfg.NotifierGroupID,
	)
}

var credentialRegex = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)

func redactMongoURI(uri string) string {
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}
