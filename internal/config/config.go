package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, read from the environment.
type Config struct {
	Port      string
	JWTSecret string

	// DatabaseURL selects the Postgres backend; when empty the embedded
	// document store serves the ledger.
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	ReceiptBucket  string

	OpenAIAPIKey    string
	OpenAIModel     string
	ClassifyTimeout time.Duration

	// ConfirmationTTL bounds how long an unconfirmed command is held.
	ConfirmationTTL time.Duration

	// OverdueAfter is the age at which a pending invoice is marked overdue.
	OverdueAfter time.Duration

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		MinioEndpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:     getEnv("MINIO_USE_SSL", "") == "true",
		ReceiptBucket:   getEnv("RECEIPT_BUCKET", "receipts"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ClassifyTimeout: getEnvDuration("CLASSIFY_TIMEOUT", 10*time.Second),
		ConfirmationTTL: getEnvDuration("CONFIRMATION_TTL", 5*time.Minute),
		OverdueAfter:    getEnvDuration("OVERDUE_AFTER", 7*24*time.Hour),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
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
