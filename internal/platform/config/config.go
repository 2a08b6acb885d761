package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. FromEnv builds it so main stays
// lean; components receive the pieces they need by value.
type Server struct {
	Addr            string
	PostgresDSN     string
	RedisURL        string
	KafkaBrokers    []string
	KafkaTopic      string
	JWTSigningKey   string
	IndexName       string
	MetadataBaseURL string
}

// SyncTimeout bounds every best-effort index sync and event publish. It
// mirrors the timeout discipline of the metadata-lookup collaborator.
const SyncTimeout = 8 * time.Second

// FromEnv builds a Server config from environment variables. The Postgres DSN
// is mandatory: running without the primary store is a configuration error,
// never a silent degradation.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:            os.Getenv("QUIZBANK_ADDR"),
		PostgresDSN:     os.Getenv("QUIZBANK_POSTGRES_DSN"),
		RedisURL:        os.Getenv("QUIZBANK_REDIS_URL"),
		KafkaTopic:      os.Getenv("QUIZBANK_KAFKA_TOPIC"),
		JWTSigningKey:   os.Getenv("QUIZBANK_JWT_SIGNING_KEY"),
		IndexName:       os.Getenv("QUIZBANK_INDEX_NAME"),
		MetadataBaseURL: os.Getenv("QUIZBANK_METADATA_BASE_URL"),
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.PostgresDSN == "" {
		return Server{}, fmt.Errorf("QUIZBANK_POSTGRES_DSN is required")
	}
	if brokers := os.Getenv("QUIZBANK_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = "quizbank.catalog"
	}
	if cfg.JWTSigningKey == "" {
		// Use a default for development - should be overridden in production
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	if cfg.IndexName == "" {
		cfg.IndexName = "questions"
	}
	if cfg.MetadataBaseURL == "" {
		cfg.MetadataBaseURL = "https://api.crossref.org"
	}
	return cfg, nil
}
