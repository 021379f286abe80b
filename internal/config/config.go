package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultLogLevel    = "info"
	defaultChannelSize = 10000
	defaultBackend     = BackendMemory
	defaultKafkaTopic  = "transaction_audit"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config captures runtime configuration loaded from environment variables.
// The input file itself is a positional CLI argument, not configuration.
type Config struct {
	LogLevel     string
	ChannelSize  int
	StoreBackend string
	DatabaseURL  string
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from the environment, applying defaults and
// validating combinations (a postgres backend needs DATABASE_URL).
func Load() (Config, error) {
	cfg := Config{
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		ChannelSize:  defaultChannelSize,
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", defaultBackend)),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", defaultKafkaTopic),
	}

	if v := os.Getenv("CHANNEL_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CHANNEL_SIZE: %w", err)
		}
		if size <= 0 {
			return Config{}, fmt.Errorf("CHANNEL_SIZE must be positive, got %d", size)
		}
		cfg.ChannelSize = size
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		for _, broker := range strings.Split(v, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when STORE_BACKEND is %s", BackendPostgres)
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

// AuditEnabled reports whether a Kafka audit publisher should be wired.
func (c Config) AuditEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
