package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs from its environment.
type Config struct {
	Addr          string
	PostgresDSN   string
	Redis         RedisConfig
	Kafka         KafkaConfig
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// TrackingPrefix is the human-readable prefix of public tracking IDs.
	TrackingPrefix string

	// StatsCacheTTL bounds staleness of the cached public statistics.
	StatsCacheTTL time.Duration

	// MaxPageSize caps the limit parameter on all listing endpoints.
	MaxPageSize int
}

// RedisConfig configures the optional Redis cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit outbox relay. Empty brokers disable it.
type KafkaConfig struct {
	Brokers     []string
	Topic       string
	RelayPeriod time.Duration
	RelayBatch  int
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:           envOr("NAMMASEV_ADDR", ":8080"),
		PostgresDSN:    envOr("NAMMASEV_POSTGRES_DSN", ""),
		JWTSigningKey:  envOr("NAMMASEV_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:      envOr("NAMMASEV_JWT_ISSUER", "nammasev-identity"),
		JWTAudience:    envOr("NAMMASEV_JWT_AUDIENCE", "nammasev"),
		TrackingPrefix: envOr("NAMMASEV_TRACKING_PREFIX", "NMS"),
		StatsCacheTTL:  envDurationOr("NAMMASEV_STATS_CACHE_TTL", 30*time.Second),
		MaxPageSize:    envIntOr("NAMMASEV_MAX_PAGE_SIZE", 100),
		Redis: RedisConfig{
			URL:          envOr("NAMMASEV_REDIS_URL", ""),
			PoolSize:     envIntOr("NAMMASEV_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("NAMMASEV_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("NAMMASEV_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("NAMMASEV_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("NAMMASEV_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Topic:       envOr("NAMMASEV_AUDIT_TOPIC", "nammasev.audit"),
			RelayPeriod: envDurationOr("NAMMASEV_AUDIT_RELAY_PERIOD", 2*time.Second),
			RelayBatch:  envIntOr("NAMMASEV_AUDIT_RELAY_BATCH", 100),
		},
	}
	if brokers := os.Getenv("NAMMASEV_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
