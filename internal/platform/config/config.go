package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures all runtime configuration. main loads a .env file first so
// local development does not need exported variables.
type Config struct {
	Addr          string
	JWTSigningKey string

	// DatabaseURL empty means in-memory stores (demo / test mode).
	DatabaseURL string

	Redis RedisConfig

	// KafkaBrokers empty disables the audit outbox publisher.
	KafkaBrokers []string
	AuditTopic   string

	// EscalationThreshold is how long a report may sit in Reported before the
	// monitor promotes it. The original product used 3h; never hardcode the
	// demo value.
	EscalationThreshold time.Duration
	EscalationInterval  time.Duration

	StoreTimeout time.Duration
}

// RedisConfig tunes the notification sink connection.
type RedisConfig struct {
	URL          string
	Stream       string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from SMARTBIN_* environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:          getenv("SMARTBIN_ADDR", ":8080"),
		JWTSigningKey: getenv("SMARTBIN_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		DatabaseURL:   os.Getenv("SMARTBIN_DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("SMARTBIN_REDIS_URL"),
			Stream:       getenv("SMARTBIN_REDIS_STREAM", "notifications"),
			PoolSize:     getint("SMARTBIN_REDIS_POOL_SIZE", 10),
			MinIdleConns: getint("SMARTBIN_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getduration("SMARTBIN_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getduration("SMARTBIN_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getduration("SMARTBIN_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		AuditTopic:          getenv("SMARTBIN_AUDIT_TOPIC", "audit-events"),
		EscalationThreshold: getduration("SMARTBIN_ESCALATION_THRESHOLD", 3*time.Hour),
		EscalationInterval:  getduration("SMARTBIN_ESCALATION_INTERVAL", time.Minute),
		StoreTimeout:        getduration("SMARTBIN_STORE_TIMEOUT", 5*time.Second),
	}

	if brokers := os.Getenv("SMARTBIN_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
