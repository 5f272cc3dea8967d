package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	DatabaseURL string

	Redis RedisConfig
	Kafka KafkaConfig

	Ledger LedgerConfig

	// DeploymentID identifies the running deployment for the one-shot
	// auto-bump pass. Empty outside deployed environments.
	DeploymentID string
	// AutoBump enables the startup version-bump pass across all tenants.
	AutoBump bool
	// Tenants lists the tenant IDs the auto-bump pass iterates over.
	Tenants []string
}

// RedisConfig holds connection settings for the optional verify cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the optional audit event sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// LedgerConfig holds settings for the Solana anchoring client.
type LedgerConfig struct {
	Network        string
	RPCURL         string
	WalletKey      string
	ConfirmTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ORBIT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	network := os.Getenv("SOLANA_NETWORK")
	if network == "" {
		network = "devnet"
	}

	tenants := splitList(os.Getenv("ORBIT_TENANTS"))
	if len(tenants) == 0 {
		tenants = []string{"orbit", "npp", "demo"}
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_AUDIT_TOPIC", "orbit.hallmark.audit"),
		},
		Ledger: LedgerConfig{
			Network:        network,
			RPCURL:         os.Getenv("SOLANA_RPC_URL"),
			WalletKey:      envOr("PHANTOM_SECRET_KEY", os.Getenv("SOLANA_PRIVATE_KEY")),
			ConfirmTimeout: envDuration("SOLANA_CONFIRM_TIMEOUT", 30*time.Second),
		},
		DeploymentID: os.Getenv("DEPLOYMENT_ID"),
		AutoBump:     os.Getenv("ORBIT_ENV") == "production",
		Tenants:      tenants,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
