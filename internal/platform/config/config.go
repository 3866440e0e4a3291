package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

const (
	DefaultEligibilityTokenTTL = 5 * time.Minute
	MaxEligibilityTokenTTL     = 15 * time.Minute
	DefaultEligibilityCacheTTL = 2 * time.Minute
	MaxEligibilityCacheTTL     = 5 * time.Minute

	devSigningKey = "dev-eligibility-key-change-in-production"
	devAdminToken = "dev-admin-token"
)

// Server captures process level configuration. Everything comes from the
// environment so main stays lean; the gamification catalogue is loaded
// separately (see LoadCatalog).
type Server struct {
	Addr           string
	Environment    string
	LogLevel       string
	AdminToken     string
	Timezone       string
	CatalogPath    string
	RequestTimeout time.Duration

	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Tokens   TokenConfig

	EligibilityCacheTTL time.Duration
}

// DatabaseConfig configures the Postgres pool. An empty URL selects the
// in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the eligibility cache and token ledger. An empty URL
// selects the in-memory implementations.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the progression event producer. Empty brokers
// disable publishing.
type KafkaConfig struct {
	Brokers         string
	Topic           string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
}

// TokenConfig configures eligibility token signing.
type TokenConfig struct {
	SigningKey string
	Issuer     string
	TTL        time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:        getEnv("IMPULSA_ADDR", ":8080"),
		Environment: getEnv("IMPULSA_ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		AdminToken:  getEnv("ADMIN_API_TOKEN", devAdminToken),
		Timezone:    getEnv("IMPULSA_TIMEZONE", "America/Guayaquil"),
		CatalogPath: os.Getenv("CATALOG_PATH"),
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
		},
		Kafka: KafkaConfig{
			Brokers: os.Getenv("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_PROGRESSION_TOPIC", "impulsa.progression"),
			Acks:    getEnv("KAFKA_ACKS", "all"),
		},
		Tokens: TokenConfig{
			SigningKey: getEnv("ELIGIBILITY_SIGNING_KEY", devSigningKey),
			Issuer:     getEnv("ELIGIBILITY_TOKEN_ISSUER", "impulsa"),
		},
	}

	var err error
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Database.ConnMaxLifetime, err = durationEnv("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute); err != nil {
		return Server{}, err
	}
	if cfg.Redis.DialTimeout, err = durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.ReadTimeout, err = durationEnv("REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Redis.WriteTimeout, err = durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Kafka.DeliveryTimeout, err = durationEnv("KAFKA_DELIVERY_TIMEOUT", 30*time.Second); err != nil {
		return Server{}, err
	}
	if cfg.Kafka.Retries, err = intEnv("KAFKA_RETRIES", 3); err != nil {
		return Server{}, err
	}
	if cfg.Tokens.TTL, err = durationEnv("ELIGIBILITY_TOKEN_TTL", DefaultEligibilityTokenTTL); err != nil {
		return Server{}, err
	}
	if cfg.EligibilityCacheTTL, err = durationEnv("ELIGIBILITY_CACHE_TTL", DefaultEligibilityCacheTTL); err != nil {
		return Server{}, err
	}

	return cfg, cfg.Validate()
}

// Validate enforces the bounds on security-relevant durations.
func (c Server) Validate() error {
	if c.Tokens.TTL <= 0 || c.Tokens.TTL > MaxEligibilityTokenTTL {
		return fmt.Errorf("ELIGIBILITY_TOKEN_TTL must be in (0, %s], got %s", MaxEligibilityTokenTTL, c.Tokens.TTL)
	}
	if c.EligibilityCacheTTL < 0 || c.EligibilityCacheTTL > MaxEligibilityCacheTTL {
		return fmt.Errorf("ELIGIBILITY_CACHE_TTL must be in [0, %s], got %s", MaxEligibilityCacheTTL, c.EligibilityCacheTTL)
	}
	if c.Tokens.SigningKey == "" {
		return fmt.Errorf("ELIGIBILITY_SIGNING_KEY must not be empty")
	}
	if c.Environment == "production" && (c.Tokens.SigningKey == devSigningKey || c.AdminToken == devAdminToken) {
		return fmt.Errorf("development secrets are not allowed in production")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("IMPULSA_TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves the configured timezone used for streak calendar days.
func (c Server) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
