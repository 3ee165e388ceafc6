package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server       ServerConfig
	Store        StoreConfig
	Events       EventsConfig
	Coupon       CouponConfig
	Notification NotificationConfig
	CORS         CORSConfig
	LogLevel     string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// StoreConfig selects where the cart, catalog and coupons are persisted.
type StoreConfig struct {
	Driver        string
	KeyPrefix     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseDSN   string
}

// EventsConfig enables order events. No brokers means no publishing.
type EventsConfig struct {
	KafkaBrokers    []string
	KafkaOrderTopic string
}

// Enabled reports whether brokers are configured.
func (e EventsConfig) Enabled() bool {
	return len(e.KafkaBrokers) > 0
}

// CouponConfig lists extra coupon sources loaded at startup.
type CouponConfig struct {
	SeedURLs  []string
	SeedFiles []string
}

type NotificationConfig struct {
	TTLSeconds int
}

// TTL is the notification lifetime.
func (n NotificationConfig) TTL() time.Duration {
	return time.Duration(n.TTLSeconds) * time.Second
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present; real environment
// variables take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
			KeyPrefix:     getEnv("STORE_KEY_PREFIX", "storefront:"),
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			DatabaseDSN:   getEnv("DATABASE_DSN", ""),
		},
		Events: EventsConfig{
			KafkaBrokers:    getEnvAsSlice("KAFKA_BROKERS", nil),
			KafkaOrderTopic: getEnv("KAFKA_ORDER_TOPIC", "storefront.orders"),
		},
		Coupon: CouponConfig{
			SeedURLs:  getEnvAsSlice("COUPON_SEED_URLS", nil),
			SeedFiles: getEnvAsSlice("COUPON_SEED_FILES", nil),
		},
		Notification: NotificationConfig{
			TTLSeconds: getEnvAsInt("NOTIFICATION_TTL_SECONDS", 3),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORE_DRIVER=redis")
		}
	case DriverPostgres:
		if c.Store.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be memory, redis, or postgres)", c.Store.Driver)
	}

	if c.Events.Enabled() && c.Events.KafkaOrderTopic == "" {
		return fmt.Errorf("KAFKA_ORDER_TOPIC is required when KAFKA_BROKERS is set")
	}

	if c.Notification.TTLSeconds <= 0 {
		return fmt.Errorf("NOTIFICATION_TTL_SECONDS must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice splits a comma-separated value, dropping blank entries.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
