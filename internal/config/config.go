// Package config provides configuration management for the prop analyzer service.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Feeds    FeedsConfig
	Engine   EngineConfig
	Logging  LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres   PostgresConfig
	ClickHouse ClickHouseConfig
	Redis      RedisConfig
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// ClickHouseConfig holds ClickHouse configuration
type ClickHouseConfig struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// FeedsConfig holds analytics backend feed configuration.
// Each active game is polled on three independent cadences: scores are the
// fastest feed, odds and props refresh more slowly.
type FeedsConfig struct {
	BaseURL            string
	ScorePollInterval  time.Duration
	OddsPollInterval   time.Duration
	PropsPollInterval  time.Duration
	RequestTimeout     time.Duration
	RequestsPerSecond  int
	RequestBurst       int
	BreakerMaxFailures int
	BreakerCooldown    time.Duration
}

// EngineConfig holds reconciliation and pricing engine configuration
type EngineConfig struct {
	MaxMilestones int     // milestone lines shown per market
	DefaultStake  float64 // stake used when the caller does not supply one
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// Load .env file (optional in production)
	if err := godotenv.Load(); err != nil {
		// .env file is optional - environment variables can be set directly
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "prop_analyzer"),
				User:           getEnv("POSTGRES_USER", "analyzer"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 50),
			},
			ClickHouse: ClickHouseConfig{
				Host:     getEnv("CLICKHOUSE_HOST", "localhost"),
				Port:     getEnv("CLICKHOUSE_PORT", "9000"),
				Database: getEnv("CLICKHOUSE_DB", "prop_analyzer"),
				User:     getEnv("CLICKHOUSE_USER", "default"),
				Password: getEnv("CLICKHOUSE_PASSWORD", ""),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 50),
			},
		},
		Feeds: FeedsConfig{
			BaseURL:            getEnv("FEEDS_BASE_URL", "http://localhost:9090"),
			ScorePollInterval:  getEnvAsDuration("FEEDS_SCORE_POLL_INTERVAL", 5*time.Second),
			OddsPollInterval:   getEnvAsDuration("FEEDS_ODDS_POLL_INTERVAL", 20*time.Second),
			PropsPollInterval:  getEnvAsDuration("FEEDS_PROPS_POLL_INTERVAL", 30*time.Second),
			RequestTimeout:     getEnvAsDuration("FEEDS_REQUEST_TIMEOUT", 10*time.Second),
			RequestsPerSecond:  getEnvAsInt("FEEDS_REQUESTS_PER_SECOND", 10),
			RequestBurst:       getEnvAsInt("FEEDS_REQUEST_BURST", 5),
			BreakerMaxFailures: getEnvAsInt("FEEDS_BREAKER_MAX_FAILURES", 5),
			BreakerCooldown:    getEnvAsDuration("FEEDS_BREAKER_COOLDOWN", 30*time.Second),
		},
		Engine: EngineConfig{
			MaxMilestones: getEnvAsInt("ENGINE_MAX_MILESTONES", 5),
			DefaultStake:  getEnvAsFloat("ENGINE_DEFAULT_STAKE", 10),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat gets an environment variable as a float with a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
