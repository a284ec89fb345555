package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Quotes   QuoteConfig
	Alerts   AlertConfig
	Forecast ForecastConfig
	Notify   NotifyConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// QuoteConfig holds price source configuration.
// TTL bounds how long a cached quote may be served; Timeout bounds a single
// price source call; Parallelism bounds the quote fan-out during a cycle.
type QuoteConfig struct {
	TTL         time.Duration
	Timeout     time.Duration
	Parallelism int
}

// AlertConfig holds the background alert check configuration.
// Schedule is a cron expression; Channels lists the notification channels
// that triggered alerts are dispatched to (e.g. "email", "webhook").
type AlertConfig struct {
	Schedule string
	Channels []string
}

// ForecastConfig holds forecasting defaults.
type ForecastConfig struct {
	HorizonDays int
	MinHistory  int
}

// NotifyConfig holds notification transport configuration.
// FernetKey encrypts secrets (the SMTP password) at rest.
type NotifyConfig struct {
	SMTPHost  string
	SMTPPort  string
	SMTPFrom  string
	SMTPUser  string
	FernetKey string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/stock_guardian.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Quotes: QuoteConfig{
			TTL:         getEnvDuration("QUOTE_TTL", 60*time.Second),
			Timeout:     getEnvDuration("QUOTE_TIMEOUT", 5*time.Second),
			Parallelism: getEnvInt("QUOTE_PARALLELISM", 4),
		},
		Alerts: AlertConfig{
			Schedule: getEnv("ALERT_SCHEDULE", "@every 5m"),
			Channels: []string{"email"},
		},
		Forecast: ForecastConfig{
			HorizonDays: getEnvInt("FORECAST_HORIZON_DAYS", 30),
			MinHistory:  getEnvInt("FORECAST_MIN_HISTORY", 20),
		},
		Notify: NotifyConfig{
			SMTPHost:  getEnv("SMTP_HOST", ""),
			SMTPPort:  getEnv("SMTP_PORT", "587"),
			SMTPFrom:  getEnv("SMTP_FROM", ""),
			SMTPUser:  getEnv("SMTP_USER", ""),
			FernetKey: getEnv("FERNET_KEY", ""),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
