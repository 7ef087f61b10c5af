// Package config loads the application settings from the environment, an
// optional .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"userdir/internal/database"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DriverMemory selects the in-memory user store instead of a SQL database.
const DriverMemory = "memory"

// Config holds every setting the application reads at startup.
type Config struct {
	AppPort string

	DatabaseDriver string
	DatabaseDSN    string

	RabbitMQURL   string
	RabbitMQQueue string

	LogLevel  string
	LogFormat string

	CORSOrigin      string
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// EventsEnabled reports whether a RabbitMQ URL was configured.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", database.DriverSQLite)
	v.SetDefault("DATABASE_DSN", "file:userdir.db?_busy_timeout=5000")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "user_events")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", "1m")
}

// Load reads the configuration. Environment variables win over CONFIG_FILE
// values, which win over the defaults.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	window, err := time.ParseDuration(v.GetString("LOGIN_RATE_WINDOW"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_WINDOW: %w", err)
	}

	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		DatabaseDriver:  strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:   v.GetString("RABBITMQ_QUEUE"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		CORSOrigin:      v.GetString("CORS_ORIGIN"),
		LoginRateLimit:  v.GetInt("LOGIN_RATE_LIMIT"),
		LoginRateWindow: window,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the driver, DSN and rate limit settings.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case database.DriverPostgres, database.DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.DatabaseDriver != DriverMemory && c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required")
	}
	if c.LoginRateLimit <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be positive, got %d", c.LoginRateLimit)
	}
	if c.LoginRateWindow <= 0 {
		return fmt.Errorf("LOGIN_RATE_WINDOW must be positive, got %s", c.LoginRateWindow)
	}
	return nil
}
