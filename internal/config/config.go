// Package config loads the service configuration from environment
// variables, reading a .env file first when one is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env        string        // APP_ENV: dev, test, prod
	Port       string        // APP_PORT: HTTP port to listen on
	JWTSecret  string        // JWT_SECRET: signs session tokens (required)
	SessionTTL time.Duration // SESSION_TTL: lifetime of a session token

	SessionCacheSize int           // SESSION_CACHE_SIZE: sessions kept in memory at most
	SessionIdleTTL   time.Duration // SESSION_IDLE_TTL: idle time before a cached session is dropped
	LogLevel   string        // LOG_LEVEL: debug, info, warn, error
	LogFormat  string        // LOG_FORMAT: text or json
	LogDir     string        // LOG_DIR: where the booking consumer writes booking.log

	Storage  StorageConfig
	MySQL    MySQLConfig
	Flight   FlightConfig
	Grid     GridConfig
	RabbitMQ string // RABBITMQ_URL or AMQP_URL; empty disables booking events
}

// StorageConfig selects the key-value backend behind the seat selection.
type StorageConfig struct {
	Driver      string // STORAGE_DRIVER: memory, redis or postgres
	KeyPrefix   string // STORAGE_KEY_PREFIX: namespace for all session keys
	PostgresURL string // POSTGRES_URL: used when Driver is postgres
}

// MySQLConfig locates the flight database that lists already booked seats.
// It is optional: without DB_HOST reserved seats come from RESERVED_SEATS.
type MySQLConfig struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// Enabled reports whether a flight database is configured.
func (m MySQLConfig) Enabled() bool { return m.Host != "" }

// FlightConfig names the flight whose cabin is served and its fallback
// reserved-seat list.
type FlightConfig struct {
	Number        string   // FLIGHT_NO
	ReservedSeats []string // RESERVED_SEATS: comma separated seat ids
}

// GridConfig describes the cabin layout.
type GridConfig struct {
	Rows       int      // GRID_ROWS
	Columns    []string // GRID_COLUMNS: comma separated labels
	AisleAfter int      // GRID_AISLE_AFTER: index of the last column left of the aisle
}

var validDrivers = map[string]bool{"memory": true, "redis": true, "postgres": true}

// Load reads a .env file if present and builds a Config.  Missing required
// values and malformed numbers are reported as errors.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:        envStr("APP_ENV", "dev"),
		Port:       envStr("APP_PORT", "8080"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: envDur("SESSION_TTL", 24*time.Hour),

		SessionCacheSize: envInt("SESSION_CACHE_SIZE", 10000),
		SessionIdleTTL:   envDur("SESSION_IDLE_TTL", 30*time.Minute),
		LogLevel:   envStr("LOG_LEVEL", "info"),
		LogFormat:  envStr("LOG_FORMAT", "text"),
		LogDir:     envStr("LOG_DIR", "logs"),
		Storage: StorageConfig{
			Driver:      strings.ToLower(envStr("STORAGE_DRIVER", "memory")),
			KeyPrefix:   envStr("STORAGE_KEY_PREFIX", "skyvoyage"),
			PostgresURL: os.Getenv("POSTGRES_URL"),
		},
		MySQL: MySQLConfig{
			User: envStr("DB_USER", "root"),
			Pass: os.Getenv("DB_PASS"),
			Host: os.Getenv("DB_HOST"),
			Port: envStr("DB_PORT", "3306"),
			Name: envStr("DB_NAME", "skyvoyage"),
		},
		Flight: FlightConfig{
			Number:        envStr("FLIGHT_NO", "SV203"),
			ReservedSeats: splitList(os.Getenv("RESERVED_SEATS")),
		},
		RabbitMQ: envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
	}

	var err error
	if cfg.Grid, err = loadGrid(); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("missing required env var: JWT_SECRET")
	}
	if !validDrivers[cfg.Storage.Driver] {
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == "postgres" && cfg.Storage.PostgresURL == "" {
		return Config{}, errors.New("STORAGE_DRIVER=postgres requires POSTGRES_URL")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return cfg, nil
}

func loadGrid() (GridConfig, error) {
	g := GridConfig{Columns: splitList(envStr("GRID_COLUMNS", "A,B,C,D,E,F"))}
	var err error
	if g.Rows, err = envIntStrict("GRID_ROWS", 30); err != nil {
		return GridConfig{}, err
	}
	if g.AisleAfter, err = envIntStrict("GRID_AISLE_AFTER", 2); err != nil {
		return GridConfig{}, err
	}
	return g, nil
}

func envIntStrict(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q", key, v)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
