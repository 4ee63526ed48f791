package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

type Config struct {
	StoreDriver   string
	SQLitePath    string
	RedisAddress  string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string
	LogKey        string

	RosterFile        string
	Location          *time.Location
	DateCheckInterval time.Duration
	StoreTimeout      time.Duration

	LogLevel    string
	Env         string // dev|prod
	MetricsFile string
}

// Load reads the configuration from the environment. Call godotenv first to
// pick up a local .env file.
func Load() (*Config, error) {
	tz := getenv("TZ", "Asia/Jakarta")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("TZ: %w", err)
	}

	redisDB, err := strconv.Atoi(getenv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}

	interval, err := time.ParseDuration(getenv("DATE_CHECK_INTERVAL", "1m"))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("DATE_CHECK_INTERVAL: must be a positive duration")
	}

	timeout, err := time.ParseDuration(getenv("STORE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("STORE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		StoreDriver:       strings.ToLower(getenv("STORE_DRIVER", "sqlite")),
		SQLitePath:        getenv("SQLITE_PATH", "siskamling.db"),
		RedisAddress:      getenv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		DatabaseURL:       os.Getenv("DB_CONNECTION_STRING"),
		LogKey:            getenv("LOG_KEY", "siskamlingSubmissions"),
		RosterFile:        os.Getenv("ROSTER_FILE"),
		Location:          loc,
		DateCheckInterval: interval,
		StoreTimeout:      timeout,
		LogLevel:          getenv("LOG_LEVEL", "info"),
		Env:               getenv("ENV", "dev"),
		MetricsFile:       os.Getenv("METRICS_FILE"),
	}

	switch cfg.StoreDriver {
	case "sqlite", "redis", "memory":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DB_CONNECTION_STRING is required for the postgres store")
		}
	default:
		return nil, fmt.Errorf("STORE_DRIVER: unsupported driver %q", cfg.StoreDriver)
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
