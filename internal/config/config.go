package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration, loaded from PAY_*
// environment variables with optional .env support.
type Config struct {
	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string

	// MetricsAddr is the Prometheus listen address. Empty disables
	// the metrics listener, which is the default for one-shot runs.
	MetricsAddr string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present; a missing file
// is not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		LogLevel:    envOrDefault("PAY_LOG_LEVEL", "info"),
		MetricsAddr: os.Getenv("PAY_METRICS_ADDR"),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
