package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a structured JSON logger writing to stderr,
// leaving stdout free for the account snapshot output. Production
// default: info. Set via PAY_LOG_LEVEL env var.
func NewLogger(component string) zerolog.Logger {
	return NewLoggerWithLevel(component, os.Getenv("PAY_LOG_LEVEL"))
}

// NewLoggerWithLevel creates a logger with an explicit level name
// (debug, info, warn, error); unknown names fall back to info.
func NewLoggerWithLevel(component, level string) zerolog.Logger {
	return zerolog.New(os.Stderr).
		Level(parseLogLevel(level)).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

func parseLogLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
