// Package logger builds the zerolog logger shared by the dashboard service.
// Components derive their own loggers from it via With().Str(...), so every
// line carries its component/repo/handler context.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration
type Config struct {
	Level  string // trace, debug, info, warn, error; anything else means info
	Pretty bool   // Enable pretty console output
}

// New creates the root structured logger
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetGlobalLogger routes the zerolog package-level logger through the
// service logger, so stray log.Info() calls from dependencies land in the
// same stream instead of the default stderr writer.
func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}
