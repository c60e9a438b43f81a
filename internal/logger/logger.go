package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	base  zerolog.Logger
	ready bool
)

// Options configures the global logger. Empty fields fall back to the
// LOG_LEVEL / LOG_PRETTY environment variables, then to info / JSON.
type Options struct {
	Level   string    // debug|info|warn|error
	Pretty  bool      // human-readable console output instead of JSON
	Service string    // value of the "service" field on every event
	Output  io.Writer // defaults to os.Stdout
}

// Init configures the global logger.
func Init(opts Options) {
	levelName := opts.Level
	if levelName == "" {
		levelName = getenv("LOG_LEVEL", "info")
	}
	pretty := opts.Pretty || strings.EqualFold(getenv("LOG_PRETTY", "false"), "true")
	service := opts.Service
	if service == "" {
		service = "adrpulse"
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	var w io.Writer = os.Stdout
	if opts.Output != nil {
		w = opts.Output
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	base = zerolog.New(w).With().Timestamp().Str("service", service).Logger().Level(parseLevel(levelName))
	ready = true
}

// L returns the global logger. Call Init() once on startup.
func L() *zerolog.Logger {
	if !ready {
		Init(Options{})
	}
	return &base
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
