package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the handler. Empty values fall back to LOG_LEVEL / LOG_FORMAT.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New constructs the service logger. JSON unless Format is "text".
func New(opts Options) *slog.Logger {
	level := opts.Level
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	format := opts.Format
	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}
	return slog.New(handler).With("service", "lci-tracker")
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
