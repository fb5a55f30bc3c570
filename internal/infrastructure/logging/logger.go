package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/wattquest/wattquest-core/internal/infrastructure/config"
)

// Logger is a slog.Logger carrying the service's default fields.
// Safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a logger from configuration.
//
// Output is "stdout", "stderr", or a file path (appended, created if
// missing; falls back to stdout when the file cannot be opened).
// Format is "text" or "json"; level is debug, info, warn or error.
//
// Parameters:
//   - cfg: Logging section of the configuration
//   - version: Stamped on every record alongside the service name
//
// Returns:
//   - *Logger: Ready-to-use logger
func New(cfg config.LoggingConfig, version string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(destination(cfg.Output), opts)
	} else {
		handler = slog.NewJSONHandler(destination(cfg.Output), opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "wattquest"),
		slog.String("version", version),
	})
	return &Logger{Logger: slog.New(handler)}
}

// Default returns a stdout JSON logger at info level, for use before
// configuration has loaded.
func Default() *Logger {
	return New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "dev")
}

// With returns a child logger carrying extra default attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

func destination(output string) io.Writer {
	switch strings.ToLower(output) {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return os.Stdout
		}
		return f
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
