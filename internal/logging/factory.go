package logging

import (
	"fmt"
	"log/slog"
	"os"

	"go.uber.org/zap/zapcore"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a Logger for the given backend, level and format.
// Level is one of debug, info, warn, error; format is json or text.
func New(backend, level, format string) (Logger, error) {
	switch backend {
	case BackendSlog, "":
		return NewSlogLogger(slog.New(NewSlogHandler(os.Stdout, format, parseSlogLevel(level)))), nil
	case BackendZap:
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("zap level: %w", err)
		}
		s, err := BuildZap(format, lvl)
		if err != nil {
			return nil, fmt.Errorf("zap build: %w", err)
		}
		return NewZapLogger(s), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

func parseSlogLevel(level string) slog.Level {
	switch level {
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
