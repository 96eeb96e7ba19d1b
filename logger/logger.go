package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type Config struct {
	Level  string // debug, info, warn, error
	Format string // text or json
	File   string
}

// Init installs the default slog logger. Text output goes through
// charmbracelet/log; json uses the standard JSON handler.
// LOG_LEVEL, LOG_FORMAT and LOG_FILE fill in fields left empty.
func Init(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = os.Getenv("LOG_LEVEL")
	}
	if cfg.Format == "" {
		cfg.Format = os.Getenv("LOG_FORMAT")
	}
	if cfg.File == "" {
		cfg.File = os.Getenv("LOG_FILE")
	}

	var w io.Writer = os.Stderr
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			slog.Error("failed to create log directory, using stderr only", "file", cfg.File, "error", err)
		} else {
			f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				slog.Error("failed to open log file, using stderr only", "file", cfg.File, "error", err)
			} else {
				w = f
			}
		}
	}

	slog.SetDefault(slog.New(NewHandler(w, cfg)))
}

// NewHandler builds the handler Init would install, writing to w.
func NewHandler(w io.Writer, cfg Config) slog.Handler {
	level := parseLevel(cfg.Level)
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	return log.NewWithOptions(w, log.Options{
		Level:           log.Level(level),
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// NewSessionLogger returns a logger tagged with a fresh sessionId.
func NewSessionLogger() (*slog.Logger, string) {
	id := uuid.Must(uuid.NewV7()).String()
	return slog.With("sessionId", id), id
}

// NewRequestLogger creates a logger with a unique requestId for tool and
// API handlers.
func NewRequestLogger() *slog.Logger {
	return slog.With("requestId", uuid.Must(uuid.NewV7()).String())
}

// LogPanic records a recovered panic value with its stack.
func LogPanic(r any, msg string, args ...any) {
	args = append(args, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
	slog.Error(msg, args...)
}
