// Package logging sets up structured logging. A TUI owns stdout and
// stderr, so logs go to a file, or nowhere at all.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tlog "go.temporal.io/sdk/log"
)

// Open returns a JSON logger appending to path and a closer for the
// underlying file. An empty path yields a logger that discards everything.
func Open(path, level string) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: parseLevel(level)}))
	return logger, f.Close, nil
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

// SDKAdapter adapts slog.Logger to the Temporal SDK's log interface so
// client internals share the application log file.
type SDKAdapter struct {
	logger *slog.Logger
}

func NewSDKAdapter(logger *slog.Logger) *SDKAdapter {
	return &SDKAdapter{logger: logger}
}

func (a *SDKAdapter) Debug(msg string, keyvals ...any) {
	a.logger.Debug(msg, keyvals...)
}

func (a *SDKAdapter) Info(msg string, keyvals ...any) {
	a.logger.Info(msg, keyvals...)
}

func (a *SDKAdapter) Warn(msg string, keyvals ...any) {
	a.logger.Warn(msg, keyvals...)
}

func (a *SDKAdapter) Error(msg string, keyvals ...any) {
	a.logger.Error(msg, keyvals...)
}

// Compile-time check.
var _ tlog.Logger = (*SDKAdapter)(nil)
