// Package logger provides the process-wide structured logger shared by the
// shears and hub binaries, plus small helpers for attaching link/session/
// transfer identity to a derived logger.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Environment variable name for log level configuration. This is only the
// pre-flag-parse default: internal/config owns the binaries' -log-level
// flag, and both cmd/shears and cmd/hub call SetLevel with the parsed value
// immediately after Init, which supersedes whatever this resolves to.
const envLogLevel = "WM_LOG_LEVEL"

var (
	// atomicLevel implements slog.Leveler and can be changed at runtime.
	atomicLevel = &dynamicLevel{v: int64(slog.LevelInfo)}
	global      *slog.Logger
	initOnce    sync.Once
)

// dynamicLevel is an atomic slog.Leveler.
type dynamicLevel struct{ v int64 }

func (d *dynamicLevel) Level() slog.Level { return slog.Level(atomic.LoadInt64(&d.v)) }
func (d *dynamicLevel) set(l slog.Level)  { atomic.StoreInt64(&d.v, int64(l)) }

// Init initializes the global logger at the level named by WM_LOG_LEVEL, or
// info if that's unset or invalid. Safe to call multiple times; the first
// call wins except for SetLevel / UseWriter which mutate state intentionally.
func Init() {
	initOnce.Do(func() {
		lvl := slog.LevelInfo
		if env := os.Getenv(envLogLevel); env != "" {
			if parsed, ok := parseLevel(env); ok {
				lvl = parsed
			}
		}
		atomicLevel.set(lvl)
		global = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: atomicLevel}))
	})
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error", "err":
		return slog.LevelError, true
	}
	return 0, false
}

// SetLevel changes the runtime log level.
func SetLevel(level string) error {
	Init()
	lvl, ok := parseLevel(level)
	if !ok {
		return errors.New("invalid log level: " + level)
	}
	atomicLevel.set(lvl)
	return nil
}

// Level returns the current runtime level as a string.
func Level() string {
	Init()
	return atomicLevel.Level().String()
}

// UseWriter swaps the output writer (intended for tests); retains level.
func UseWriter(w io.Writer) {
	Init()
	global = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: atomicLevel}))
}

// Logger returns the global logger (ensures Init was called).
func Logger() *slog.Logger { Init(); return global }

// Convenience top-level logging functions.
func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { Logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { Logger().Warn(msg, args...) }
func Error(msg string, args ...any) { Logger().Error(msg, args...) }

// WithLink attaches radio link identity fields.
func WithLink(l *slog.Logger, linkID string) *slog.Logger {
	return l.With("link_id", linkID)
}

// WithSession attaches a transfer session/reception correlation id.
func WithSession(l *slog.Logger, sessionID string) *slog.Logger {
	return l.With("session_id", sessionID)
}

// WithTransfer attaches file-transfer identity (basename + session).
func WithTransfer(l *slog.Logger, sessionID, basename string) *slog.Logger {
	return l.With("session_id", sessionID, "basename", basename)
}
