package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Custom levels beyond the slog built-ins. Trace sits below Debug,
// Notice between Info and Warn.
const (
	SlogLevelTrace  = slog.Level(-8)
	SlogLevelNotice = slog.Level(2)
)

var (
	logger  *slog.Logger
	logFile *os.File
	mu      sync.RWMutex
)

func init() {
	// Default: discard logs to avoid interfering with terminal output.
	// Use EnableFileLogging() or Configure() to turn logging on.
	logger = slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// EnableFileLogging enables logging to a file in the config directory.
// This should be called before any interactive UI starts.
func EnableFileLogging(configDir string, level Level) error {
	mu.Lock()
	defer mu.Unlock()

	logPath := filepath.Join(configDir, "groundwork.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	// Close previous log file if any
	if logFile != nil {
		logFile.Close()
	}
	logFile = f

	logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: level.slogLevel(),
	}))

	return nil
}

// DisableLogging disables all logging output.
func DisableLogging() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	logger = slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// Close closes the log file if open.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// Level represents a logging level.
type Level string

const (
	LevelTrace  Level = "trace"
	LevelDebug  Level = "debug"
	LevelInfo   Level = "info"
	LevelNotice Level = "notice"
	LevelWarn   Level = "warn"
	LevelError  Level = "error"
)

func (l Level) slogLevel() slog.Level {
	switch strings.ToLower(string(l)) {
	case "trace":
		return SlogLevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "notice":
		return SlogLevelNotice
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Configure configures the global logger with the given level and writer.
// A nil writer selects stderr.
func Configure(level Level, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	mu.Lock()
	defer mu.Unlock()

	logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level.slogLevel(),
	}))
}

// ConfigureConsole installs the styled console handler, used by
// interactive commands where JSON lines would be noise.
func ConfigureConsole(level Level, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	mu.Lock()
	defer mu.Unlock()

	logger = slog.New(NewConsoleHandler(w, level.slogLevel()))
}

// SetLevel sets the logging level.
func SetLevel(level Level) {
	Configure(level, nil)
}

// Trace logs a trace message.
func Trace(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Log(context.Background(), SlogLevelTrace, msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Info(msg, args...)
}

// Notice logs a notice message.
func Notice(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Log(context.Background(), SlogLevelNotice, msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Error(msg, args...)
}

// With returns a new logger with the given attributes.
func With(args ...any) *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	return l.With(args...)
}

// Logger returns the underlying slog.Logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// ParseLevel parses a level string to Level.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "notice":
		return LevelNotice
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
