package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Global logger instance and synchronization.
var (
	logger   *slog.Logger
	loggerMu sync.RWMutex
	isInited bool
	initOnce sync.Once
)

// Level represents logging verbosity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Config holds logger configuration. BlazeDB always logs to stderr (stdout
// is reserved for the CLI's own success/failure reporting, and query output
// goes to the output file named on the command line).
type Config struct {
	Level  Level
	Format string // "json" or "text"
}

// Init initializes the global logger with the given configuration. Safe to
// call once at program startup; subsequent calls are no-ops.
func Init(config Config) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if isInited {
		return
	}

	var writer io.Writer = os.Stderr

	var level slog.Level
	switch config.Level {
	case LevelDebug:
		level = slog.LevelDebug
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	logger = slog.New(handler)
	isInited = true
}

// InitDefault initializes the logger with INFO-level text logging to
// stderr. Safe to call multiple times; only initializes once.
func InitDefault() {
	Init(Config{Level: LevelInfo, Format: "text"})
}

// Get returns the current logger, lazily initializing with defaults on
// first use so packages that log before main() calls Init are still safe.
func Get() *slog.Logger {
	loggerMu.RLock()
	if isInited {
		l := logger
		loggerMu.RUnlock()
		return l
	}
	loggerMu.RUnlock()

	initOnce.Do(InitDefault)

	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	return l
}

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }
