package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init configures the global logger. Log output goes to stderr and, when file
// is non-empty, to a size-rotated file as well.
func Init(file string, maxSizeMB, maxBackups, maxAgeDays int, compress bool, level string) {
	writers := []io.Writer{os.Stderr}
	if file != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   compress,
		})
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger().
		Level(parseLevel(level))

	mu.Lock()
	logger = l
	mu.Unlock()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// SetLogLevel adjusts the minimum level of the global logger. Unknown levels
// fall back to info.
func SetLogLevel(level string) {
	mu.Lock()
	logger = logger.Level(parseLevel(level))
	mu.Unlock()
}

// SetLoggerForTest replaces the global logger. Intended for tests that need to
// capture output.
func SetLoggerForTest(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Info logs at info level with alternating key/value pairs.
func Info(msg string, kv ...any) { emit(zerolog.InfoLevel, msg, kv...) }

// Warn logs at warn level with alternating key/value pairs.
func Warn(msg string, kv ...any) { emit(zerolog.WarnLevel, msg, kv...) }

// Error logs at error level with alternating key/value pairs.
func Error(msg string, kv ...any) { emit(zerolog.ErrorLevel, msg, kv...) }

// Debug logs at debug level with alternating key/value pairs.
func Debug(msg string, kv ...any) { emit(zerolog.DebugLevel, msg, kv...) }

func emit(level zerolog.Level, msg string, kv ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ev := l.WithLevel(level)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		ev = ev.Interface(key, kv[i+1])
	}
	// A dangling key without a value is dropped rather than panicking.
	ev.Msg(msg)
}
