package logger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// global is the process-wide logger returned when a context carries none.
	//nolint:gochecknoglobals // Both binaries log through one logger.
	global *zap.SugaredLogger
	// level is shared by every logger derived from global.
	//nolint:gochecknoglobals // Configure changes it after startup.
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() { //nolint:gochecknoinits // Logging works before the config is loaded.
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{ //nolint:exhaustruct // Defaults are fine.
		MessageKey:       "message",
		LevelKey:         "level",
		TimeKey:          "time",
		NameKey:          "logger",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: ", ",
	})

	// stderr keeps command output on stdout machine-readable.
	global = zap.New(zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)).Sugar()
}

// errUnknownLevel is returned by Configure for level names zap does not know.
var errUnknownLevel = errors.New("unknown log level")

// Logger returns the global logger.
func Logger() *zap.SugaredLogger {
	return global
}

// ParseLogLevel converts a level name such as "warn" to a zap level.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	parsed, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel, false
	}

	return parsed, true
}

// Configure applies a level name from the config file or WPBT_LOG_LEVEL.
// An empty name keeps the current level.
func Configure(levelName string) error {
	if strings.TrimSpace(levelName) == "" {
		return nil
	}

	parsed, ok := ParseLogLevel(levelName)
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownLevel, levelName)
	}

	level.SetLevel(parsed)

	return nil
}

// Info writes an information level message using the logger from the context.
func Info(ctx context.Context, args ...any) {
	FromContext(ctx).Info(args...)
}

// DebugKV writes a message and key-value pairs at the debug level.
func DebugKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Debugw(message, kvs...)
}

// InfoKV writes a message and key-value pairs at the information level.
func InfoKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Infow(message, kvs...)
}

// Warnf writes a formatted warning.
func Warnf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Warnf(format, args...)
}

// WarnKV writes a message and key-value pairs at the warning level.
func WarnKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Warnw(message, kvs...)
}

// Errorf writes a formatted error.
func Errorf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Errorf(format, args...)
}

// ErrorKV writes a message and key-value pairs at the error level.
func ErrorKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Errorw(message, kvs...)
}
