package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// ContextKey is the type for context keys used by the logger
type ContextKey string

const (
	// LoggerKey is the context key for the logger instance
	LoggerKey ContextKey = "logger"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New creates a logger writing to stdout. format is "console" or "json";
// unknown levels fall back to info.
func New(level, format string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if !strings.EqualFold(format, FormatJSON) {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(out).Level(ParseLevel(level))
}

// NewWithWriter creates a new structured logger with a custom writer
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// WithContext adds the logger to the context
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from the context or returns a disabled logger
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// Gorm adapts l into gorm's logger so SQL traces share the application sink.
func Gorm(l zerolog.Logger, level gormlogger.LogLevel) gormlogger.Interface {
	return gormlogger.New(gormWriter{log: l.With().Str("component", "gorm").Logger()}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// GormLevel maps an application log level onto gorm's coarser scale.
func GormLevel(level zerolog.Level) gormlogger.LogLevel {
	switch {
	case level <= zerolog.DebugLevel:
		return gormlogger.Info
	case level <= zerolog.WarnLevel:
		return gormlogger.Warn
	case level <= zerolog.ErrorLevel:
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
