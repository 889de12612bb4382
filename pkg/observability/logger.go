package observability

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// StandardLogger is the Logger implementation backed by zerolog
type StandardLogger struct {
	prefix string
	level  LogLevel
	out    io.Writer
	zl     zerolog.Logger
}

// NewStandardLogger creates a JSON logger on stderr with the given prefix
func NewStandardLogger(prefix string) Logger {
	return newStandardLogger(os.Stderr, prefix, LoggingConfig{})
}

// NewLogger creates a logger from configuration writing to w
func NewLogger(w io.Writer, prefix string, cfg LoggingConfig) Logger {
	return newStandardLogger(w, prefix, cfg)
}

func newStandardLogger(w io.Writer, prefix string, cfg LoggingConfig) *StandardLogger {
	if strings.EqualFold(cfg.Format, "text") {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
	}

	level := ParseLogLevel(cfg.Level)
	return &StandardLogger{
		prefix: prefix,
		level:  level,
		out:    w,
		zl:     baseLogger(w, prefix, level),
	}
}

func baseLogger(w io.Writer, prefix string, level LogLevel) zerolog.Logger {
	return zerolog.New(w).
		Level(toZerologLevel(level)).
		With().
		Timestamp().
		Str("component", prefix).
		Logger()
}

// ParseLogLevel maps a level name to a LogLevel. Unknown values default to INFO.
func ParseLogLevel(s string) LogLevel {
	switch LogLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case LogLevelDebug:
		return LogLevelDebug
	case LogLevelWarn:
		return LogLevelWarn
	case LogLevelError:
		return LogLevelError
	case LogLevelFatal:
		return LogLevelFatal
	default:
		return LogLevelInfo
	}
}

func toZerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	case LogLevelFatal:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithLevel returns a new logger with the specified log level
func (l *StandardLogger) WithLevel(level LogLevel) *StandardLogger {
	return &StandardLogger{
		prefix: l.prefix,
		level:  level,
		out:    l.out,
		zl:     l.zl.Level(toZerologLevel(level)),
	}
}

// Level returns the minimum level the logger emits
func (l *StandardLogger) Level() LogLevel {
	return l.level
}

// Debug logs a debug message
func (l *StandardLogger) Debug(msg string, fields map[string]interface{}) {
	l.event(l.zl.Debug(), fields).Msg(msg)
}

// Info logs an info message
func (l *StandardLogger) Info(msg string, fields map[string]interface{}) {
	l.event(l.zl.Info(), fields).Msg(msg)
}

// Warn logs a warning message
func (l *StandardLogger) Warn(msg string, fields map[string]interface{}) {
	l.event(l.zl.Warn(), fields).Msg(msg)
}

// Error logs an error message
func (l *StandardLogger) Error(msg string, fields map[string]interface{}) {
	l.event(l.zl.Error(), fields).Msg(msg)
}

// Fatal logs a fatal message and exits
func (l *StandardLogger) Fatal(msg string, fields map[string]interface{}) {
	l.event(l.zl.Fatal(), fields).Msg(msg)
}

// Debugf logs a formatted debug message
func (l *StandardLogger) Debugf(format string, args ...interface{}) {
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}

// Infof logs a formatted info message
func (l *StandardLogger) Infof(format string, args ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning message
func (l *StandardLogger) Warnf(format string, args ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message
func (l *StandardLogger) Errorf(format string, args ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

// Fatalf logs a formatted fatal message and exits
func (l *StandardLogger) Fatalf(format string, args ...interface{}) {
	l.zl.Fatal().Msg(fmt.Sprintf(format, args...))
}

// WithPrefix returns a new logger with the given prefix. Fields added with
// With are not carried over.
func (l *StandardLogger) WithPrefix(prefix string) Logger {
	return &StandardLogger{
		prefix: prefix,
		level:  l.level,
		out:    l.out,
		zl:     baseLogger(l.out, prefix, l.level),
	}
}

// With returns a new logger that adds fields to every entry
func (l *StandardLogger) With(fields map[string]interface{}) Logger {
	return &StandardLogger{
		prefix: l.prefix,
		level:  l.level,
		out:    l.out,
		zl:     l.zl.With().Fields(fields).Logger(),
	}
}

func (l *StandardLogger) event(e *zerolog.Event, fields map[string]interface{}) *zerolog.Event {
	if len(fields) == 0 {
		return e
	}
	return e.Fields(fields)
}

// NoopLogger is a logger that does nothing
type NoopLogger struct{}

// NewNoopLogger creates a new NoopLogger
func NewNoopLogger() Logger {
	return &NoopLogger{}
}

// Debug implements Logger.Debug
func (l *NoopLogger) Debug(msg string, fields map[string]interface{}) {}

// Info implements Logger.Info
func (l *NoopLogger) Info(msg string, fields map[string]interface{}) {}

// Warn implements Logger.Warn
func (l *NoopLogger) Warn(msg string, fields map[string]interface{}) {}

// Error implements Logger.Error
func (l *NoopLogger) Error(msg string, fields map[string]interface{}) {}

// Fatal implements Logger.Fatal
func (l *NoopLogger) Fatal(msg string, fields map[string]interface{}) {}

// Debugf implements Logger.Debugf
func (l *NoopLogger) Debugf(format string, args ...interface{}) {}

// Infof implements Logger.Infof
func (l *NoopLogger) Infof(format string, args ...interface{}) {}

// Warnf implements Logger.Warnf
func (l *NoopLogger) Warnf(format string, args ...interface{}) {}

// Errorf implements Logger.Errorf
func (l *NoopLogger) Errorf(format string, args ...interface{}) {}

// Fatalf implements Logger.Fatalf
func (l *NoopLogger) Fatalf(format string, args ...interface{}) {}

// WithPrefix implements Logger.WithPrefix
func (l *NoopLogger) WithPrefix(prefix string) Logger {
	return l
}

// With implements Logger.With
func (l *NoopLogger) With(fields map[string]interface{}) Logger {
	return l
}
