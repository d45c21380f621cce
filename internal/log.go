package internal

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// ParseLogLevel maps ERROR|WARN|INFO|DEBUG|TRACE (any case) to a level
func ParseLogLevel(s string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LogLevelError, true
	case "WARN", "WARNING":
		return LogLevelWarn, true
	case "INFO":
		return LogLevelInfo, true
	case "DEBUG":
		return LogLevelDebug, true
	case "TRACE":
		return LogLevelTrace, true
	}
	return LogLevelInfo, false
}

// zap has no trace level; trace messages go out at debug with a marker field
func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// Logger provides leveled logging on stderr. Stdout is left to reports.
type Logger struct {
	level LogLevel
	sugar *zap.SugaredLogger
}

// NewLogger creates a new logger with the specified level
func NewLogger(level LogLevel) *Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level.zapLevel(),
	)
	return &Logger{level: level, sugar: zap.New(core).Sugar()}
}

// NewLoggerWith wraps an existing zap logger, mainly for tests
func NewLoggerWith(level LogLevel, z *zap.Logger) *Logger {
	return &Logger{level: level, sugar: z.Sugar()}
}

// NewDefaultLogger creates a logger based on LOG_LEVEL environment variable
func NewDefaultLogger() *Logger {
	level, _ := ParseLogLevel(os.Getenv("LOG_LEVEL"))
	return NewLogger(level)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LogLevelError {
		l.sugar.Errorf(format, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LogLevelWarn {
		l.sugar.Warnf(format, args...)
	}
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LogLevelInfo {
		l.sugar.Infof(format, args...)
	}
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LogLevelDebug {
		l.sugar.Debugf(format, args...)
	}
}

// Trace logs trace messages
func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LogLevelTrace {
		l.sugar.With("trace", true).Debugf(format, args...)
	}
}

// With returns a child logger carrying structured key/value context
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{level: l.level, sugar: l.sugar.With(keysAndValues...)}
}

// Sync flushes buffered entries
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.level
}

// SetDefaultLevel replaces DefaultLogger with one at the given level
func SetDefaultLevel(level LogLevel) {
	DefaultLogger = NewLogger(level)
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()
