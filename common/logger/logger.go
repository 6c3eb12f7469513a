package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides a unified leveled logging facade for the agent.
// The backing zap logger can be swapped out for tests.

// LogLevel represents log severity levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	level atomic.Int32
	base  = newDefault()
)

func newDefault() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

func init() {
	level.Store(int32(LevelInfo))
}

// SetLevel sets the minimum log level
func SetLevel(l LogLevel) {
	level.Store(int32(l))
}

// ParseLevel maps a config string to a LogLevel. Unknown values default to info.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN", "warning":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Disable routes all output to a nop logger (useful for tests)
func Disable() {
	base = zap.NewNop().Sugar()
}

// UseZap replaces the backing logger.
func UseZap(l *zap.Logger) {
	if l != nil {
		base = l.Sugar()
	}
}

// Debugf logs a debug message
func Debugf(format string, args ...interface{}) {
	if LogLevel(level.Load()) > LevelDebug {
		return
	}
	base.Debugf(format, args...)
}

// Infof logs an info message
func Infof(format string, args ...interface{}) {
	if LogLevel(level.Load()) > LevelInfo {
		return
	}
	base.Infof(format, args...)
}

// Warnf logs a warning message
func Warnf(format string, args ...interface{}) {
	if LogLevel(level.Load()) > LevelWarn {
		return
	}
	base.Warnf(format, args...)
}

// Errorf logs an error message
func Errorf(format string, args ...interface{}) {
	base.Errorf(format, args...)
}
