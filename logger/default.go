package logger

import (
	"sync/atomic"

	"github.com/philipp01105/rollinglog/core"
)

var defaultLogger atomic.Pointer[Logger]

func init() {
	// Discards everything until SetDefault is called
	defaultLogger.Store(&Logger{})
}

// Default returns the default logger
func Default() *Logger {
	return defaultLogger.Load()
}

// SetDefault sets the default logger. A nil l restores the discarding
// logger.
func SetDefault(l *Logger) {
	if l == nil {
		l = &Logger{}
	}
	defaultLogger.Store(l)
}

// Package-level convenience functions using the default logger

// Trace logs a message template using the default logger
func Trace(msg string, args ...any) {
	Default().Trace(msg, args...)
}

// Debug logs a message template using the default logger
func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

// Information logs a message template using the default logger
func Information(msg string, args ...any) {
	Default().Information(msg, args...)
}

// Warning logs a message template using the default logger
func Warning(msg string, args ...any) {
	Default().Warning(msg, args...)
}

// Error logs a message template and err using the default logger
func Error(err error, msg string, args ...any) {
	Default().Error(err, msg, args...)
}

// Critical logs a message template and err using the default logger
func Critical(err error, msg string, args ...any) {
	Default().Critical(err, msg, args...)
}

// Debugf logs a formatted debug message using the default logger
func Debugf(format string, args ...any) {
	Default().Debugf(format, args...)
}

// Informationf logs a formatted message using the default logger
func Informationf(format string, args ...any) {
	Default().Informationf(format, args...)
}

// Warningf logs a formatted warning using the default logger
func Warningf(format string, args ...any) {
	Default().Warningf(format, args...)
}

// Errorf logs a formatted error message using the default logger
func Errorf(format string, args ...any) {
	Default().Errorf(format, args...)
}

// With begins a dictionary scope on the default logger
func With(fields ...core.Field) *Logger {
	return Default().With(fields...)
}
