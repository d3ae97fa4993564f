// Package logging provides the structured logger for pngsplice: a zap
// logger teed to the console and a size-rotated log file.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with the tool's output policy: file output is
// always JSON for post-processing; console output is human-readable in
// development mode and JSON otherwise.
type Logger struct {
	zap *zap.Logger
}

// NewLogger creates a Logger writing to stderr and a rotating file at
// logFilePath. Development mode lowers the level to debug and colors the
// console output. maxSizeMB controls file rotation (0 = default).
//
// The console side goes to stderr so command output (extracted trailer
// text, dimensions) stays clean on stdout.
func NewLogger(isDevelopment bool, logFilePath string, maxSizeMB int) (*Logger, error) {
	level := zapcore.InfoLevel
	if isDevelopment {
		level = zapcore.DebugLevel
	}
	core := newTeeCore(level, zapcore.AddSync(os.Stderr), NewFileWriter(logFilePath, maxSizeMB), isDevelopment)
	return &Logger{zap: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))}, nil
}

// NewLoggerWithWriters creates a Logger over caller-supplied writers.
// Used in tests and anywhere the default console/file pair doesn't fit.
func NewLoggerWithWriters(level zapcore.Level, console, file zapcore.WriteSyncer, isDevelopment bool) *Logger {
	return &Logger{zap: zap.New(newTeeCore(level, console, file, isDevelopment))}
}

// newTeeCore builds the two-headed core: console encoder per mode, file
// encoder always JSON.
func newTeeCore(level zapcore.Level, console, file zapcore.WriteSyncer, isDev bool) zapcore.Core {
	var consoleEncoder zapcore.Encoder
	if isDev {
		consoleEncoder = zapcore.NewConsoleEncoder(NewConsoleEncoderConfig())
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(NewEncoderConfig())
	}
	fileEncoder := zapcore.NewJSONEncoder(NewEncoderConfig())
	return zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, console, level),
		zapcore.NewCore(fileEncoder, file, level),
	)
}

// With returns a child logger with the given fields attached to every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(fields...)}
}

// Debug logs a message at DebugLevel.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, fields...)
}

// Info logs a message at InfoLevel.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, fields...)
}

// Warn logs a message at WarnLevel.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, fields...)
}

// Error logs a message at ErrorLevel.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, fields...)
}

// Sync flushes buffered entries. Call before exiting.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}
