package logging

import (
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Default file rotation settings.
const (
	DefaultMaxSizeMB  = 20
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 30
)

// NewFileWriter returns a WriteSyncer that appends to path with automatic
// size-based rotation. maxSizeMB of zero or less uses DefaultMaxSizeMB.
// Rotated files are compressed and pruned after DefaultMaxAgeDays.
func NewFileWriter(path string, maxSizeMB int) zapcore.WriteSyncer {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
		Compress:   true,
	})
}
