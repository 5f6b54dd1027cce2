package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
)

// ZapLogger adapts zap to the core.Logger port
type ZapLogger struct {
	zl    *zap.Logger
	level core.LogLevel
}

// NewZapLogger builds a zap-backed logger. Production gets JSON output with
// ISO8601 timestamps for log shipping; development gets a colored console
// encoder.
func NewZapLogger(isProduction bool) core.Logger {
	var cfg zap.Config
	if isProduction {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"

	zl, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return &ZapLogger{zl: zl, level: core.LogLevelInfo}
}

// NewDefaultLogger is the development-mode logger used before config is loaded
func NewDefaultLogger() core.Logger {
	return NewZapLogger(false)
}

// SetLevel sets the minimum level that gets emitted
func (l *ZapLogger) SetLevel(level core.LogLevel) {
	l.level = level
}

// GetLevel reports the current minimum level
func (l *ZapLogger) GetLevel() core.LogLevel {
	return l.level
}

// toZapFields flattens the port's field map into zap fields
func toZapFields(fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// Debug emits a debug-level entry when the level allows it
func (l *ZapLogger) Debug(message string, fields map[string]any) {
	if l.level > core.LogLevelDebug {
		return
	}
	l.zl.Debug(message, toZapFields(fields)...)
}

// Info emits an info-level entry when the level allows it
func (l *ZapLogger) Info(message string, fields map[string]any) {
	if l.level > core.LogLevelInfo {
		return
	}
	l.zl.Info(message, toZapFields(fields)...)
}

// Warn emits a warn-level entry when the level allows it
func (l *ZapLogger) Warn(message string, fields map[string]any) {
	if l.level > core.LogLevelWarn {
		return
	}
	l.zl.Warn(message, toZapFields(fields)...)
}

// Error emits an error-level entry when the level allows it
func (l *ZapLogger) Error(message string, fields map[string]any) {
	if l.level > core.LogLevelError {
		return
	}
	l.zl.Error(message, toZapFields(fields)...)
}

// Flush drains zap's buffers, typically on shutdown
func (l *ZapLogger) Flush() error {
	return l.zl.Sync()
}
