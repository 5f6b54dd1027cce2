package logger

import (
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
)

// NoopLogger satisfies core.Logger and discards everything. It stands in
// wherever a component requires a logger but none is wanted.
type NoopLogger struct {
	level core.LogLevel
}

// NewNoopLogger creates a logger that discards all output
func NewNoopLogger() core.Logger {
	return &NoopLogger{level: core.LogLevelInfo}
}

// SetLevel records the level; it has no observable effect
func (l *NoopLogger) SetLevel(level core.LogLevel) {
	l.level = level
}

// GetLevel reports the recorded level
func (l *NoopLogger) GetLevel() core.LogLevel {
	return l.level
}

// Debug discards the entry
func (l *NoopLogger) Debug(message string, fields map[string]any) {}

// Info discards the entry
func (l *NoopLogger) Info(message string, fields map[string]any) {}

// Warn discards the entry
func (l *NoopLogger) Warn(message string, fields map[string]any) {}

// Error discards the entry
func (l *NoopLogger) Error(message string, fields map[string]any) {}

// Flush is a no-op
func (l *NoopLogger) Flush() error {
	return nil
}
