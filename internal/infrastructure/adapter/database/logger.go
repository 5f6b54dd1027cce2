package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
)

// DatabaseLogger is a custom GORM logger that routes through the core logger
type DatabaseLogger struct {
	coreLogger    coreport.Logger
	logLevel      logger.LogLevel
	slowThreshold time.Duration
}

// NewGormDatabaseLogger creates a new GORM database logger with the core logger
func NewGormDatabaseLogger(coreLogger coreport.Logger) logger.Interface {
	return &DatabaseLogger{
		coreLogger:    coreLogger,
		logLevel:      logger.Warn,
		slowThreshold: time.Second,
	}
}

// LogMode sets the log level for the logger
func (l *DatabaseLogger) LogMode(level logger.LogLevel) logger.Interface {
	newLogger := *l
	newLogger.logLevel = level
	return &newLogger
}

// Info logs info messages
func (l *DatabaseLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Info {
		l.coreLogger.Info(msg, map[string]any{"source": "database"})
	}
}

// Warn logs warn messages
func (l *DatabaseLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Warn {
		l.coreLogger.Warn(msg, map[string]any{"source": "database"})
	}
}

// Error logs error messages
func (l *DatabaseLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Error {
		l.coreLogger.Error(msg, map[string]any{"source": "database"})
	}
}

// Trace logs SQL operations, surfacing slow queries and errors
func (l *DatabaseLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := map[string]any{
		"source":     "database",
		"elapsed_ms": elapsed.Milliseconds(),
		"rows":       rows,
		"sql":        sql,
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.logLevel >= logger.Error:
		fields["error"] = err.Error()
		l.coreLogger.Error("SQL error", fields)
	case elapsed > l.slowThreshold && l.logLevel >= logger.Warn:
		l.coreLogger.Warn("Slow SQL query", fields)
	case l.logLevel >= logger.Info:
		l.coreLogger.Debug("SQL query", fields)
	}
}
