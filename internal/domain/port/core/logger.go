package core

// LogLevel orders logging severities from chattiest to quietest
type LogLevel int

// Log levels, ascending severity
const (
	// LogLevelDebug for per-request tracing detail
	LogLevelDebug LogLevel = iota
	// LogLevelInfo for lifecycle events worth keeping
	LogLevelInfo
	// LogLevelWarn for degraded-but-working conditions
	LogLevelWarn
	// LogLevelError for failures that need attention
	LogLevelError
)

// Logger is the structured logging port. The domain logs through it so the
// zap adapter stays in the infrastructure layer.
type Logger interface {
	// SetLevel sets the minimum level that gets emitted
	SetLevel(level LogLevel)
	// GetLevel reports the current minimum level
	GetLevel() LogLevel
	// Debug logs at debug level with structured fields
	Debug(message string, fields map[string]any)
	// Info logs at info level with structured fields
	Info(message string, fields map[string]any)
	// Warn logs at warn level with structured fields
	Warn(message string, fields map[string]any)
	// Error logs at error level with structured fields
	Error(message string, fields map[string]any)
	// Flush drains any buffered entries, typically on shutdown
	Flush() error
}
