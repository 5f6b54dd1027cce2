package notifier

import (
	"context"

	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/notification"
)

// LogEmitter writes notifications to the application log. Used when no
// Redis endpoint is configured.
type LogEmitter struct {
	logger coreport.Logger
}

// NewLogEmitter creates a log-backed notification emitter
func NewLogEmitter(logger coreport.Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

// Emit logs the notification
func (e *LogEmitter) Emit(_ context.Context, n notification.Notification) error {
	e.logger.Info("Notification emitted", map[string]any{
		"type":           n.Type,
		"message":        n.Message,
		"transaction_id": n.TransactionID,
		"user_id":        n.UserID,
	})
	return nil
}
