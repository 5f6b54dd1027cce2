package time

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
)

// RealTimeProvider backs the core.TimeProvider port with the system clock.
// It is the production implementation; tests substitute a pinned clock so
// due dates and overdue classification are deterministic.
type RealTimeProvider struct{}

// NewRealTimeProvider returns the system-clock time provider
func NewRealTimeProvider() core.TimeProvider {
	return &RealTimeProvider{}
}

// Now returns the current wall-clock time
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Since reports how much time has passed since t
func (p *RealTimeProvider) Since(t time.Time) core.Duration {
	return core.Duration(time.Since(t))
}

// Until reports how much time remains before t
func (p *RealTimeProvider) Until(t time.Time) core.Duration {
	return core.Duration(time.Until(t))
}

// WithTimeout derives a context canceled once the timeout elapses
func (p *RealTimeProvider) WithTimeout(ctx context.Context, timeout core.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}
