package entity

import (
	"context"
	"time"

	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
)

// fakeClock is a TimeProvider pinned to a fixed instant
type fakeClock struct {
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Since(t time.Time) coreport.Duration {
	return coreport.Duration(c.now.Sub(t))
}

func (c *fakeClock) Until(t time.Time) coreport.Duration {
	return coreport.Duration(t.Sub(c.now))
}

func (c *fakeClock) WithTimeout(ctx context.Context, timeout coreport.Duration) (context.Context, context.CancelFunc) {
	return context.WithCancel(ctx)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
