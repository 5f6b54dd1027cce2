package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	coreport "github.com/amirhossein-jamali/lab-lending/internal/domain/port/core"
)

// OverdueSweeper marks open transactions past their due date as overdue
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context) (int, error)
}

// Scheduler runs the periodic overdue sweep. Overdue is also computed at
// read time, so the sweep only persists the state and fires notifications.
type Scheduler struct {
	cron    *cron.Cron
	sweeper OverdueSweeper
	logger  coreport.Logger
	timeout time.Duration
}

// NewScheduler creates a scheduler and registers the overdue sweep at the
// given cron spec
func NewScheduler(sweeper OverdueSweeper, sweepSpec string, sweepTimeout time.Duration, logger coreport.Logger) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
	)

	s := &Scheduler{
		cron:    c,
		sweeper: sweeper,
		logger:  logger,
		timeout: sweepTimeout,
	}

	if _, err := c.AddFunc(sweepSpec, s.runOverdueSweep); err != nil {
		logger.Error("Failed to register overdue sweep job", map[string]any{
			"spec":  sweepSpec,
			"error": err.Error(),
		})
		return nil, err
	}

	logger.Info("Overdue sweep job registered", map[string]any{"spec": sweepSpec})
	return s, nil
}

func (s *Scheduler) runOverdueSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	marked, err := s.sweeper.SweepOverdue(ctx)
	if err != nil {
		s.logger.Error("Overdue sweep failed", map[string]any{"error": err.Error()})
		return
	}

	if marked > 0 {
		s.logger.Info("Overdue sweep completed", map[string]any{"marked": marked})
	} else {
		s.logger.Debug("Overdue sweep completed, nothing to mark", nil)
	}
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", nil)
}

// Stop gracefully stops the scheduler, waiting for a running sweep to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped", nil)
}
