package service

import (
	"context"
	"time"

	"stress-index/internal/logger"
)

type Sweeper interface {
	Sweep(ctx context.Context) (*SweepReport, error)
}

// Scheduler triggers a sweep on a fixed interval until its context ends.
type Scheduler struct {
	sweeper    Sweeper
	interval   time.Duration
	runOnStart bool
}

func NewScheduler(s Sweeper, interval time.Duration, runOnStart bool) *Scheduler {
	return &Scheduler{sweeper: s, interval: interval, runOnStart: runOnStart}
}

// Start blocks until ctx is cancelled. Sweeps never overlap.
func (s *Scheduler) Start(ctx context.Context) {
	logger.Info("scheduler.start", "interval", s.interval.String(), "run_on_start", s.runOnStart)
	if s.runOnStart {
		s.RunOnce(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("scheduler.stop")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *Scheduler) RunOnce(ctx context.Context) (*SweepReport, error) {
	report, err := s.sweeper.Sweep(ctx)
	if err != nil {
		logger.Error("sweep.failed", "err", err)
		return nil, err
	}
	if ferr := report.Err(); ferr != nil {
		logger.Warn("sweep.partial", "failed", len(report.Failures), "err", ferr)
	}
	return report, nil
}
