package usecase

import (
	"context"
	"log/slog"
	"time"

	"tvsignal/internal/ports"
)

// Guard serializes pipeline runs across processes (a file lock in practice).
type Guard interface {
	Acquire() error
	Release() error
}

// Scheduler wires the daily driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	guard    Guard
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, guard Guard, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{driver: driver, pipeline: pipeline, guard: guard, logger: logger}
}

// Start registers the pipeline with the provided scheduler. Each triggered
// run takes the guard first; an overlapping run is skipped, not queued.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(time.Time) {
		if s.guard != nil {
			if err := s.guard.Acquire(); err != nil {
				s.logger.Warn("skipping scheduled run", "error", err)
				return
			}
			defer s.guard.Release()
		}
		metrics := s.pipeline.Run(ctx)
		s.logger.Info("scheduled run finished", "status", metrics.Status)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
