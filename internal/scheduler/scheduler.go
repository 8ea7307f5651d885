// Package scheduler runs the report pipeline on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"updatewatch/internal/model"
	"updatewatch/internal/pipeline"
)

// Runner is the interface for executing one pipeline run.
type Runner interface {
	RunOnce(ctx context.Context, opts pipeline.Options) ([]model.PublishResult, model.RunSummary)
}

// Scheduler invokes the pipeline immediately and then on every tick until
// the context is cancelled.
type Scheduler struct {
	runner Runner
	opts   pipeline.Options
	log    *slog.Logger
	tick   time.Duration
}

// New creates a Scheduler with the default 6-hour interval.
func New(runner Runner, opts pipeline.Options, log *slog.Logger) *Scheduler {
	return &Scheduler{
		runner: runner,
		opts:   opts,
		log:    log,
		tick:   6 * time.Hour,
	}
}

// SetTickInterval overrides the default run interval.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	s.tick = d
}

// Run starts the scheduler loop, blocking until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	_, summary := s.runner.RunOnce(ctx, s.opts)
	if summary.Failed > 0 {
		s.log.Warn("scheduled run had failures", "failed", summary.Failed)
	}
}
