// Package scheduler re-invokes the crawl pipeline on a fixed cadence. A
// failed run is logged and swallowed so the long-lived process survives
// until the next tick.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Job is one full crawl-clean-persist cycle.
type Job func(ctx context.Context) error

// Runner invokes a Job at a fixed interval, one run at a time.
type Runner struct {
	interval time.Duration
	job      Job
	logger   *zap.Logger
}

// New builds a Runner.
func New(interval time.Duration, job Job, logger *zap.Logger) (*Runner, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be > 0, got %s", interval)
	}
	if job == nil {
		return nil, fmt.Errorf("scheduler job must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{interval: interval, job: job, logger: logger}, nil
}

// Run executes the job immediately, then once per interval, until the
// context is canceled. Job errors never stop the loop; each outcome is
// logged so every invocation is visible to operators.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.invoke(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Scheduler stopping", zap.Error(ctx.Err()))
			return ctx.Err()
		case <-ticker.C:
			r.invoke(ctx)
		}
	}
}

func (r *Runner) invoke(ctx context.Context) {
	start := time.Now()
	if err := r.job(ctx); err != nil {
		r.logger.Error("Scheduled run failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	r.logger.Info("Scheduled run succeeded", zap.Duration("elapsed", time.Since(start)))
}
