package scheduler

import (
	"context"
	"log/slog"
	"time"

	"legisync/internal/config"
	"legisync/internal/logging"
	"legisync/internal/sweep"
)

// SweepRunner executes one sweep attempt.
type SweepRunner interface {
	Run(ctx context.Context, perSourceLimit int) (sweep.Result, error)
}

// Scheduler drives sweeps on a fixed interval. It runs one sweep
// immediately on start, then one per tick until the context is
// cancelled. Sweep failures and lock skips are logged and absorbed; the
// schedule itself never stops early.
type Scheduler struct {
	interval       time.Duration
	perSourceLimit int
	runner         SweepRunner
	logger         *slog.Logger
}

// New constructs a scheduler from configuration.
func New(cfg *config.Config, logger *slog.Logger, runner SweepRunner) *Scheduler {
	return &Scheduler{
		interval:       time.Duration(cfg.Workflow.SweepInterval) * time.Second,
		perSourceLimit: cfg.Workflow.PerSourceLimit,
		runner:         runner,
		logger:         logging.NewComponentLogger(logger, "scheduler"),
	}
}

// WithInterval overrides the tick interval (for testing).
func (s *Scheduler) WithInterval(interval time.Duration) {
	s.interval = interval
}

// Run blocks until ctx is cancelled, returning ctx.Err.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		logging.Duration("interval", s.interval),
		logging.Int("per_source_limit", s.perSourceLimit),
	)

	s.sweepOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Scheduler) sweepOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	result, err := s.runner.Run(ctx, s.perSourceLimit)
	switch {
	case err != nil:
		s.logger.Error("sweep failed", logging.Error(err))
	case result.LockSkipped:
		s.logger.Info("sweep skipped; run lock held elsewhere",
			logging.String(logging.FieldSweepID, result.SweepID),
		)
	}
}
