package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"legisync/internal/catalog"
	"legisync/internal/config"
	"legisync/internal/logging"
	"legisync/internal/notifications"
	"legisync/internal/pipeline"
	"legisync/internal/services"
)

// ItemProcessor runs one catalog item to a terminal outcome.
type ItemProcessor interface {
	Process(ctx context.Context, item catalog.Item) pipeline.Outcome
}

// SourceResult reports one chamber's share of a sweep.
type SourceResult struct {
	Source   catalog.Source
	Listed   int
	Outcomes []pipeline.Outcome
	// Err is set when the catalog listing itself failed; item-level
	// failures live in Outcomes.
	Err error
}

// Result summarizes one sweep attempt.
type Result struct {
	SweepID string
	// LockSkipped means another sweep held the run lock; nothing ran.
	LockSkipped bool
	Sources     []SourceResult
	Duration    time.Duration
}

// Counts totals the item outcomes across all sources.
func (r Result) Counts() (processed, skipped, failed int) {
	for _, source := range r.Sources {
		for _, outcome := range source.Outcomes {
			switch {
			case outcome.Status == pipeline.StatusSkipped:
				skipped++
			case outcome.Succeeded():
				processed++
			default:
				failed++
			}
		}
	}
	return processed, skipped, failed
}

// Coordinator runs sweeps: it takes the run lock, lists every catalog
// source concurrently, and feeds each source's new items through the
// pipeline. Exactly one sweep runs per machine at a time; a sweep that
// finds the lock held reports that and steps aside rather than queueing.
type Coordinator struct {
	lockPath  string
	listers   []catalog.Lister
	processor ItemProcessor
	notifier  notifications.Service
	logger    *slog.Logger
}

// NewCoordinator constructs a sweep coordinator.
func NewCoordinator(cfg *config.Config, logger *slog.Logger, listers []catalog.Lister, processor ItemProcessor, notifier notifications.Service) *Coordinator {
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	return &Coordinator{
		lockPath:  cfg.RunLockPath(),
		listers:   listers,
		processor: processor,
		notifier:  notifier,
		logger:    logging.NewComponentLogger(logger, "sweep"),
	}
}

// Run executes one sweep. perSourceLimit bounds how many new items each
// source may attempt; already-processed items do not consume the budget,
// so a backlog drains across sweeps. The run lock is advisory and held
// for the whole sweep; the kernel drops it if the process dies, so a
// crashed sweep never blocks the next one.
func (c *Coordinator) Run(ctx context.Context, perSourceLimit int) (Result, error) {
	sweepID := uuid.NewString()
	ctx = services.WithSweepID(ctx, sweepID)
	logger := logging.WithContext(ctx, c.logger)

	lock := flock.New(c.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return Result{SweepID: sweepID}, services.Wrap(services.ErrTransient, "sweep", "acquire run lock", c.lockPath, err)
	}
	if !locked {
		logger.Info("run lock held by another sweep; skipping")
		return Result{SweepID: sweepID, LockSkipped: true}, nil
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release run lock failed", logging.Error(err))
		}
	}()

	logger.Info("sweep started", logging.Int("per_source_limit", perSourceLimit))
	if err := c.notifier.NotifySweepStarted(ctx, sweepID); err != nil {
		logger.Debug("sweep start notification failed", logging.Error(err))
	}

	start := time.Now()
	results := make([]SourceResult, len(c.listers))
	var wg sync.WaitGroup
	for i, lister := range c.listers {
		wg.Add(1)
		go func(i int, lister catalog.Lister) {
			defer wg.Done()
			// A panicking worker must not take down the sibling source
			// or leave the run lock held.
			defer func() {
				if r := recover(); r != nil {
					results[i].Source = lister.Source()
					results[i].Err = fmt.Errorf("source worker panicked: %v", r)
					logger.Error("source worker panicked",
						logging.String(logging.FieldSource, lister.Source().String()),
						logging.Any("panic", r),
					)
				}
			}()
			results[i] = c.runSource(ctx, lister, perSourceLimit)
		}(i, lister)
	}
	wg.Wait()

	result := Result{SweepID: sweepID, Sources: results, Duration: time.Since(start)}
	processed, skipped, failed := result.Counts()
	logger.Info("sweep completed",
		logging.Int("processed", processed),
		logging.Int("skipped", skipped),
		logging.Int("failed", failed),
		logging.Duration("elapsed", result.Duration),
	)

	c.notifyOutcomes(ctx, result)
	return result, nil
}

func (c *Coordinator) runSource(ctx context.Context, lister catalog.Lister, perSourceLimit int) SourceResult {
	source := lister.Source()
	ctx = services.WithSource(ctx, source.String())
	logger := logging.WithContext(ctx, c.logger)

	result := SourceResult{Source: source}
	items, err := lister.List(ctx)
	if err != nil {
		logger.Error("catalog listing failed", logging.Error(err))
		result.Err = err
		return result
	}
	result.Listed = len(items)
	logger.Info("catalog listed", logging.Int("items", len(items)))

	attempted := 0
	for _, item := range items {
		if ctx.Err() != nil {
			logger.Info("sweep cancelled; stopping source")
			break
		}
		if perSourceLimit > 0 && attempted >= perSourceLimit {
			break
		}
		outcome := c.processor.Process(ctx, item)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Status != pipeline.StatusSkipped {
			attempted++
		}
	}
	return result
}

func (c *Coordinator) notifyOutcomes(ctx context.Context, result Result) {
	logger := logging.WithContext(ctx, c.logger)
	for _, source := range result.Sources {
		for _, outcome := range source.Outcomes {
			if outcome.Status != pipeline.StatusFailed {
				continue
			}
			err := c.notifier.NotifyItemFailed(ctx,
				outcome.Item.Source.String(),
				outcome.Item.Committee,
				outcome.Item.Filename,
				outcome.Stage,
				outcome.Err,
			)
			if err != nil {
				logger.Debug("item failure notification failed", logging.Error(err))
			}
		}
	}

	processed, skipped, failed := result.Counts()
	if err := c.notifier.NotifySweepCompleted(ctx, result.SweepID, processed, skipped, failed, result.Duration); err != nil {
		logger.Debug("sweep completion notification failed", logging.Error(err))
	}
}
