package main

import (
	"context"
	"log/slog"

	"legisync/internal/catalog"
	"legisync/internal/catalog/house"
	"legisync/internal/catalog/senate"
	"legisync/internal/config"
	"legisync/internal/fetch"
	"legisync/internal/ledger"
	"legisync/internal/notifications"
	"legisync/internal/objstore"
	"legisync/internal/pipeline"
	"legisync/internal/scheduler"
	"legisync/internal/sweep"
	"legisync/internal/transcribe"
)

// buildScheduler wires the full pipeline: catalog listers, per-source
// fetchers, transcription, object store, ledger, sweep coordinator, and
// the interval scheduler on top. The returned closer releases the GCS
// client on shutdown.
func buildScheduler(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*scheduler.Scheduler, func(), error) {
	store, err := objstore.NewGCS(ctx, logger)
	if err != nil {
		return nil, nil, err
	}

	processor := newProcessor(cfg, logger, store)
	coordinator := sweep.NewCoordinator(cfg, logger, newListers(cfg, logger), processor, notifications.NewService(cfg))
	sched := scheduler.New(cfg, logger, coordinator)

	closer := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close storage client", slog.Any("error", err))
		}
	}
	return sched, closer, nil
}

func newListers(cfg *config.Config, logger *slog.Logger) []catalog.Lister {
	return []catalog.Lister{
		house.NewScraper(cfg, logger),
		senate.NewClient(cfg, logger),
	}
}

func newProcessor(cfg *config.Config, logger *slog.Logger, store objstore.Store) *pipeline.Processor {
	return pipeline.NewProcessor(cfg, logger,
		ledger.New(cfg, logger),
		map[catalog.Source]fetch.Fetcher{
			catalog.SourceHouse:  fetch.NewHTTPFetcher(cfg, logger),
			catalog.SourceSenate: fetch.NewStreamFetcher(cfg, logger),
		},
		transcribe.NewWhisperEngine(cfg, logger),
		store,
	)
}
