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
	"legisync/internal/sweep"
	"legisync/internal/transcribe"
)

func newListers(cfg *config.Config, logger *slog.Logger) []catalog.Lister {
	return []catalog.Lister{
		house.NewScraper(cfg, logger),
		senate.NewClient(cfg, logger),
	}
}

// newCoordinator wires a full sweep coordinator, returning a closer that
// releases the storage client.
func newCoordinator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sweep.Coordinator, func(), error) {
	store, err := objstore.NewGCS(ctx, logger)
	if err != nil {
		return nil, nil, err
	}

	processor := pipeline.NewProcessor(cfg, logger,
		ledger.New(cfg, logger),
		map[catalog.Source]fetch.Fetcher{
			catalog.SourceHouse:  fetch.NewHTTPFetcher(cfg, logger),
			catalog.SourceSenate: fetch.NewStreamFetcher(cfg, logger),
		},
		transcribe.NewWhisperEngine(cfg, logger),
		store,
	)
	coordinator := sweep.NewCoordinator(cfg, logger, newListers(cfg, logger), processor, notifications.NewService(cfg))

	closer := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close storage client", slog.Any("error", err))
		}
	}
	return coordinator, closer, nil
}
