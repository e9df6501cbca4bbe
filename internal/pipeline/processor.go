package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"legisync/internal/catalog"
	"legisync/internal/config"
	"legisync/internal/fetch"
	"legisync/internal/logging"
	"legisync/internal/objstore"
	"legisync/internal/services"
	"legisync/internal/transcribe"
)

// Stage names used in logs and failure outcomes.
const (
	StageSkipCheck  = "skip-check"
	StageFetch      = "fetch"
	StageTranscribe = "transcribe"
	StageUpload     = "upload"
	StageCommit     = "commit"
	StageCleanup    = "cleanup"
)

// Ledger is the subset of ledger operations the pipeline depends on.
type Ledger interface {
	IsProcessed(ctx context.Context, source catalog.Source, filename string) (bool, error)
	MarkProcessed(ctx context.Context, source catalog.Source, committee, recordingDate, filename string) error
}

// Processor runs one catalog item through the full pipeline: skip check,
// fetch, transcribe, upload, ledger commit, local cleanup. Failures in
// any stage before commit leave the item unrecorded so a later sweep
// retries it from whatever artifacts survive on disk; cleanup failures
// after commit are logged and otherwise ignored.
type Processor struct {
	bucket     string
	stagingDir string
	ledger     Ledger
	fetchers   map[catalog.Source]fetch.Fetcher
	engine     transcribe.Engine
	store      objstore.Store
	logger     *slog.Logger
}

// NewProcessor constructs a pipeline processor with its collaborators
// injected, so tests can substitute any stage implementation.
func NewProcessor(cfg *config.Config, logger *slog.Logger, led Ledger, fetchers map[catalog.Source]fetch.Fetcher, engine transcribe.Engine, store objstore.Store) *Processor {
	return &Processor{
		bucket:     cfg.Storage.Bucket,
		stagingDir: cfg.Paths.StagingDir,
		ledger:     led,
		fetchers:   fetchers,
		engine:     engine,
		store:      store,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Process runs item to a terminal status. It never panics across stage
// boundaries and always returns an Outcome, so a sweep can account for
// every item it attempted.
func (p *Processor) Process(ctx context.Context, item catalog.Item) Outcome {
	ctx = services.WithSource(ctx, item.Source.String())
	logger := logging.WithContext(ctx, p.logger).With(
		logging.String(logging.FieldFilename, item.Filename),
		logging.String(logging.FieldCommittee, item.Committee),
	)

	processed, err := p.ledger.IsProcessed(ctx, item.Source, item.Filename)
	if err != nil {
		return p.fail(logger, item, StageSkipCheck, err)
	}
	if processed {
		logger.Info("already processed; skipping")
		return Outcome{Item: item, Status: StatusSkipped}
	}

	fetcher, ok := p.fetchers[item.Source]
	if !ok {
		return p.fail(logger, item, StageFetch,
			services.Wrap(services.ErrConfiguration, StageFetch, "select fetcher", "no fetcher for source "+item.Source.String(), nil))
	}

	mediaPath := filepath.Join(p.stagingDir, item.Source.String(), item.Filename)
	transcriptPath := transcribe.TranscriptPath(mediaPath)

	logger.Info("fetching media")
	if err := fetcher.Fetch(services.WithStage(ctx, StageFetch), item, mediaPath); err != nil {
		return p.fail(logger, item, StageFetch, err)
	}

	logger.Info("transcribing media")
	segments, err := p.engine.Transcribe(services.WithStage(ctx, StageTranscribe), mediaPath)
	if err != nil {
		return p.fail(logger, item, StageTranscribe, err)
	}
	if err := transcribe.WriteTranscript(transcriptPath, segments); err != nil {
		return p.fail(logger, item, StageTranscribe, err)
	}
	if len(segments) > 0 {
		logger.Info("transcript written",
			logging.Int("lines", len(segments)),
			logging.String("opening", previewText(segments[0].Text)),
		)
	} else {
		logger.Warn("transcript written with no segments")
	}

	uploadCtx := services.WithStage(ctx, StageUpload)
	logger.Info("uploading artifacts", logging.String("bucket", p.bucket))
	if err := p.store.Put(uploadCtx, p.bucket, mediaPath, item.RemotePath(item.Filename)); err != nil {
		return p.fail(logger, item, StageUpload, err)
	}
	if err := p.store.Put(uploadCtx, p.bucket, transcriptPath, item.RemotePath(filepath.Base(transcriptPath))); err != nil {
		return p.fail(logger, item, StageUpload, err)
	}

	// Commit only after both artifacts are durable. A crash before this
	// point re-runs the item; a crash after it only re-runs cleanup.
	if err := p.ledger.MarkProcessed(ctx, item.Source, item.Committee, item.RecordingDate, item.Filename); err != nil {
		return p.fail(logger, item, StageCommit, err)
	}
	logger.Info("item committed to ledger")

	status := StatusCleanedUp
	for _, path := range []string{mediaPath, transcriptPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("cleanup failed; leaving local artifact",
				logging.String("path", path),
				logging.Error(err),
			)
			status = StatusCommitted
		}
	}
	return Outcome{Item: item, Status: status}
}

func (p *Processor) fail(logger *slog.Logger, item catalog.Item, stage string, err error) Outcome {
	logger.Error("item failed",
		logging.String(logging.FieldStage, stage),
		logging.Bool("retryable", services.Retryable(err)),
		logging.Error(err),
	)
	return Outcome{Item: item, Status: StatusFailed, Stage: stage, Err: err}
}

func previewText(text string) string {
	const max = 80
	text = strings.TrimSpace(text)
	if len(text) > max {
		return text[:max]
	}
	return text
}
