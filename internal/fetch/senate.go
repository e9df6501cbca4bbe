package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"legisync/internal/catalog"
	"legisync/internal/config"
	"legisync/internal/logging"
	"legisync/internal/services"
)

// Senate recordings are published through the Castus VOD player rather
// than as direct file downloads. The player exposes HLS manifests in a
// couple of layouts depending on recording vintage, so the fetcher probes
// candidates in order and stream-copies the first one that answers.
var defaultManifestTemplates = []string{
	"https://cloud.castus.tv/vod/misenate/video/%s/play/playlist.m3u8",
	"https://cloud.castus.tv/vod/misenate/video/%s/playlist.m3u8",
}

// StreamFetcher downloads Senate videos by stream-copying an HLS manifest
// into an MP4 container with ffmpeg.
type StreamFetcher struct {
	ffmpegBinary      string
	probeTimeout      time.Duration
	manifestTemplates []string
	client            *http.Client
	commandRunner     func(ctx context.Context, name string, args ...string) error
	logger            *slog.Logger
}

// NewStreamFetcher constructs a Senate media fetcher.
func NewStreamFetcher(cfg *config.Config, logger *slog.Logger) *StreamFetcher {
	return &StreamFetcher{
		ffmpegBinary:      cfg.FFmpegBinary(),
		probeTimeout:      time.Duration(cfg.Fetch.ProbeTimeout) * time.Second,
		manifestTemplates: defaultManifestTemplates,
		client:            &http.Client{},
		logger:            logging.NewComponentLogger(logger, "fetch-senate"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (f *StreamFetcher) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	f.commandRunner = runner
}

// WithManifestTemplates overrides the candidate manifest URL templates.
func (f *StreamFetcher) WithManifestTemplates(templates []string) {
	f.manifestTemplates = templates
}

// Fetch resolves a reachable manifest for the item's remote id and
// stream-copies it to destPath.
func (f *StreamFetcher) Fetch(ctx context.Context, item catalog.Item, destPath string) error {
	if alreadyFetched(destPath) {
		f.logger.Info("media already on disk; skipping download",
			logging.String(logging.FieldFilename, item.Filename),
		)
		return nil
	}
	if item.RemoteID == "" {
		return services.Wrap(services.ErrValidation, "fetch", "resolve manifest", "item has no remote id", nil)
	}

	manifest, err := f.resolveManifest(ctx, item.RemoteID)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := f.streamCopy(ctx, manifest, destPath); err != nil {
		return err
	}
	f.logger.Info("stream copy complete",
		logging.String(logging.FieldFilename, item.Filename),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// resolveManifest probes candidate manifest URLs in order and returns the
// first one that responds with a 200. Each probe gets its own short
// timeout so one dead endpoint cannot stall the sweep.
func (f *StreamFetcher) resolveManifest(ctx context.Context, remoteID string) (string, error) {
	for _, template := range f.manifestTemplates {
		candidate := fmt.Sprintf(template, remoteID)
		if f.probe(ctx, candidate) {
			return candidate, nil
		}
		f.logger.Debug("manifest candidate unreachable", logging.String("url", candidate))
	}
	return "", services.Wrap(services.ErrNotFound, "fetch", "resolve manifest", "no reachable manifest for "+remoteID, nil)
}

func (f *StreamFetcher) probe(ctx context.Context, url string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, f.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// streamCopy remuxes the manifest into an MP4 container without
// re-encoding. ffmpeg writes to a temp file beside the destination so an
// interrupted copy never looks like a finished download.
func (f *StreamFetcher) streamCopy(ctx context.Context, manifest, destPath string) error {
	tmpPath := filepath.Join(filepath.Dir(destPath), "."+filepath.Base(destPath)+".part.mp4")
	defer os.Remove(tmpPath)

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", manifest,
		"-c", "copy",
		tmpPath,
	}
	if err := f.run(ctx, f.ffmpegBinary, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "fetch", "stream copy", manifest, err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return services.Wrap(services.ErrTransient, "fetch", "finalize media", destPath, err)
	}
	return nil
}

func (f *StreamFetcher) run(ctx context.Context, name string, args ...string) error {
	if f.commandRunner != nil {
		return f.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
