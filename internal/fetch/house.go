package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"legisync/internal/catalog"
	"legisync/internal/config"
	"legisync/internal/logging"
	"legisync/internal/services"
)

const progressLogInterval = 32 << 20 // bytes between download progress lines

// HTTPFetcher downloads House archive videos over plain HTTP. The archive
// serves complete MP4 files, so a streamed GET into a temp file followed
// by a rename is sufficient.
type HTTPFetcher struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTPFetcher constructs a House media fetcher.
func NewHTTPFetcher(cfg *config.Config, logger *slog.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		// No overall timeout: archive files run to multiple gigabytes.
		// Cancellation comes from the request context.
		client: &http.Client{},
		logger: logging.NewComponentLogger(logger, "fetch-house"),
	}
}

// Fetch streams the item's archive URL to destPath.
func (f *HTTPFetcher) Fetch(ctx context.Context, item catalog.Item, destPath string) error {
	if alreadyFetched(destPath) {
		f.logger.Info("media already on disk; skipping download",
			logging.String(logging.FieldFilename, item.Filename),
		)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.URL, nil)
	if err != nil {
		return services.Wrap(services.ErrValidation, "fetch", "build request", item.URL, err)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "fetch", "download", item.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		marker := services.ErrTransient
		if resp.StatusCode == http.StatusNotFound {
			marker = services.ErrNotFound
		}
		return services.Wrap(marker, "fetch", "download", fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, item.URL), nil)
	}

	written, err := writeAtomic(destPath, resp.Body, func(total int64) {
		f.logger.Info("download progress",
			logging.String(logging.FieldFilename, item.Filename),
			logging.Int64("bytes", total),
		)
	})
	if err != nil {
		return services.Wrap(services.ErrTransient, "fetch", "write media", destPath, err)
	}

	f.logger.Info("download complete",
		logging.String(logging.FieldFilename, item.Filename),
		logging.Int64("bytes", written),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// writeAtomic streams r into a temp file beside path and renames it into
// place, invoking progress after every progressLogInterval bytes.
func writeAtomic(path string, r io.Reader, progress func(total int64)) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	var written, lastReport int64
	buf := make([]byte, 1<<20)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			if _, err := tmp.Write(buf[:n]); err != nil {
				cleanup()
				return written, err
			}
			written += int64(n)
			if progress != nil && written-lastReport >= progressLogInterval {
				progress(written)
				lastReport = written
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			cleanup()
			return written, readErr
		}
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return written, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return written, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return written, err
	}
	return written, nil
}
