package objstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/storage"

	"legisync/internal/logging"
	"legisync/internal/services"
)

// GCS uploads artifacts to Google Cloud Storage using ambient application
// default credentials.
type GCS struct {
	client *storage.Client
	logger *slog.Logger
}

// NewGCS constructs a Cloud Storage backed store.
func NewGCS(ctx context.Context, logger *slog.Logger) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "upload", "create storage client", "", err)
	}
	return &GCS{
		client: client,
		logger: logging.NewComponentLogger(logger, "objstore"),
	}, nil
}

// Put uploads localPath to gs://bucket/remotePath. Objects are written
// whole; re-uploading the same path replaces the previous object, which
// keeps retried items convergent.
func (g *GCS) Put(ctx context.Context, bucket, localPath, remotePath string) error {
	if bucket == "" {
		return services.Wrap(services.ErrConfiguration, "upload", "put object", "bucket not configured", nil)
	}

	file, err := os.Open(localPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "upload", "open artifact", localPath, err)
	}
	defer file.Close()

	start := time.Now()
	writer := g.client.Bucket(bucket).Object(remotePath).NewWriter(ctx)
	written, err := io.Copy(writer, file)
	if err != nil {
		writer.Close()
		return services.Wrap(services.ErrTransient, "upload", "write object", remotePath, err)
	}
	if err := writer.Close(); err != nil {
		return services.Wrap(services.ErrTransient, "upload", "finalize object", remotePath, err)
	}

	g.logger.Info("artifact uploaded",
		logging.String("bucket", bucket),
		logging.String("object", remotePath),
		logging.Int64("bytes", written),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Close releases the underlying storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}
