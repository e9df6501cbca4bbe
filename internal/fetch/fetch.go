package fetch

import (
	"context"
	"os"

	"legisync/internal/catalog"
)

// Fetcher downloads one catalog item's media to a local path. Fetch is
// idempotent: a non-empty file already at destPath is reused rather than
// downloaded again, so a retried item resumes from whatever artifacts
// survive on disk.
type Fetcher interface {
	Fetch(ctx context.Context, item catalog.Item, destPath string) error
}

func alreadyFetched(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
