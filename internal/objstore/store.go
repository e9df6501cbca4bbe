package objstore

import "context"

// Store uploads local artifacts to durable object storage.
type Store interface {
	// Put uploads the file at localPath to remotePath within bucket,
	// overwriting any existing object at that path.
	Put(ctx context.Context, bucket, localPath, remotePath string) error
}
