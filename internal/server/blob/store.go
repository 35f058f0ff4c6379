// Package blob abstracts the object storage that holds file content.
// Metadata lives in PostgreSQL; blobs are reached only through opaque
// storage keys and short-lived presigned URLs.
package blob

import "context"

// Store is the external blob-store collaborator. Uploads never pass
// through this service: callers receive a presigned PUT URL, push bytes
// directly, then register the returned key with the catalog.
type Store interface {
	// PresignUpload returns a fresh storage key and a presigned URL the
	// caller can PUT the content to.
	PresignUpload(ctx context.Context) (key string, url string, err error)
	// PresignDownload returns a time-limited GET URL for the given key.
	PresignDownload(ctx context.Context, key string) (string, error)
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}
