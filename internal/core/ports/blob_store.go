package ports

import (
	"context"
	"io"
)

// BlobStore abstracts image blob storage. Implementations generate a unique
// locator per Store call, so concurrent uploads of identically named files
// never collide.
type BlobStore interface {
	// Store persists the content and returns a dereferenceable locator
	// (a serving path for the local backend, an object key for S3).
	Store(ctx context.Context, content io.Reader, originalName string) (string, error)
	// Delete removes the blob behind locator. Deleting a blob that is
	// already gone is not an error.
	Delete(ctx context.Context, locator string) error
}
