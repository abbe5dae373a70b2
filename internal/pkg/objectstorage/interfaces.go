package objectstorage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"
)

// ObjectStorage is the boundary to the object store holding uploaded PDF bytes.
type ObjectStorage interface {
	// Put stores the object under key and returns its durable public URL
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)

	// Delete removes the object under key. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds the storage key for an uploaded file. The millisecond
// timestamp prefix keeps concurrent uploads of identically named files from
// colliding.
func ObjectKey(originalFilename string, now time.Time) string {
	return fmt.Sprintf("public/%d-%s", now.UnixMilli(), path.Base(originalFilename))
}
