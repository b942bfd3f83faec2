package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when the key does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectStore saves and retrieves uploaded product images.
type ObjectStore interface {
	// Save stores r under the user's namespace and returns the storage key,
	// the number of bytes written and the sniffed content type.
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}

// Locator is implemented by stores whose public object path differs from the
// storage key, such as an S3 store writing under a key prefix.
type Locator interface {
	PublicPath(storageKey string) string
}

// SniffLen is the number of leading bytes used for content type detection.
const SniffLen = 512
