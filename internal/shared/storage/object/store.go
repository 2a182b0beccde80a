package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open and Delete for keys with no stored blob.
var ErrNotFound = errors.New("object not found")

// BlobStore is the contract for storing and retrieving uploaded file blobs.
// Put returns the storage key the blob lives under and a URL it can be
// fetched from later.
type BlobStore interface {
	Put(ctx context.Context, fileName string, contentType string, r io.Reader) (key string, url string, sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
