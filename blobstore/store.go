package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for accessing immutable data blobs (snapshots,
// pointers). Implementations must be safe for concurrent use.
type Store interface {
	// Put writes a blob atomically: readers see either the previous
	// content or all of data, never a torn write.
	Put(ctx context.Context, name string, data []byte) error

	// Open opens a blob for sequential reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Create starts a streaming write. The blob becomes visible on Close;
	// Abort discards everything written so far.
	Create(ctx context.Context, name string) (WritableBlob, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all blobs with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// WritableBlob is a streaming write handle returned by Store.Create.
type WritableBlob interface {
	io.Writer

	// Close commits the blob.
	Close() error

	// Abort discards the blob. Calling Abort after Close is a no-op.
	Abort() error
}
