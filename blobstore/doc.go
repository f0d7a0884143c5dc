// Package blobstore provides storage abstraction for bitkit's snapshots.
//
// Store is the interface for reading and writing data blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests and ephemeral state
//   - LocalStore: local filesystem with atomic temp-file renames
//   - RateLimitedStore: byte-throttling wrapper around any Store
//   - s3.Store: Amazon S3 with streamed parallel uploads
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Custom Implementations
//
// Implement the Store interface to support custom storage backends:
//
//	type Store interface {
//	    Put(ctx, name, data) error               // Atomic write
//	    Open(ctx, name) (io.ReadCloser, error)   // Open for reading
//	    Create(ctx, name) (WritableBlob, error)  // Create for streaming writes
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Missing blobs are reported with an error satisfying
// errors.Is(err, ErrNotFound).
package blobstore
