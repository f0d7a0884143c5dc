package blobstore

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// RateLimitedStore wraps a Store with byte-level IO throttling. Reads and
// writes share one limiter, so total throughput against the backing store
// stays below the configured rate.
type RateLimitedStore struct {
	inner   Store
	limiter *rate.Limiter
}

// NewRateLimitedStore throttles all IO through inner to bytesPerSec.
// A non-positive rate disables throttling.
func NewRateLimitedStore(inner Store, bytesPerSec int64) *RateLimitedStore {
	var limiter *rate.Limiter
	if bytesPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(bytesPerSec), int(bytesPerSec))
	}
	return &RateLimitedStore{inner: inner, limiter: limiter}
}

// wait blocks until the limiter allows n more bytes. Requests larger than
// the burst are fed through in burst-sized chunks.
func (s *RateLimitedStore) wait(ctx context.Context, n int) error {
	if s.limiter == nil || n <= 0 {
		return nil
	}
	burst := s.limiter.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := s.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// Put writes a blob atomically, charging the full payload up front.
func (s *RateLimitedStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.wait(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// Open opens a blob for reading; bytes are charged as they are read.
func (s *RateLimitedStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &throttledReader{store: s, ctx: ctx, inner: rc}, nil
}

// Create starts a streaming write; bytes are charged as they are written.
func (s *RateLimitedStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &throttledWriter{store: s, ctx: ctx, inner: w}, nil
}

// Delete removes a blob. Metadata operations are not throttled.
func (s *RateLimitedStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List returns the names of all blobs with the given prefix, sorted.
func (s *RateLimitedStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// throttledReader charges the limiter after each read. The context comes
// from Open, since io.Reader carries none.
type throttledReader struct {
	store *RateLimitedStore
	ctx   context.Context
	inner io.ReadCloser
}

func (r *throttledReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	if n > 0 {
		if werr := r.store.wait(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

func (r *throttledReader) Close() error {
	return r.inner.Close()
}

type throttledWriter struct {
	store *RateLimitedStore
	ctx   context.Context
	inner WritableBlob
}

func (w *throttledWriter) Write(p []byte) (int, error) {
	if err := w.store.wait(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.inner.Write(p)
}

func (w *throttledWriter) Close() error {
	return w.inner.Close()
}

func (w *throttledWriter) Abort() error {
	return w.inner.Abort()
}
