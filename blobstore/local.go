package blobstore

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// tempDir holds in-flight writes below the store root so that List never
// observes half-written blobs. Renames out of it stay on one filesystem.
const tempDir = ".tmp"

// LocalStore implements Store on the local file system. Blob names map to
// file paths below the root directory; writes go through a temp file, fsync
// and an atomic rename.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
// The directory is created on first write.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Put writes a blob atomically.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	w, err := s.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}

// Open opens a blob for reading. A missing file surfaces as os.ErrNotExist,
// which satisfies ErrNotFound.
func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, filepath.FromSlash(name)))
}

// Create starts a streaming write into a temp file; Close fsyncs and
// renames it into place.
func (s *LocalStore) Create(_ context.Context, name string) (WritableBlob, error) {
	dir := filepath.Join(s.root, tempDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create temp dir: %w", err)
	}

	f, err := os.CreateTemp(dir, "blob-*")
	if err != nil {
		return nil, fmt.Errorf("blobstore: create temp file: %w", err)
	}

	return &localWritableBlob{
		f:     f,
		final: filepath.Join(s.root, filepath.FromSlash(name)),
	}, nil
}

// Delete removes a blob. Missing files are ignored.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List walks the root directory and returns all blob names with the given
// prefix, sorted.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	var names []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				// Root not created yet: nothing stored.
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if d.Name() == tempDir {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

// localWritableBlob implements WritableBlob backed by a temp file.
type localWritableBlob struct {
	f     *os.File
	final string
	done  bool
}

func (w *localWritableBlob) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

func (w *localWritableBlob) Close() error {
	if w.done {
		return nil
	}
	w.done = true

	if err := w.f.Sync(); err != nil {
		w.f.Close()
		os.Remove(w.f.Name())
		return fmt.Errorf("blobstore: sync temp file: %w", err)
	}
	if err := w.f.Close(); err != nil {
		os.Remove(w.f.Name())
		return fmt.Errorf("blobstore: close temp file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.final), 0o755); err != nil {
		os.Remove(w.f.Name())
		return fmt.Errorf("blobstore: create blob dir: %w", err)
	}
	if err := os.Rename(w.f.Name(), w.final); err != nil {
		os.Remove(w.f.Name())
		return fmt.Errorf("blobstore: rename temp file: %w", err)
	}
	return nil
}

func (w *localWritableBlob) Abort() error {
	if w.done {
		return nil
	}
	w.done = true

	w.f.Close()
	return os.Remove(w.f.Name())
}
