package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/bitkit"
	"github.com/hupe1980/bitkit/blobstore"
)

var (
	// ErrNoSnapshot is returned when no version has been committed for a
	// snapshot name.
	ErrNoSnapshot = errors.New("snapshot: no snapshot")

	// ErrConcurrentModification is returned when another writer committed
	// the same version first.
	ErrConcurrentModification = errors.New("snapshot: concurrent modification")
)

// PointerStore tracks the latest committed version per snapshot name.
//
// Commit must be atomic per (name, version): when two writers race on the
// same version, exactly one wins and the other receives
// ErrConcurrentModification.
type PointerStore interface {
	// Latest returns the newest committed version, or ErrNoSnapshot.
	Latest(ctx context.Context, name string) (uint64, error)

	// Commit records version as the latest for name.
	Commit(ctx context.Context, name string, version uint64) error
}

// Manager stores versioned snapshots in a blob store.
//
// Objects are laid out as "<name>/v<version>.bks" with a pointer tracking
// the latest committed version. Writers that crash between blob write and
// commit leave an orphan object behind; Prune removes those along with old
// versions.
type Manager struct {
	store    blobstore.Store
	pointers PointerStore
	opts     options
}

// NewManager creates a Manager on top of store.
//
// Without WithPointerStore, the latest version is tracked in a
// "<name>/CURRENT" blob in the same store. That pointer is atomic only as
// far as the store's Put is; use a transactional PointerStore
// (e.g. DynamoDB) when multiple writers race.
func NewManager(store blobstore.Store, opts ...Option) *Manager {
	o := applyOptions(opts)

	pointers := o.pointers
	if pointers == nil {
		pointers = &currentPointer{store: store}
	}

	return &Manager{
		store:    store,
		pointers: pointers,
		opts:     o,
	}
}

const objectSuffix = ".bks"

func objectName(name string, version uint64) string {
	return fmt.Sprintf("%s/v%08d%s", name, version, objectSuffix)
}

// Save writes ba as the next version of name and commits it. It returns
// the committed version, numbered from 1.
func (m *Manager) Save(ctx context.Context, name string, ba *bitkit.BitArray) (version uint64, err error) {
	start := time.Now()
	var bytesOut int64

	defer func() {
		m.opts.metrics.RecordSave(bytesOut, time.Since(start), err)
		m.opts.logger.LogSave(ctx, name, version, bytesOut, err)
	}()

	latest, err := m.pointers.Latest(ctx, name)
	if err != nil && !errors.Is(err, ErrNoSnapshot) {
		return 0, fmt.Errorf("snapshot: read latest version: %w", err)
	}
	version = latest + 1

	w, err := m.store.Create(ctx, objectName(name, version))
	if err != nil {
		return 0, fmt.Errorf("snapshot: create blob: %w", err)
	}

	cw := &countingWriter{w: w}
	if err := write(cw, ba, m.opts); err != nil {
		w.Abort()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("snapshot: commit blob: %w", err)
	}
	bytesOut = cw.n

	if err := m.pointers.Commit(ctx, name, version); err != nil {
		return 0, fmt.Errorf("snapshot: commit version %d: %w", version, err)
	}
	return version, nil
}

// Load reads the latest committed version of name.
func (m *Manager) Load(ctx context.Context, name string) (*bitkit.BitArray, error) {
	version, err := m.pointers.Latest(ctx, name)
	if err != nil {
		return nil, err
	}
	return m.LoadVersion(ctx, name, version)
}

// LoadVersion reads one specific version of name.
func (m *Manager) LoadVersion(ctx context.Context, name string, version uint64) (ba *bitkit.BitArray, err error) {
	start := time.Now()
	var bytesIn int64

	defer func() {
		m.opts.metrics.RecordLoad(bytesIn, time.Since(start), err)
		m.opts.logger.LogLoad(ctx, name, version, err)
	}()

	rc, err := m.store.Open(ctx, objectName(name, version))
	if err != nil {
		return nil, fmt.Errorf("snapshot: open version %d: %w", version, err)
	}
	defer rc.Close()

	cr := &countingReader{r: rc}
	ba, err = read(cr, m.opts)
	if err != nil {
		return nil, err
	}
	bytesIn = cr.n
	return ba, nil
}

// Versions returns all stored versions of name in ascending order,
// including uncommitted orphans.
func (m *Manager) Versions(ctx context.Context, name string) ([]uint64, error) {
	names, err := m.store.List(ctx, name+"/")
	if err != nil {
		return nil, fmt.Errorf("snapshot: list versions: %w", err)
	}

	var versions []uint64
	for _, n := range names {
		if v, ok := parseVersion(name, n); ok {
			versions = append(versions, v)
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions, nil
}

func parseVersion(name, object string) (uint64, bool) {
	rest, ok := strings.CutPrefix(object, name+"/v")
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, objectSuffix)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Delete removes one version of name. The pointer is left alone, so
// deleting the latest committed version makes Load fail until the next
// Save.
func (m *Manager) Delete(ctx context.Context, name string, version uint64) (err error) {
	defer func() { m.opts.metrics.RecordDelete(err) }()

	if err := m.store.Delete(ctx, objectName(name, version)); err != nil {
		return fmt.Errorf("snapshot: delete version %d: %w", version, err)
	}
	return nil
}

// Prune deletes all but the newest keep versions of name. keep is clamped
// to 1 so the latest snapshot always survives. Deletes run concurrently.
func (m *Manager) Prune(ctx context.Context, name string, keep int) (err error) {
	var removed int

	defer func() {
		m.opts.metrics.RecordPrune(removed, err)
		m.opts.logger.LogPrune(ctx, name, removed, err)
	}()

	if keep < 1 {
		keep = 1
	}

	versions, err := m.Versions(ctx, name)
	if err != nil {
		return err
	}
	if len(versions) <= keep {
		return nil
	}
	victims := versions[:len(versions)-keep]

	g, ctx := errgroup.WithContext(ctx)
	// Limit concurrency to avoid FD exhaustion or rate limits
	g.SetLimit(16)

	for _, v := range victims {
		g.Go(func() error {
			return m.store.Delete(ctx, objectName(name, v))
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("snapshot: prune: %w", err)
	}
	removed = len(victims)
	return nil
}

// SaveAll persists a batch of snapshots concurrently. It returns the first
// error; snapshots already committed stay committed.
func (m *Manager) SaveAll(ctx context.Context, arrays map[string]*bitkit.BitArray) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(16)

	for name, ba := range arrays {
		g.Go(func() error {
			_, err := m.Save(ctx, name, ba)
			return err
		})
	}
	return g.Wait()
}

// currentPointer keeps the latest version in a "<name>/CURRENT" blob.
type currentPointer struct {
	store blobstore.Store
}

func (p *currentPointer) Latest(ctx context.Context, name string) (uint64, error) {
	rc, err := p.store.Open(ctx, name+"/CURRENT")
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return 0, ErrNoSnapshot
		}
		return 0, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return 0, fmt.Errorf("snapshot: read pointer: %w", err)
	}

	version, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("snapshot: parse pointer %q: %w", data, err)
	}
	return version, nil
}

func (p *currentPointer) Commit(ctx context.Context, name string, version uint64) error {
	data := strconv.FormatUint(version, 10) + "\n"
	return p.store.Put(ctx, name+"/CURRENT", []byte(data))
}

// countingWriter tracks bytes written for metrics and logging.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// countingReader tracks bytes read for metrics.
type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
