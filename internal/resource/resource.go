// Package resource manages the named resources of a run.
//
// Each resource is a lock file at <dir>/<name>.<kind>, created exclusively
// and held with flock(2) for the lifetime of the run, so two runs with the
// same name cannot share a runtime directory. Whichever path ends the run
// unlinks every resource exactly once.
package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	perrors "github.com/Iron-Ham/parsort/internal/errors"
	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

// Resource kinds created by the coordinator.
const (
	KindTable = "table"
	KindQueue = "queue"
	KindLock  = "lock"
)

// DefaultName is the resource name prefix used when none is configured.
const DefaultName = "parsort"

// Handle is one created resource.
type Handle struct {
	kind     string
	path     string
	file     *os.File
	registry *Registry

	once sync.Once
}

// Kind returns the resource kind.
func (h *Handle) Kind() string {
	return h.kind
}

// Path returns the lock file path.
func (h *Handle) Path() string {
	return h.path
}

// Unlink releases the lock and removes the file. Only the first call does
// any work; later calls return nil.
func (h *Handle) Unlink() error {
	var err error
	h.once.Do(func() {
		if ferr := unix.Flock(int(h.file.Fd()), unix.LOCK_UN); ferr != nil {
			err = multierr.Append(err, fmt.Errorf("funlock %s: %w", h.path, ferr))
		}
		if cerr := h.file.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close %s: %w", h.path, cerr))
		}
		if rerr := os.Remove(h.path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			err = multierr.Append(err, fmt.Errorf("remove %s: %w", h.path, rerr))
		}
		h.registry.unlinked.Add(1)
	})
	return err
}

// Registry creates and tracks the resources of one run.
type Registry struct {
	dir      string
	name     string
	mu       sync.Mutex
	handles  []*Handle
	unlinked atomic.Int64
}

// NewRegistry creates a Registry rooted at dir. An empty dir uses the
// system temporary directory and an empty name uses DefaultName.
func NewRegistry(dir, name string) *Registry {
	if dir == "" {
		dir = os.TempDir()
	}
	if name == "" {
		name = DefaultName
	}
	return &Registry{dir: dir, name: name}
}

// Path returns the lock file path for kind.
func (r *Registry) Path(kind string) string {
	return filepath.Join(r.dir, r.name+"."+kind)
}

// Create acquires the resource of the given kind. It fails with
// ErrResourceExists while another holder has it. A lock file left behind
// by a run that no longer holds it is reclaimed.
func (r *Registry) Create(kind string) (*Handle, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, perrors.NewSetupError(kind, "create", fmt.Errorf("%w: %w", perrors.ErrResourceAcquire, err))
	}

	path := r.Path(kind)
	f, err := createExclusive(path)
	if errors.Is(err, os.ErrExist) {
		if stale, serr := isStale(path); serr == nil && stale {
			if rerr := os.Remove(path); rerr == nil || errors.Is(rerr, os.ErrNotExist) {
				f, err = createExclusive(path)
			}
		}
	}
	if err != nil {
		if errors.Is(err, os.ErrExist) || errors.Is(err, unix.EWOULDBLOCK) {
			return nil, perrors.NewSetupError(kind, "create", fmt.Errorf("%w: %s", perrors.ErrResourceExists, path))
		}
		return nil, perrors.NewSetupError(kind, "create", fmt.Errorf("%w: %w", perrors.ErrResourceAcquire, err))
	}

	h := &Handle{kind: kind, path: path, file: f, registry: r}
	r.mu.Lock()
	r.handles = append(r.handles, h)
	r.mu.Unlock()
	return h, nil
}

// UnlinkAll unlinks every resource in reverse creation order. Resources
// already unlinked are skipped.
func (r *Registry) UnlinkAll() error {
	r.mu.Lock()
	handles := append([]*Handle(nil), r.handles...)
	r.mu.Unlock()

	var err error
	for i := len(handles) - 1; i >= 0; i-- {
		err = multierr.Append(err, handles[i].Unlink())
	}
	return err
}

// Held returns the number of resources created through r.
func (r *Registry) Held() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Unlinked returns how many resources have been unlinked.
func (r *Registry) Unlinked() int {
	return int(r.unlinked.Load())
}

// createExclusive creates path and takes a non-blocking exclusive flock on
// it. The file records the pid of the holder.
func createExclusive(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("flock: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("write lock file: %w", err)
	}
	return f, nil
}

// isStale reports whether nobody holds the flock on an existing lock file.
func isStale(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0600)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	err = unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if errors.Is(err, unix.EWOULDBLOCK) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("flock: %w", err)
	}
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
	return true, nil
}
