// Package workspace manages the per-job scratch directories that hold
// extracted and rendered frames.
//
// Each workspace lives under the configured root as asciify-<job id> and is
// held with an exclusive file lock for the lifetime of the job, so stale
// cleanup never removes a directory that a running job still owns.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"asciify/internal/services"
)

const (
	// DirPrefix marks directories created by Create.
	DirPrefix = "asciify-"
	lockName  = ".lock"
	srcDir    = "src"
	outDir    = "out"
)

// ErrInUse is returned when another job already holds the workspace.
var ErrInUse = errors.New("workspace in use")

// Workspace is a scratch directory exclusively owned by one job.
type Workspace struct {
	Path string

	lock      *flock.Flock
	closeOnce sync.Once
	closeErr  error
}

// NewJobID returns a fresh job identifier.
func NewJobID() string {
	return uuid.NewString()
}

// Create makes root/asciify-<jobID> with src/ and out/ subdirectories and
// locks it.
func Create(root, jobID string) (*Workspace, error) {
	if jobID == "" {
		jobID = NewJobID()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrIO, "workspace", "create root", root, err)
	}
	path := filepath.Join(root, DirPrefix+jobID)
	if err := os.Mkdir(path, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, services.Wrap(services.ErrIO, "workspace", "create", path, ErrInUse)
		}
		return nil, services.Wrap(services.ErrIO, "workspace", "create", path, err)
	}

	lock := flock.New(filepath.Join(path, lockName))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		_ = os.RemoveAll(path)
		if err == nil {
			err = ErrInUse
		}
		return nil, services.Wrap(services.ErrIO, "workspace", "lock", path, err)
	}

	ws := &Workspace{Path: path, lock: lock}
	for _, dir := range []string{ws.SourceDir(), ws.OutputDir()} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			_ = ws.Close()
			return nil, services.Wrap(services.ErrIO, "workspace", "create", dir, err)
		}
	}
	return ws, nil
}

// SourceDir holds extracted source frames.
func (w *Workspace) SourceDir() string { return filepath.Join(w.Path, srcDir) }

// OutputDir holds rendered frames.
func (w *Workspace) OutputDir() string { return filepath.Join(w.Path, outDir) }

// Join returns a path inside the workspace.
func (w *Workspace) Join(elem ...string) string {
	return filepath.Join(append([]string{w.Path}, elem...)...)
}

// SourceFrame returns the path of the 1-based source frame index.
func (w *Workspace) SourceFrame(index int) string {
	return filepath.Join(w.SourceDir(), FrameName(index))
}

// OutputFrame returns the path of the 1-based rendered frame index.
func (w *Workspace) OutputFrame(index int) string {
	return filepath.Join(w.OutputDir(), FrameName(index))
}

// FrameName is the file name of the 1-based frame index.
func FrameName(index int) string {
	return fmt.Sprintf("frame_%06d.png", index)
}

// Close releases the lock and removes the workspace. Safe to call more than
// once; later calls return the first result.
func (w *Workspace) Close() error {
	if w == nil {
		return nil
	}
	w.closeOnce.Do(func() {
		var errs []error
		if err := w.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("unlock: %w", err))
		}
		if err := os.RemoveAll(w.Path); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", w.Path, err))
		}
		w.closeErr = errors.Join(errs...)
	})
	return w.closeErr
}
