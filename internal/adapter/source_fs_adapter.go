// Package adapter contains the filesystem, hashing, image decoding and
// report adapters the domain layer depends on.
package adapter

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	m "sieve.dev/pkg/sieve/internal/model"
)

// SourceFSAdapter abstracts the filesystem operations used while scanning
// and quarantining. It hides direct `os` access so the workflow can be
// exercised against an in-memory filesystem.
//
//nolint:interfacebloat // The mover and scanner share one filesystem view.
type SourceFSAdapter interface {
	// Walk traverses root recursively in lexical order.
	Walk(root m.Path, fn FilepathWalkFunc) error

	// Open opens a file for reading.
	Open(path m.Path) (io.ReadCloser, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// Exists reports whether anything exists at path.
	Exists(path m.Path) (bool, error)

	// MkdirAll creates a directory and all missing parents.
	MkdirAll(path m.Path) error

	// Rename moves src to dst without copying.
	Rename(src, dst m.Path) error
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

const quarantineDirPerm = 0o750

// LocalSourceFSAdapter implements SourceFSAdapter on top of an afero
// filesystem.
type LocalSourceFSAdapter struct {
	fs afero.Fs
}

// NewLocalSourceFSAdapter constructs an adapter backed by the OS filesystem.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return NewSourceFSAdapter(afero.NewOsFs())
}

// NewSourceFSAdapter wraps an arbitrary afero filesystem.
func NewSourceFSAdapter(fs afero.Fs) *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{fs: fs}
}

// Walk iterates over everything under root, descending into subdirectories.
// A root that is a symlink to a directory is followed; links below the root
// are reported as they are.
func (a *LocalSourceFSAdapter) Walk(root m.Path, fn FilepathWalkFunc) error {
	return afero.Walk(a.fs, a.walkRoot(string(root)), func(path string, info os.FileInfo, err error) error {
		return fn(path, info, err)
	})
}

// walkRoot appends a separator to a symlinked directory root so Lstat
// resolves it. Paths reported by the walk stay under the given root.
func (a *LocalSourceFSAdapter) walkRoot(root string) string {
	lstater, ok := a.fs.(afero.Lstater)
	if !ok {
		return root
	}

	info, lstatCalled, err := lstater.LstatIfPossible(root)
	if err != nil || !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
		return root
	}

	target, err := a.fs.Stat(root)
	if err != nil || !target.IsDir() {
		return root
	}

	return root + string(filepath.Separator)
}

// Open opens the file at path for reading.
func (a *LocalSourceFSAdapter) Open(path m.Path) (io.ReadCloser, error) {
	f, err := a.fs.Open(string(path))
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}

	return f, nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return a.fs.Stat(string(path))
}

// Exists reports whether path exists.
func (a *LocalSourceFSAdapter) Exists(path m.Path) (bool, error) {
	_, err := a.fs.Stat(string(path))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %q: %w", path, err)
	}
}

// MkdirAll creates path and any missing parents.
func (a *LocalSourceFSAdapter) MkdirAll(path m.Path) error {
	if err := a.fs.MkdirAll(string(path), quarantineDirPerm); err != nil {
		return fmt.Errorf("mkdirall %q: %w", path, err)
	}

	return nil
}

// Rename relocates src to dst.
func (a *LocalSourceFSAdapter) Rename(src, dst m.Path) error {
	if err := a.fs.Rename(filepath.Clean(string(src)), filepath.Clean(string(dst))); err != nil {
		return fmt.Errorf("rename %q to %q: %w", src, dst, err)
	}

	return nil
}
