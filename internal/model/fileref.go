// Package model defines the data structures shared by the scan, classify,
// resolve and move stages.
package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// FileRef identifies one regular file on disk by its directory and name.
// Values are never mutated; once the mover relocates the underlying file the
// reference is stale.
type FileRef struct {
	Dir  Path
	Name string
	Size int64 // captured at scan time, used for reporting only
}

// NewFileRef splits a full file path into a FileRef.
func NewFileRef(path Path, size int64) FileRef {
	dir, name := filepath.Split(filepath.Clean(string(path)))

	return FileRef{
		Dir:  Path(filepath.Clean(dir)),
		Name: name,
		Size: size,
	}
}

// Path returns the full path of the referenced file.
func (f FileRef) Path() Path {
	return Path(filepath.Join(string(f.Dir), f.Name))
}

// RelDir returns the file's directory relative to root. The root itself maps
// to ".". Directories outside root are rejected.
func (f FileRef) RelDir(root Path) (Path, error) {
	rel, err := filepath.Rel(filepath.Clean(string(root)), filepath.Clean(string(f.Dir)))
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", f.Dir, err)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside of %s", f.Dir, root)
	}

	return Path(rel), nil
}

func (f FileRef) String() string {
	return string(f.Path())
}
