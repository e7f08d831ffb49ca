package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sieve.dev/pkg/sieve/internal/adapter"
	m "sieve.dev/pkg/sieve/internal/model"
)

// Scanner enumerates regular files under a root directory.
type Scanner interface {
	Scan(root m.Path, patterns ...string) ([]m.FileRef, error)
}

type scanner struct {
	adapter.SourceFSAdapter
}

// NewScanner creates a Scanner reading through fsAdapter.
func NewScanner(fsAdapter adapter.SourceFSAdapter) Scanner {
	return &scanner{SourceFSAdapter: fsAdapter}
}

// Scan walks root recursively and returns every regular file whose name
// matches one of patterns (all files when patterns is empty). Matching is
// case-insensitive on the file name only. Entries below root that cannot be
// read are skipped.
func (s *scanner) Scan(root m.Path, patterns ...string) ([]m.FileRef, error) {
	if err := validatePatterns(patterns); err != nil {
		return nil, newError(KindScan, root, err)
	}

	info, err := s.FileInfo(root)
	if err != nil {
		return nil, newError(KindScan, root, err)
	}

	if !info.IsDir() {
		return nil, newError(KindScan, root, errors.New("not a directory"))
	}

	var files []m.FileRef

	err = s.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if filepath.Clean(path) == filepath.Clean(string(root)) {
				return err
			}

			slog.Warn("Skipping unreadable entry", "path", path, "error", err)

			return filepath.SkipDir
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		if !matchesAny(info.Name(), patterns) {
			return nil
		}

		files = append(files, m.NewFileRef(m.Path(path), info.Size()))

		return nil
	})
	if err != nil {
		slog.Error("Failed to walk tree", "root", root, "error", err)
		return nil, newError(KindScan, root, err)
	}

	slog.Debug("Scanned tree", "root", root, "patterns", patterns, "files", len(files))

	return files, nil
}

func validatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if _, err := filepath.Match(strings.ToLower(pattern), ""); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
	}

	return nil
}

func matchesAny(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}

	lower := strings.ToLower(name)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(strings.ToLower(pattern), lower); ok {
			return true
		}
	}

	return false
}
