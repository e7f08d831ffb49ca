package domain

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"sieve.dev/pkg/sieve/internal/adapter"
	m "sieve.dev/pkg/sieve/internal/model"
)

// QuarantineDirName is the directory created under the scan root.
const QuarantineDirName = "removed"

var errDestinationExists = errors.New("destination already exists")

// QuarantineRoot returns <root>/removed.
func QuarantineRoot(root m.Path) m.Path {
	return m.Path(filepath.Join(string(root), QuarantineDirName))
}

// Destination mirrors file's position relative to root under the
// quarantine root.
func Destination(root m.Path, file m.FileRef) (m.Path, error) {
	rel, err := file.RelDir(root)
	if err != nil {
		return "", err
	}

	return m.Path(filepath.Join(string(QuarantineRoot(root)), string(rel), file.Name)), nil
}

// MoveArgs describes one quarantine batch.
type MoveArgs struct {
	Root         m.Path
	Decisions    []m.Decision
	DryRun       bool
	ProgressStep int
	Progress     ProgressFunc
	OnResult     func(m.MoveResult)
}

// Mover relocates quarantined files into the mirrored removed tree.
type Mover interface {
	EnsureNotQuarantined(root m.Path) error
	Move(ctx context.Context, args MoveArgs) ([]m.MoveResult, error)
}

type mover struct {
	adapter.SourceFSAdapter
}

// NewMover creates a Mover operating through fsAdapter.
func NewMover(fsAdapter adapter.SourceFSAdapter) Mover {
	return &mover{SourceFSAdapter: fsAdapter}
}

// EnsureNotQuarantined fails when the quarantine root already exists, so a
// previous run's contents are never merged with a new one.
func (mv *mover) EnsureNotQuarantined(root m.Path) error {
	quarantineRoot := QuarantineRoot(root)

	exists, err := mv.Exists(quarantineRoot)
	if err != nil {
		return newError(KindScan, quarantineRoot, err)
	}

	if exists {
		return newError(KindAlreadyQuarantined, quarantineRoot, errors.New("must not exist"))
	}

	return nil
}

// Move processes decisions one at a time. A failed rename is recorded and
// the batch continues; a directory that cannot be created stops the batch
// with a QuarantineError. Results gathered so far are always returned.
func (mv *mover) Move(ctx context.Context, args MoveArgs) ([]m.MoveResult, error) {
	onResult := args.OnResult
	if onResult == nil {
		onResult = func(m.MoveResult) {}
	}

	tracker := newProgressTracker(m.StageMove, len(args.Decisions), args.ProgressStep, args.Progress)
	results := make([]m.MoveResult, 0, len(args.Decisions))

	for _, decision := range args.Decisions {
		if decision.Disposition != m.Quarantine {
			tracker.Advance()
			continue
		}

		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := mv.moveOne(args.Root, decision.File, args.DryRun)
		if err != nil {
			return results, err
		}

		results = append(results, result)
		onResult(result)
		tracker.Advance()
	}

	return results, nil
}

func (mv *mover) moveOne(root m.Path, file m.FileRef, dryRun bool) (m.MoveResult, error) {
	src := file.Path()
	result := m.MoveResult{File: file}

	dst, err := Destination(root, file)
	if err != nil {
		result.Err = newError(KindMove, src, err)
		return result, nil
	}

	result.Destination = dst

	if dryRun {
		slog.Info("Would quarantine file", "source", src, "destination", dst)
		return result, nil
	}

	dstDir := m.Path(filepath.Dir(string(dst)))
	if err := mv.MkdirAll(dstDir); err != nil {
		slog.Error("Cannot create quarantine directory", "dir", dstDir, "file", file.Name, "error", err)
		return result, newError(KindQuarantine, dstDir, err)
	}

	exists, err := mv.Exists(dst)
	if err == nil && exists {
		err = errDestinationExists
	}

	if err == nil {
		err = mv.Rename(src, dst)
	}

	if err != nil {
		slog.Error("Cannot move file", "source", src, "destination", dst, "error", err)
		result.Err = newError(KindMove, src, err)

		return result, nil
	}

	slog.Info("Quarantined file", "source", src, "destination", dst)

	return result, nil
}
