package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"sieve.dev/pkg/sieve/internal/adapter"
	"sieve.dev/pkg/sieve/internal/controller"
	m "sieve.dev/pkg/sieve/internal/model"
)

// DefaultImagePatterns is used when no name filter is given for the image
// check.
var DefaultImagePatterns = []string{"*.jpg"}

// RunArgs holds the options shared by every run.
type RunArgs struct {
	Root         m.Path
	Threads      int
	DryRun       bool
	ProgressStep int
	Report       m.Path
}

// CopiesArgs configures a duplicate-finding run.
type CopiesArgs struct {
	RunArgs
	HashAlgorithm string
}

// ImagesArgs configures an invalid-image run.
type ImagesArgs struct {
	RunArgs
	Patterns        []string
	StrictExtension bool
}

// Workflow runs the scan, classify, resolve and move pipeline.
type Workflow interface {
	FindCopies(ctx context.Context, args CopiesArgs) (m.Summary, error)
	FindInvalidImages(ctx context.Context, args ImagesArgs) (m.Summary, error)
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	Scanner
	Mover
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		Scanner:         NewScanner(fsAdapter),
		Mover:           NewMover(fsAdapter),
	}
}

// FindCopies quarantines every duplicate except one survivor per group.
func (w *workflow) FindCopies(ctx context.Context, args CopiesArgs) (m.Summary, error) {
	hasher, err := adapter.NewHasher(args.HashAlgorithm)
	if err != nil {
		return m.Summary{}, err
	}

	classifier := NewContentSignatureClassifier(w.SourceFSAdapter, hasher, classifyOptions(args.RunArgs))

	return w.run(ctx, args.RunArgs, classifier, nil, controller.WithCopiesMode())
}

// FindInvalidImages quarantines every file that does not decode as an image.
func (w *workflow) FindInvalidImages(ctx context.Context, args ImagesArgs) (m.Summary, error) {
	patterns := args.Patterns
	if len(patterns) == 0 {
		patterns = DefaultImagePatterns
	}

	decoder := adapter.NewLocalImageDecoder(w.SourceFSAdapter, adapter.WithStrictExtension(args.StrictExtension))
	classifier := NewValidityClassifier(decoder, classifyOptions(args.RunArgs))

	return w.run(ctx, args.RunArgs, classifier, patterns, controller.WithImagesMode())
}

func classifyOptions(args RunArgs) ClassifyOptions {
	return ClassifyOptions{Threads: args.Threads, ProgressStep: args.ProgressStep}
}

// NormalizeRoot cleans root and strips trailing separators.
func NormalizeRoot(root m.Path) (m.Path, error) {
	trimmed := strings.TrimSpace(string(root))
	if trimmed == "" {
		return "", newError(KindScan, root, errors.New("root path is empty"))
	}

	return m.Path(filepath.Clean(trimmed)), nil
}

func (w *workflow) run(ctx context.Context, args RunArgs, classifier Classifier, patterns []string, mode controller.StartOption) (m.Summary, error) {
	root, err := NormalizeRoot(args.Root)
	if err != nil {
		return m.Summary{}, err
	}

	summary := m.Summary{Root: root, Strategy: classifier.Strategy(), DryRun: args.DryRun}
	report := m.RunReport{}

	if err := w.Start(ctx, mode, controller.WithDryRun(args.DryRun)); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return summary, err
	}

	defer w.Close(ctx)

	if err := w.EnsureNotQuarantined(root); err != nil {
		slog.Error("Quarantine precondition failed", "root", root, "error", err)
		return summary, err
	}

	files, err := w.Scan(root, patterns...)
	if err != nil {
		return summary, fmt.Errorf("scan: %w", err)
	}

	summary.FilesFound = len(files)
	w.DisplayScan(ctx, root, len(files))

	results, err := classifier.Classify(ctx, files, func(p m.Progress) {
		w.DisplayProgress(ctx, p)
	})
	if err != nil {
		slog.Error("Classification failed", "strategy", classifier.Strategy(), "error", err)
		return summary, fmt.Errorf("classify: %w", err)
	}

	resolution := Resolve(classifier.Strategy(), results)
	report.Groups = resolution.Groups
	report.Decisions = resolution.Decisions()
	summary.Groups = len(resolution.Groups)

	for _, group := range resolution.Groups {
		w.DisplayGroup(ctx, group)
	}

	if classifier.Strategy() == m.StrategyValidity {
		summary.Invalid = len(resolution.Quarantine)
		report.Invalid = resolution.Quarantine

		for _, decision := range resolution.Quarantine {
			w.DisplayInvalid(ctx, decision)
		}
	}

	slog.Info("Resolved dispositions", "groups", summary.Groups, "quarantine", len(resolution.Quarantine))

	moves, moveErr := w.Move(ctx, MoveArgs{
		Root:         root,
		Decisions:    resolution.Quarantine,
		DryRun:       args.DryRun,
		ProgressStep: args.ProgressStep,
		Progress: func(p m.Progress) {
			w.DisplayProgress(ctx, p)
		},
		OnResult: func(result m.MoveResult) {
			w.DisplayMove(ctx, result)
		},
	})

	report.Moves = moves
	tally(&summary, moves)
	report.Summary = summary

	if err := w.saveReport(args.Report, report); err != nil {
		return summary, err
	}

	if moveErr != nil {
		slog.Error("Quarantine aborted", "moved", summary.Moved, "error", moveErr)
		return summary, fmt.Errorf("quarantine: %w", moveErr)
	}

	if err := w.DisplaySummary(ctx, summary); err != nil {
		return summary, fmt.Errorf("display: %w", err)
	}

	return summary, nil
}

func tally(summary *m.Summary, moves []m.MoveResult) {
	for _, move := range moves {
		if !move.Moved() {
			summary.Failed++
			continue
		}

		summary.Moved++
		summary.BytesMoved += move.File.Size
	}
}

func (w *workflow) saveReport(path m.Path, report m.RunReport) error {
	if path == "" {
		return nil
	}

	if err := w.SaveReport(path, report); err != nil {
		slog.Error("Failed to save report", "path", path, "error", err)
		return fmt.Errorf("save report: %w", err)
	}

	slog.Info("Saved report", "path", path)

	return nil
}
