package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"sieve.dev/pkg/sieve/internal/adapter"
	m "sieve.dev/pkg/sieve/internal/model"
)

// Classifier turns scanned files into per-file classifications.
type Classifier interface {
	Strategy() m.Strategy
	Classify(ctx context.Context, files []m.FileRef, progress ProgressFunc) ([]m.Classification, error)
}

// ClassifyOptions tunes the classification worker pool.
type ClassifyOptions struct {
	// Threads is the number of concurrent workers; values below 1 mean 1.
	Threads int
	// ProgressStep is the reporting granularity in percent.
	ProgressStep int
}

type classifyFunc func(ctx context.Context, file m.FileRef) (m.Classification, error)

// classifyAll runs fn over files on a bounded errgroup. Each worker writes
// only its own slot, so results keep scan order. The first error cancels the
// shared context and is returned.
func classifyAll(ctx context.Context, stage m.Stage, files []m.FileRef, opts ClassifyOptions, progress ProgressFunc, fn classifyFunc) ([]m.Classification, error) {
	threads := opts.Threads
	if threads < 1 {
		threads = 1
	}

	results := make([]m.Classification, len(files))
	tracker := newProgressTracker(stage, len(files), opts.ProgressStep, progress)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, file := range files {
		i, file := i, file
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			result, err := fn(groupCtx, file)
			if err != nil {
				return err
			}

			results[i] = result
			tracker.Record(result.Invalid)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

type contentSignatureClassifier struct {
	fs     adapter.SourceFSAdapter
	hasher adapter.Hasher
	opts   ClassifyOptions
}

// NewContentSignatureClassifier groups files by content digest. Any file
// that cannot be opened or read aborts the whole classification.
func NewContentSignatureClassifier(fs adapter.SourceFSAdapter, hasher adapter.Hasher, opts ClassifyOptions) Classifier {
	return &contentSignatureClassifier{fs: fs, hasher: hasher, opts: opts}
}

func (c *contentSignatureClassifier) Strategy() m.Strategy {
	return m.StrategyContentSignature
}

func (c *contentSignatureClassifier) Classify(ctx context.Context, files []m.FileRef, progress ProgressFunc) ([]m.Classification, error) {
	slog.Info("Hashing files", "files", len(files), "algorithm", c.hasher.Algorithm(), "threads", c.opts.Threads)

	return classifyAll(ctx, m.StageClassify, files, c.opts, progress, c.signature)
}

func (c *contentSignatureClassifier) signature(ctx context.Context, file m.FileRef) (m.Classification, error) {
	path := file.Path()

	f, err := c.fs.Open(path)
	if err != nil {
		slog.Error("Cannot open file", "path", path, "error", err)
		return m.Classification{}, newError(KindIO, path, fmt.Errorf("cannot open: %w", err))
	}

	defer func() {
		_ = f.Close()
	}()

	sig, err := c.hasher.Sum(&contextReader{ctx: ctx, r: f})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return m.Classification{}, ctxErr
		}

		slog.Error("Cannot read file", "path", path, "error", err)

		return m.Classification{}, newError(KindIO, path, fmt.Errorf("cannot read: %w", err))
	}

	slog.Debug("Hashed file", "path", path, "signature", sig)

	return m.Classification{File: file, Signature: sig}, nil
}

// contextReader stops reading once ctx is done so a cancelled run does not
// finish hashing large files.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	return cr.r.Read(p)
}

type validityClassifier struct {
	decoder adapter.ImageDecoder
	opts    ClassifyOptions
}

// NewValidityClassifier flags files that do not decode as usable images.
// Decode problems are per-file outcomes and never abort the run.
func NewValidityClassifier(decoder adapter.ImageDecoder, opts ClassifyOptions) Classifier {
	return &validityClassifier{decoder: decoder, opts: opts}
}

func (c *validityClassifier) Strategy() m.Strategy {
	return m.StrategyValidity
}

func (c *validityClassifier) Classify(ctx context.Context, files []m.FileRef, progress ProgressFunc) ([]m.Classification, error) {
	slog.Info("Checking images", "files", len(files), "threads", c.opts.Threads)

	return classifyAll(ctx, m.StageClassify, files, c.opts, progress, func(_ context.Context, file m.FileRef) (m.Classification, error) {
		result := m.Classification{File: file}

		if err := c.check(file); err != nil {
			result.Invalid = true
			result.Reason = failureReason(err)

			slog.Info("Invalid image", "path", file.Path(), "reason", result.Reason)
		}

		return result, nil
	})
}

// check returns a DecodeFailure describing why file is not a valid image,
// or nil.
func (c *validityClassifier) check(file m.FileRef) (failure error) {
	path := file.Path()

	defer func() {
		if r := recover(); r != nil {
			failure = newError(KindDecode, path, fmt.Errorf("cannot load: %v", r))
		}
	}()

	if _, err := c.decoder.CanDecode(path); err != nil {
		return newError(KindDecode, path, fmt.Errorf("cannot read: %w", err))
	}

	// Diagnostics are captured per call; the last warning or error wins.
	var last *adapter.Diagnostic

	img, err := c.decoder.Decode(path, func(d adapter.Diagnostic) {
		slog.Debug("Decoder diagnostic", "path", path, "severity", d.Severity.String(), "message", d.Message)

		if d.Severity >= adapter.SeverityWarning {
			captured := d
			last = &captured
		}
	})

	switch {
	case err != nil:
		return newError(KindDecode, path, fmt.Errorf("cannot load: %w", err))
	case last != nil:
		return newError(KindDecode, path, fmt.Errorf("load failed: %s", last.Message))
	case img == nil:
		return newError(KindDecode, path, errors.New("image is null"))
	}

	if bounds := img.Bounds(); bounds.Dx() == 0 || bounds.Dy() == 0 {
		return newError(KindDecode, path, fmt.Errorf("zero image size %dx%d", bounds.Dx(), bounds.Dy()))
	}

	return nil
}

func failureReason(err error) string {
	var pipelineErr *Error
	if errors.As(err, &pipelineErr) && pipelineErr.Err != nil {
		return pipelineErr.Err.Error()
	}

	return err.Error()
}
