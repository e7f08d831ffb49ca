// Package controller provides the output adapters that report scan,
// classification and quarantine progress.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	m "sieve.dev/pkg/sieve/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeCopies StartMode = iota
	ModeImages
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode   StartMode
	dryRun bool
}

// WithCopiesMode sets the UI to duplicate-finding mode.
func WithCopiesMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeCopies
	}
}

// WithImagesMode sets the UI to invalid-image mode.
func WithImagesMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeImages
	}
}

// WithDryRun marks moves as simulated.
func WithDryRun(dryRun bool) StartOption {
	return func(c *StartConfig) {
		c.dryRun = dryRun
	}
}

func newStartConfig(options []StartOption) StartConfig {
	var cfg StartConfig
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI receives pipeline events. Implementations can use different output
// methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	DisplayScan(ctx context.Context, root m.Path, files int)
	DisplayProgress(ctx context.Context, progress m.Progress)
	DisplayGroup(ctx context.Context, group m.ResolvedGroup)
	DisplayInvalid(ctx context.Context, decision m.Decision)
	DisplayMove(ctx context.Context, result m.MoveResult)
	DisplaySummary(ctx context.Context, summary m.Summary) error
}

// NewUI returns the interactive TUI when tty is set and SimpleUI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

func progressLabel(mode StartMode, stage m.Stage) string {
	if stage == m.StageMove {
		return "Quarantining"
	}

	if mode == ModeImages {
		return "Invalid images searching"
	}

	return "Copies searching"
}
