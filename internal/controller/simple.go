package controller

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	m "sieve.dev/pkg/sieve/internal/model"
)

// SimpleUI implements UI using plain line output on the command's streams.
type SimpleUI struct {
	cmd *cobra.Command
	cfg StartConfig
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.cfg = newStartConfig(options)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// DisplayScan prints the number of files found.
func (s *SimpleUI) DisplayScan(ctx context.Context, _ m.Path, files int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%d files found\n", files)
}

// DisplayProgress prints a progress line.
func (s *SimpleUI) DisplayProgress(ctx context.Context, progress m.Progress) {
	if err := ctx.Err(); err != nil {
		return
	}

	line := fmt.Sprintf("%s: %d (%d) - %d%%", progressLabel(s.cfg.mode, progress.Stage), progress.Done, progress.Total, progress.Percent)
	if s.cfg.mode == ModeImages && progress.Stage == m.StageClassify {
		line += fmt.Sprintf(", invalid images found: %d", progress.Found)
	}

	s.printf("%s\n", line)
}

// DisplayGroup prints the signature and survivor of a duplicate group.
func (s *SimpleUI) DisplayGroup(ctx context.Context, group m.ResolvedGroup) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s: %s\n", group.Signature, group.Survivor)
}

// DisplayInvalid prints why a file was flagged.
func (s *SimpleUI) DisplayInvalid(ctx context.Context, decision m.Decision) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Invalid %s: %s\n", decision.File, decision.Reason)
}

// DisplayMove prints a move outcome; failures go to stderr.
func (s *SimpleUI) DisplayMove(ctx context.Context, result m.MoveResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	switch {
	case result.Err != nil:
		s.errorf("Cannot move %s to %s: %v\n", result.File, result.Destination, result.Err)
	case s.cfg.dryRun:
		s.printf("%s would move to %s\n", result.File, result.Destination)
	default:
		s.printf("%s moved to %s\n", result.File, result.Destination)
	}
}

// DisplaySummary prints the totals table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(s.cmd.OutOrStdout(), "\n%s", renderSummaryTable(summary))

	return err
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func (s *SimpleUI) errorf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), format, args...)
}
