package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	m "sieve.dev/pkg/sieve/internal/model"
)

const (
	barPadding  = 2
	barMaxWidth = 60
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	movedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const recentLines = 5

// TUI implements UI with a Bubble Tea progress view. The view shows the
// most recent events; the full list is printed once the view closes.
type TUI struct {
	cmd *cobra.Command
	cfg StartConfig

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
	lines   []string
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd}
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.cfg = newStartConfig(options)
	t.program = tea.NewProgram(
		newProgressModel(t.cfg.mode),
		tea.WithOutput(t.cmd.OutOrStdout()),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
		tea.WithContext(ctx),
	)
	t.done = make(chan struct{})

	program, done := t.program, t.done

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Debug("Progress view stopped", "error", err)
		}
	}()

	return nil
}

// Close stops the program and waits for it to restore the terminal.
func (t *TUI) Close(_ context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done

	t.flush()
}

func (t *TUI) flush() {
	t.mu.Lock()
	lines := t.lines
	t.lines = nil
	t.mu.Unlock()

	for _, line := range lines {
		_, _ = fmt.Fprintln(t.cmd.OutOrStdout(), line)
	}
}

func (t *TUI) running() *tea.Program {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.program
}

func (t *TUI) send(msg tea.Msg) {
	if program := t.running(); program != nil {
		program.Send(msg)
	}
}

// println queues line while the view is running and prints it directly
// otherwise.
func (t *TUI) println(line string) {
	t.mu.Lock()
	program := t.program
	if program != nil {
		t.lines = append(t.lines, line)
	}
	t.mu.Unlock()

	if program == nil {
		_, _ = fmt.Fprintln(t.cmd.OutOrStdout(), line)
		return
	}

	program.Send(lineMsg(line))
}

// DisplayScan shows the number of files found.
func (t *TUI) DisplayScan(ctx context.Context, root m.Path, files int) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(scanMsg{root: root, files: files})
}

// DisplayProgress moves the progress bar.
func (t *TUI) DisplayProgress(ctx context.Context, p m.Progress) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(progressMsg(p))
}

// DisplayGroup prints the survivor of a duplicate group.
func (t *TUI) DisplayGroup(ctx context.Context, group m.ResolvedGroup) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.println(fmt.Sprintf("%s %s", labelStyle.Render(string(group.Signature)), group.Survivor))
}

// DisplayInvalid prints why a file was flagged.
func (t *TUI) DisplayInvalid(ctx context.Context, decision m.Decision) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.println(fmt.Sprintf("%s %s: %s", errorStyle.Render("invalid"), decision.File, decision.Reason))
}

// DisplayMove prints a move outcome. Failures also go to stderr so they
// survive the progress view being cleared.
func (t *TUI) DisplayMove(ctx context.Context, result m.MoveResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	if result.Err != nil {
		_, _ = fmt.Fprintf(t.cmd.ErrOrStderr(), "Cannot move %s to %s: %v\n", result.File, result.Destination, result.Err)
		return
	}

	verb := "moved to"
	if t.cfg.dryRun {
		verb = "would move to"
	}

	t.println(fmt.Sprintf("%s %s %s", result.File, movedStyle.Render(verb), result.Destination))
}

// DisplaySummary prints the totals table.
func (t *TUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	table := "\n" + strings.TrimRight(renderSummaryTable(summary), "\n")

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		t.lines = append(t.lines, table)
		return nil
	}

	_, err := fmt.Fprintln(t.cmd.OutOrStdout(), table)

	return err
}

type scanMsg struct {
	root  m.Path
	files int
}

type progressMsg m.Progress

type lineMsg string

// progressModel is the Bubble Tea model for the live progress view.
type progressModel struct {
	mode     StartMode
	root     m.Path
	files    int
	progress m.Progress
	recent   []string
	bar      progress.Model
}

func newProgressModel(mode StartMode) progressModel {
	return progressModel{
		mode: mode,
		bar:  progress.New(progress.WithDefaultGradient()),
	}
}

func (pm progressModel) Init() tea.Cmd {
	return nil
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.bar.Width = min(msg.Width-barPadding*2-4, barMaxWidth)
		if pm.bar.Width < 10 {
			pm.bar.Width = 10
		}

		return pm, nil

	case scanMsg:
		pm.root = msg.root
		pm.files = msg.files

		return pm, nil

	case progressMsg:
		pm.progress = m.Progress(msg)

		return pm, nil

	case lineMsg:
		pm.recent = append(pm.recent, string(msg))
		if len(pm.recent) > recentLines {
			pm.recent = pm.recent[len(pm.recent)-recentLines:]
		}

		return pm, nil
	}

	return pm, nil
}

func (pm progressModel) View() string {
	var b strings.Builder

	pad := strings.Repeat(" ", barPadding)

	title := "sieve - duplicate files"
	if pm.mode == ModeImages {
		title = "sieve - invalid images"
	}

	b.WriteString(pad + titleStyle.Render(title) + "\n")

	if pm.root != "" {
		fmt.Fprintf(&b, "%s%s %d files found\n", pad, labelStyle.Render(string(pm.root)), pm.files)
	}

	if pm.progress.Total > 0 {
		fmt.Fprintf(&b, "%s%s\n", pad, labelStyle.Render(progressLabel(pm.mode, pm.progress.Stage)))
		fmt.Fprintf(&b, "%s%s %d/%d\n", pad, pm.bar.ViewAs(float64(pm.progress.Percent)/100), pm.progress.Done, pm.progress.Total)

		if pm.mode == ModeImages && pm.progress.Stage == m.StageClassify {
			fmt.Fprintf(&b, "%s%s %d\n", pad, labelStyle.Render("invalid images found:"), pm.progress.Found)
		}
	}

	for _, line := range pm.recent {
		b.WriteString(pad + line + "\n")
	}

	return b.String()
}
