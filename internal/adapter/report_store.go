package adapter

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
	m "sieve.dev/pkg/sieve/internal/model"
)

const reportFilePerm = 0o640

// ReportStore persists the record of a run so quarantined files can be moved
// back by hand. LoadReport reads a saved record back.
type ReportStore interface {
	SaveReport(path m.Path, report m.RunReport) error
	LoadReport(path m.Path) (ReportFile, error)
}

// ReportFile is the on-disk YAML shape of a run report.
type ReportFile struct {
	Root         string           `yaml:"root"`
	Strategy     string           `yaml:"strategy"`
	DryRun       bool             `yaml:"dry_run"`
	Summary      ReportSummary    `yaml:"summary"`
	Groups       []ReportGroup    `yaml:"groups,omitempty"`
	Invalid      []ReportEntry    `yaml:"invalid,omitempty"`
	Dispositions []ReportDecision `yaml:"dispositions,omitempty"`
	Moves        []ReportMove     `yaml:"moves,omitempty"`
}

// ReportSummary holds the run totals.
type ReportSummary struct {
	FilesFound int   `yaml:"files_found"`
	Groups     int   `yaml:"groups"`
	Invalid    int   `yaml:"invalid"`
	Moved      int   `yaml:"moved"`
	Failed     int   `yaml:"failed"`
	BytesMoved int64 `yaml:"bytes_moved"`
}

// ReportGroup is one duplicate group.
type ReportGroup struct {
	Signature   string   `yaml:"signature"`
	Survivor    string   `yaml:"survivor"`
	Quarantined []string `yaml:"quarantined"`
}

// ReportEntry is one file flagged invalid.
type ReportEntry struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason,omitempty"`
}

// ReportDecision is the disposition resolved for one file.
type ReportDecision struct {
	Path        string `yaml:"path"`
	Disposition string `yaml:"disposition"`
	Reason      string `yaml:"reason,omitempty"`
}

// ReportMove is one attempted relocation.
type ReportMove struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Error       string `yaml:"error,omitempty"`
}

type reportStore struct {
	fs afero.Fs
}

// NewReportStore creates a ReportStore on the OS filesystem.
func NewReportStore() ReportStore {
	return NewReportStoreFs(afero.NewOsFs())
}

// NewReportStoreFs creates a ReportStore on the given filesystem.
func NewReportStoreFs(fs afero.Fs) ReportStore {
	return &reportStore{fs: fs}
}

func (s *reportStore) SaveReport(path m.Path, report m.RunReport) error {
	if path == "" {
		return errors.New("report path is empty")
	}

	data, err := yaml.Marshal(toReportFile(report))
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if dir := filepath.Dir(string(path)); dir != "." {
		if err := s.fs.MkdirAll(dir, quarantineDirPerm); err != nil {
			return fmt.Errorf("create report directory %q: %w", dir, err)
		}
	}

	if err := afero.WriteFile(s.fs, string(path), data, reportFilePerm); err != nil {
		return fmt.Errorf("write report %q: %w", path, err)
	}

	return nil
}

func (s *reportStore) LoadReport(path m.Path) (ReportFile, error) {
	data, err := afero.ReadFile(s.fs, string(path))
	if err != nil {
		return ReportFile{}, fmt.Errorf("read report %q: %w", path, err)
	}

	var file ReportFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return ReportFile{}, fmt.Errorf("decode report %q: %w", path, err)
	}

	return file, nil
}

func toReportFile(report m.RunReport) ReportFile {
	summary := report.Summary
	file := ReportFile{
		Root:     string(summary.Root),
		Strategy: string(summary.Strategy),
		DryRun:   summary.DryRun,
		Summary: ReportSummary{
			FilesFound: summary.FilesFound,
			Groups:     summary.Groups,
			Invalid:    summary.Invalid,
			Moved:      summary.Moved,
			Failed:     summary.Failed,
			BytesMoved: summary.BytesMoved,
		},
	}

	for _, group := range report.Groups {
		quarantined := make([]string, 0, len(group.Quarantined))
		for _, ref := range group.Quarantined {
			quarantined = append(quarantined, ref.String())
		}

		file.Groups = append(file.Groups, ReportGroup{
			Signature:   string(group.Signature),
			Survivor:    group.Survivor.String(),
			Quarantined: quarantined,
		})
	}

	for _, decision := range report.Invalid {
		file.Invalid = append(file.Invalid, ReportEntry{Path: decision.File.String(), Reason: decision.Reason})
	}

	for _, decision := range report.Decisions {
		file.Dispositions = append(file.Dispositions, ReportDecision{
			Path:        decision.File.String(),
			Disposition: decision.Disposition.String(),
			Reason:      decision.Reason,
		})
	}

	for _, move := range report.Moves {
		entry := ReportMove{Source: move.File.String(), Destination: string(move.Destination)}
		if move.Err != nil {
			entry.Error = move.Err.Error()
		}

		file.Moves = append(file.Moves, entry)
	}

	return file
}
