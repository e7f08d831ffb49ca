package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	m "sieve.dev/pkg/sieve/internal/model"
)

func TestRenderSummaryTable(t *testing.T) {
	tests := []struct {
		name     string
		summary  m.Summary
		contains []string
		excludes []string
	}{
		{
			name:     "copies",
			summary:  m.Summary{Root: "/photos", Strategy: m.StrategyContentSignature, FilesFound: 12, Groups: 2, Moved: 3, BytesMoved: 1500000},
			contains: []string{"/photos", "Files found", "12", "Duplicate groups", "Quarantined", "1.5 MB"},
			excludes: []string{"Invalid images", "Would quarantine"},
		},
		{
			name:     "images dry run",
			summary:  m.Summary{Root: "/photos", Strategy: m.StrategyValidity, FilesFound: 4, Invalid: 1, Moved: 1, DryRun: true},
			contains: []string{"Invalid images", "Would quarantine", "Failed moves"},
			excludes: []string{"Duplicate groups"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := renderSummaryTable(tt.summary)

			for _, want := range tt.contains {
				assert.Contains(t, table, want)
			}

			for _, unwanted := range tt.excludes {
				assert.NotContains(t, table, unwanted)
			}
		})
	}
}
