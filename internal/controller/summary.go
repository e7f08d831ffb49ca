package controller

import (
	"bytes"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	m "sieve.dev/pkg/sieve/internal/model"
)

func renderSummaryTable(summary m.Summary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Summary", "Value"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	movedLabel := "Quarantined"
	if summary.DryRun {
		movedLabel = "Would quarantine"
	}

	table.Append([]string{"Root", string(summary.Root)})
	table.Append([]string{"Files found", fmt.Sprintf("%d", summary.FilesFound)})

	if summary.Strategy == m.StrategyValidity {
		table.Append([]string{"Invalid images", fmt.Sprintf("%d", summary.Invalid)})
	} else {
		table.Append([]string{"Duplicate groups", fmt.Sprintf("%d", summary.Groups)})
	}

	table.Append([]string{movedLabel, fmt.Sprintf("%d", summary.Moved)})
	table.Append([]string{"Failed moves", fmt.Sprintf("%d", summary.Failed)})
	table.SetFooter([]string{"Reclaimed", humanize.Bytes(uint64(max(summary.BytesMoved, 0)))})

	table.Render()

	return tableBuffer.String()
}
