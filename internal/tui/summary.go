package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"oculurum/internal/transcode"
)

type SummaryRow struct {
	Label string
	Value string
}

// RunRows describes a finished conversion.
func RunRows(plan transcode.Plan, summary transcode.Summary, output string) []SummaryRow {
	rows := []SummaryRow{
		{Label: "Output", Value: output},
		{Label: "Colour type", Value: plan.Mode.String()},
		{Label: "Compression", Value: plan.Compression.String()},
		{Label: "Dimensions", Value: fmt.Sprintf("%dx%d", summary.Dimension, summary.Dimension)},
		{Label: "Files written", Value: fmt.Sprintf("%d/%d", summary.Files, len(plan.Files))},
		{Label: "Pixel bytes", Value: fmt.Sprintf("%d", summary.PixelBytes)},
		{Label: "Padding bytes", Value: fmt.Sprintf("%d", summary.PaddingBytes)},
	}
	if summary.Skipped > 0 {
		rows = append(rows, SummaryRow{Label: "Files skipped", Value: fmt.Sprintf("%d", summary.Skipped)})
	}
	if summary.ReadErrors > 0 {
		rows = append(rows, SummaryRow{Label: "Read errors", Value: fmt.Sprintf("%d", summary.ReadErrors)})
	}
	if summary.DroppedBytes > 0 {
		rows = append(rows, SummaryRow{Label: "Bytes dropped", Value: fmt.Sprintf("%d", summary.DroppedBytes)})
	}
	return rows
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, len(row.Label))
		valueWidth = max(valueWidth, len(row.Value))
	}

	hline := dimStyle.Render(strings.Repeat("-", labelWidth+valueWidth+3))
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		lines = append(lines, fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value)))
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
)
