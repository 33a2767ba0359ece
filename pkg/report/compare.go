package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/revstat/revstat/pkg/analytics"
)

// GenerateComparison writes the focus-month comparison as a two-column
// table, full range beside the focus period.
func GenerateComparison(c *analytics.PeriodComparison, writer io.Writer) error {
	cfg := NewConfig()

	header := DrawHeader("Period Comparison", c.Focus.Label, cfg.Width)
	fmt.Fprintln(writer, header)
	fmt.Fprintln(writer)

	writeSectionTitle(writer, cfg, "Medians over study days")

	tbl := newTable()
	tbl.AppendHeader(table.Row{"", c.Full.Label, c.Focus.Label})

	rows := []struct {
		label string
		full  string
		focus string
	}{
		{"Days", formatInt(c.Full.Days), formatInt(c.Focus.Days)},
		{"Study Days", formatInt(c.Full.StudyDays), formatInt(c.Focus.StudyDays)},
		{"Activity Rate", pctCell(c.Full.ActivityRate), pctCell(c.Focus.ActivityRate)},
		{"Median Total", medianCell(c.Full.MedianTotal), medianCell(c.Focus.MedianTotal)},
		{"Median Learning", medianCell(c.Full.MedianLearning), medianCell(c.Focus.MedianLearning)},
		{"Median Review", medianCell(c.Full.MedianReview), medianCell(c.Focus.MedianReview)},
		{"Median Relearn", medianCell(c.Full.MedianRelearn), medianCell(c.Focus.MedianRelearn)},
		{"Median Cheated", medianCell(c.Full.MedianCheated), medianCell(c.Focus.MedianCheated)},
		{"Clean Days", formatInt(c.Full.CleanDays), formatInt(c.Focus.CleanDays)},
		{"Clean Rate", pctCell(c.Full.CleanRate), pctCell(c.Focus.CleanRate)},
		{"Avg Cheated", medianCell(c.Full.AvgCheated), medianCell(c.Focus.AvgCheated)},
	}

	for _, row := range rows {
		tbl.AppendRow(table.Row{row.label, row.full, row.focus})
	}

	writeIndented(writer, tbl.Render())
	fmt.Fprintln(writer)

	return nil
}

func pctCell(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func medianCell(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
