// Package report renders the computed review model as a human-readable
// terminal report: a summary block plus monthly, weekday and gap tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/revstat/revstat/pkg/analytics"
)

const (
	textIndent     = "  "
	textMaxGaps    = 7
	labelWidth     = 22
	gapSevereDays  = 14
	gapNotableDays = 7
)

// Generate writes a human-readable review summary to the writer.
func Generate(m *analytics.ComputedMetrics, writer io.Writer) error {
	cfg := NewConfig()

	header := DrawHeader("Review Analytics", m.Summary.DateRange, cfg.Width)
	fmt.Fprintln(writer, header)
	fmt.Fprintln(writer)

	writeSummarySection(writer, cfg, m.Summary)

	if len(m.Monthly) > 0 {
		fmt.Fprintln(writer)
		writeMonthlyTable(writer, cfg, m.Monthly)
	}

	if len(m.Weekdays) > 0 && m.Summary.TotalDays > 0 {
		fmt.Fprintln(writer)
		writeWeekdayTable(writer, cfg, m.Weekdays)
	}

	if len(m.Gaps) > 0 {
		fmt.Fprintln(writer)
		writeGaps(writer, cfg, m.Gaps)
	}

	fmt.Fprintln(writer)

	return nil
}

func writeSummarySection(writer io.Writer, cfg Config, s analytics.SummaryStats) {
	writeSectionTitle(writer, cfg, "Summary")

	writeRow(writer, "Total Cards", formatInt(s.TotalCards))
	writeRow(writer, "Learning", fmt.Sprintf("%s (%.1f%%)", formatInt(s.TotalLearning), s.LearningPct))
	writeRow(writer, "Review", fmt.Sprintf("%s (%.1f%%)", formatInt(s.TotalReview), s.ReviewPct))
	writeRow(writer, "Relearn", formatInt(s.TotalRelearn))

	if s.TotalCheated > 0 {
		writeRow(writer, "Cheated", cfg.Colorize(formatInt(s.TotalCheated), ColorYellow))
	}

	writeRow(writer, "Active Days",
		fmt.Sprintf("%s of %s (%.1f%%)", formatInt(s.ActiveDays), formatInt(s.TotalDays), s.ActiveDaysPct))
	writeRow(writer, "Avg per Day", fmt.Sprintf("%.1f", s.AvgPerDay))
	writeRow(writer, "Avg per Active Day", fmt.Sprintf("%.1f", s.AvgPerActiveDay))
	writeRow(writer, "Max Streak", pluralDays(s.MaxStreak))
	writeRow(writer, "Current Streak", formatCurrentStreak(cfg, s.CurrentStreak))
	writeRow(writer, "Relearn Rate", fmt.Sprintf("%.1f%%", s.RelearnRate))
}

func formatCurrentStreak(cfg Config, streak int) string {
	if streak == 0 {
		return cfg.Colorize("0 days", ColorGray)
	}

	return cfg.Colorize(pluralDays(streak), ColorGreen)
}

func writeMonthlyTable(writer io.Writer, cfg Config, monthly []analytics.MonthlyAggregate) {
	writeSectionTitle(writer, cfg, "Monthly")

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Month", "Learning", "Review", "Relearn", "Total", "Active", "Relearn %"})

	totalCards := 0

	for _, month := range monthly {
		tbl.AppendRow(table.Row{
			month.Month,
			formatInt(month.Learning),
			formatInt(month.Review),
			formatInt(month.Relearn),
			formatInt(month.Total),
			formatInt(month.ActiveDays),
			fmt.Sprintf("%.1f", month.RelearnRate),
		})

		totalCards += month.Total
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %s cards over %d months", formatInt(totalCards), len(monthly))})

	writeIndented(writer, tbl.Render())
}

func writeWeekdayTable(writer io.Writer, cfg Config, weekdays []analytics.WeekdayAggregate) {
	writeSectionTitle(writer, cfg, "Weekdays")

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Weekday", "Total", "Active", "Mean", "Median", "Std Dev"})

	for _, wd := range weekdays {
		tbl.AppendRow(table.Row{
			wd.Weekday,
			formatInt(wd.Total),
			formatInt(wd.ActiveDays),
			fmt.Sprintf("%.2f", wd.Mean),
			fmt.Sprintf("%.2f", wd.Median),
			fmt.Sprintf("%.2f", wd.StdDev),
		})
	}

	writeIndented(writer, tbl.Render())
}

func writeGaps(writer io.Writer, cfg Config, gaps []analytics.Gap) {
	writeSectionTitle(writer, cfg, "Inactivity Gaps")

	shown := min(len(gaps), textMaxGaps)

	for _, gap := range gaps[:shown] {
		length := cfg.Colorize(pluralDays(gap.LengthDays), gapColor(gap.LengthDays))
		fmt.Fprintf(writer, "%s%s %s %s  %s\n", textIndent, gap.Start, boxHorizontal, gap.End, length)
	}

	if len(gaps) > textMaxGaps {
		fmt.Fprintf(writer, "%s%s\n", textIndent,
			cfg.Colorize(fmt.Sprintf("  and %d more...", len(gaps)-textMaxGaps), ColorGray))
	}
}

func gapColor(lengthDays int) Color {
	switch {
	case lengthDays >= gapSevereDays:
		return ColorRed
	case lengthDays >= gapNotableDays:
		return ColorYellow
	default:
		return ColorGray
	}
}

// newTable returns a go-pretty writer in the house style: light separators
// only under the header.
func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	return tbl
}

func writeSectionTitle(writer io.Writer, cfg Config, title string) {
	fmt.Fprintf(writer, "%s%s\n", textIndent, cfg.Colorize(title, ColorBlue))
	fmt.Fprintf(writer, "%s%s\n", textIndent, DrawSeparator(cfg.Width-len(textIndent)*2))
}

func writeRow(writer io.Writer, label, value string) {
	fmt.Fprintf(writer, "%s%-*s %s\n", textIndent, labelWidth, label, value)
}

func writeIndented(writer io.Writer, rendered string) {
	for _, line := range strings.Split(rendered, "\n") {
		fmt.Fprintf(writer, "%s%s\n", textIndent, line)
	}
}

func formatInt(n int) string {
	return humanize.Comma(int64(n))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}

	return fmt.Sprintf("%d days", n)
}
