// Package dashboard renders the computed review model as a tabbed
// interactive HTML page: an overview with KPIs, heatmap and monthly volume,
// an analysis tab for trends and weekday patterns, and a progress tab for
// cumulative totals, streaks and gaps.
package dashboard

import (
	"io"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/revstat/revstat/pkg/analytics"
	"github.com/revstat/revstat/pkg/plotpage"
)

const (
	chartHeight   = "460px"
	heatmapHeight = "340px"

	statsGridCols = 4

	// Daily series colors follow the category palette used across all
	// charts: one fixed color per review category.
	colorLearning = "#2196F3"
	colorReview   = "#4CAF50"
	colorRelearn  = "#F44336"
	colorTotal    = "#607D8B"
	colorMA7      = "#FF9800"
	colorMA30     = "#9C27B0"

	shortWindow = 7
	longWindow  = 30

	gapSevereDays  = 14
	gapNotableDays = 7

	pctDecimals  = 1
	avgDecimals  = 1
	statDecimals = 2
)

// heatmapGreens is the activity color ramp, light to dark.
var heatmapGreens = []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"}

// Generate renders the full dashboard page for the computed model using
// the light theme.
func Generate(m *analytics.ComputedMetrics, writer io.Writer) error {
	return GenerateWithTheme(m, plotpage.ThemeLight, writer)
}

// GenerateWithTheme renders the dashboard page in the given color theme.
func GenerateWithTheme(m *analytics.ComputedMetrics, theme plotpage.Theme, writer io.Writer) error {
	page := plotpage.NewPage(
		"Review Analytics Dashboard",
		"Study volume, consistency and retention trends derived from the review history",
	).WithTheme(theme)

	page.Add(Sections(m)...)

	return page.Render(writer)
}

// Sections returns the dashboard sections without rendering the page.
func Sections(m *analytics.ComputedMetrics) []plotpage.Section {
	tabs := plotpage.NewTabs("dashboard",
		plotpage.TabItem{ID: "overview", Label: "Overview", Content: newOverviewTab(m)},
		plotpage.TabItem{ID: "analysis", Label: "Analysis", Content: newAnalysisTab(m)},
		plotpage.TabItem{ID: "progress", Label: "Progress", Content: newProgressTab(m)},
	)

	return []plotpage.Section{
		{
			Title:    "Review Activity",
			Subtitle: m.Summary.DateRange,
			Chart:    tabs,
		},
	}
}

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', pctDecimals, 64) + "%"
}

func formatAvg(v float64) string {
	return strconv.FormatFloat(v, 'f', avgDecimals, 64)
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', statDecimals, 64)
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}

	return strconv.Itoa(n) + " days"
}

// writeWrapped renders a component inside a top-margin wrapper div.
func writeWrapped(w io.Writer, component plotpage.Renderable) error {
	_, err := io.WriteString(w, `<div class="mt-6">`)
	if err != nil {
		return err
	}

	err = component.Render(w)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, `</div>`)

	return err
}
