package dashboard

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"

	"github.com/revstat/revstat/pkg/analytics"
	"github.com/revstat/revstat/pkg/plotpage"
)

const cumulativeAreaOpacity = 0.6

type progressContent struct {
	m *analytics.ComputedMetrics
}

func newProgressTab(m *analytics.ComputedMetrics) *progressContent {
	return &progressContent{m: m}
}

// Render renders the progress content to the writer.
func (p *progressContent) Render(w io.Writer) error {
	err := p.renderCumulative(w)
	if err != nil {
		return err
	}

	err = p.renderStreaks(w)
	if err != nil {
		return err
	}

	return p.renderGaps(w)
}

func (p *progressContent) renderCumulative(w io.Writer) error {
	if len(p.m.Days) == 0 {
		return plotpage.NewText("No daily data available").Render(w)
	}

	labels := make([]string, len(p.m.Days))
	learning := make([]plotpage.SeriesData, len(p.m.Days))
	review := make([]plotpage.SeriesData, len(p.m.Days))
	relearn := make([]plotpage.SeriesData, len(p.m.Days))

	for i, d := range p.m.Days {
		labels[i] = d.Date
		learning[i] = d.CumulativeLearning
		review[i] = d.CumulativeReview
		relearn[i] = d.CumulativeRelearn
	}

	co := plotpage.DefaultChartOpts()
	chart := plotpage.BuildLineChart(co, labels, []plotpage.LineSeries{
		{Name: "Learning", Data: learning, Color: colorLearning, Stack: "total", AreaOpacity: cumulativeAreaOpacity},
		{Name: "Review", Data: review, Color: colorReview, Stack: "total", AreaOpacity: cumulativeAreaOpacity},
		{Name: "Relearn", Data: relearn, Color: colorRelearn, Stack: "total", AreaOpacity: cumulativeAreaOpacity},
	}, "Cards")
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init("100%", chartHeight)),
		charts.WithTitleOpts(co.Title("Cumulative Volume", "Running card totals by category")),
		charts.WithGridOpts(co.Grid()),
	)

	return plotpage.WrapChart(chart).Render(w)
}

func (p *progressContent) renderStreaks(w io.Writer) error {
	if len(p.m.Days) == 0 {
		return writeWrapped(w, plotpage.NewText("No streak data available"))
	}

	labels := make([]string, len(p.m.Days))
	streaks := make([]plotpage.SeriesData, len(p.m.Days))

	for i, d := range p.m.Days {
		labels[i] = d.Date
		streaks[i] = d.Streak
	}

	co := plotpage.DefaultChartOpts()
	chart := plotpage.BuildLineChart(co, labels, []plotpage.LineSeries{
		{Name: "Streak", Data: streaks, Color: colorReview, AreaOpacity: cumulativeAreaOpacity},
	}, "Days")
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init("100%", chartHeight)),
		charts.WithTitleOpts(co.Title("Streak Timeline", "Consecutive active days over time")),
		charts.WithGridOpts(co.Grid()),
	)

	return writeWrapped(w, plotpage.WrapChart(chart))
}

func (p *progressContent) renderGaps(w io.Writer) error {
	if len(p.m.Gaps) == 0 {
		return writeWrapped(w, plotpage.NewText("No inactivity gaps detected"))
	}

	longest := p.longestGap()
	if longest.LengthDays >= gapSevereDays {
		msg := fmt.Sprintf("Longest inactive period lasted %s, from %s to %s.",
			pluralDays(longest.LengthDays), longest.Start, longest.End)
		alert := plotpage.NewAlert("Long Inactivity Gap", msg, plotpage.BadgeError)

		err := writeWrapped(w, alert)
		if err != nil {
			return err
		}
	}

	card := plotpage.NewCard("Inactivity Gaps", "Runs of consecutive inactive days")
	table := plotpage.NewTable([]string{"Start", "End", "Length"})

	for _, gap := range p.m.Gaps {
		badge, err := renderGapBadge(gap)
		if err != nil {
			return err
		}

		table.AddRow(gap.Start, gap.End, badge)
	}

	card.WithContent(table)

	return writeWrapped(w, card)
}

func (p *progressContent) longestGap() analytics.Gap {
	var longest analytics.Gap

	for _, gap := range p.m.Gaps {
		if gap.LengthDays > longest.LengthDays {
			longest = gap
		}
	}

	return longest
}

func renderGapBadge(gap analytics.Gap) (string, error) {
	badge := plotpage.NewBadge(pluralDays(gap.LengthDays)).WithColor(gapBadgeClass(gap.LengthDays))

	var buf bytes.Buffer

	err := badge.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("render gap badge: %w", err)
	}

	return buf.String(), nil
}

func gapBadgeClass(lengthDays int) string {
	switch {
	case lengthDays >= gapSevereDays:
		return plotpage.BadgeError
	case lengthDays >= gapNotableDays:
		return plotpage.BadgeWarning
	default:
		return plotpage.BadgeInfo
	}
}
