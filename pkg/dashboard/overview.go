package dashboard

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/revstat/revstat/pkg/analytics"
	"github.com/revstat/revstat/pkg/plotpage"
)

const (
	activePctGood = 80
	activePctFair = 50

	relearnRateGood = 10
	relearnRateHigh = 20

	heatmapLabelRotate = 45
	heatmapLabelSize   = 10
)

type overviewContent struct {
	m *analytics.ComputedMetrics
}

func newOverviewTab(m *analytics.ComputedMetrics) *overviewContent {
	return &overviewContent{m: m}
}

// Render renders the overview content to the writer.
func (o *overviewContent) Render(w io.Writer) error {
	err := o.renderStats(w)
	if err != nil {
		return err
	}

	err = o.renderHeatmap(w)
	if err != nil {
		return err
	}

	return o.renderMonthly(w)
}

func (o *overviewContent) renderStats(w io.Writer) error {
	s := o.m.Summary

	grid := plotpage.NewGrid(statsGridCols,
		plotpage.NewStat("Total Cards", formatCount(s.TotalCards)),
		plotpage.NewStat("Active Days", formatCount(s.ActiveDays)).
			WithTrend(formatPct(s.ActiveDaysPct), activePctBadge(s.ActiveDaysPct)),
		plotpage.NewStat("Max Streak", pluralDays(s.MaxStreak)),
		currentStreakStat(s.CurrentStreak),
		plotpage.NewStat("Avg per Day", formatAvg(s.AvgPerDay)),
		plotpage.NewStat("Avg per Active Day", formatAvg(s.AvgPerActiveDay)),
		plotpage.NewStat("Relearn Rate", formatPct(s.RelearnRate)).
			WithTrend(relearnRateLabel(s.RelearnRate), relearnRateBadge(s.RelearnRate)),
		plotpage.NewStat("Total Days", formatCount(s.TotalDays)),
	)

	return grid.Render(w)
}

func currentStreakStat(streak int) *plotpage.Stat {
	stat := plotpage.NewStat("Current Streak", pluralDays(streak))
	if streak > 0 {
		stat.WithTrend("ongoing", plotpage.BadgeSuccess)
	}

	return stat
}

func activePctBadge(pct float64) string {
	switch {
	case pct >= activePctGood:
		return plotpage.BadgeSuccess
	case pct >= activePctFair:
		return plotpage.BadgeInfo
	default:
		return plotpage.BadgeWarning
	}
}

func relearnRateLabel(rate float64) string {
	switch {
	case rate <= relearnRateGood:
		return "low"
	case rate <= relearnRateHigh:
		return "elevated"
	default:
		return "high"
	}
}

func relearnRateBadge(rate float64) string {
	switch {
	case rate <= relearnRateGood:
		return plotpage.BadgeSuccess
	case rate <= relearnRateHigh:
		return plotpage.BadgeWarning
	default:
		return plotpage.BadgeError
	}
}

func (o *overviewContent) renderHeatmap(w io.Writer) error {
	chart := buildHeatmapChart(o.m.Heatmap)
	if chart == nil {
		return writeWrapped(w, plotpage.NewText("No activity data available"))
	}

	return writeWrapped(w, plotpage.WrapChart(chart))
}

func buildHeatmapChart(grid analytics.HeatmapGrid) *charts.HeatMap {
	if len(grid.Weeks) == 0 {
		return nil
	}

	// ECharts places category index 0 at the bottom of the Y axis, so the
	// weekday rows are reversed to render Monday at the top.
	rows := len(grid.Weekdays)
	yLabels := make([]string, rows)

	for i, name := range grid.Weekdays {
		yLabels[rows-1-i] = name
	}

	data := make([]opts.HeatMapData, 0, rows*len(grid.Weeks))
	maxVal := 0

	for r, row := range grid.Cells {
		for c, total := range row {
			if total > maxVal {
				maxVal = total
			}

			data = append(data, opts.HeatMapData{Value: []any{c, rows - 1 - r, total}})
		}
	}

	if maxVal == 0 {
		maxVal = 1
	}

	co := plotpage.DefaultChartOpts()
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init("100%", heatmapHeight)),
		charts.WithTitleOpts(co.Title("Activity Heatmap", "Cards per day by weekday and week")),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category", Data: grid.Weeks,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Rotate: heatmapLabelRotate, FontSize: heatmapLabelSize},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category", Data: yLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{FontSize: heatmapLabelSize},
		}),
		charts.WithVisualMapOpts(co.VisualMap(float64(maxVal), heatmapGreens)),
		charts.WithGridOpts(opts.Grid{Left: "6%", Right: "3%", Top: "16%", Bottom: "26%"}),
	)
	hm.AddSeries("Cards", data)

	return hm
}

func (o *overviewContent) renderMonthly(w io.Writer) error {
	if len(o.m.Monthly) == 0 {
		return writeWrapped(w, plotpage.NewText("No monthly data available"))
	}

	labels := make([]string, len(o.m.Monthly))
	learning := make([]plotpage.SeriesData, len(o.m.Monthly))
	review := make([]plotpage.SeriesData, len(o.m.Monthly))
	relearn := make([]plotpage.SeriesData, len(o.m.Monthly))

	for i, month := range o.m.Monthly {
		labels[i] = month.Month
		learning[i] = month.Learning
		review[i] = month.Review
		relearn[i] = month.Relearn
	}

	co := plotpage.DefaultChartOpts()
	chart := plotpage.BuildBarChart(co, labels, []plotpage.BarSeries{
		{Name: "Learning", Data: learning, Color: colorLearning, Stack: "total"},
		{Name: "Review", Data: review, Color: colorReview, Stack: "total"},
		{Name: "Relearn", Data: relearn, Color: colorRelearn, Stack: "total"},
	}, "Cards")
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init("100%", chartHeight)),
		charts.WithTitleOpts(co.Title("Monthly Volume", "Cards per month by category")),
		charts.WithGridOpts(co.Grid()),
	)

	return writeWrapped(w, plotpage.WrapChart(chart))
}
