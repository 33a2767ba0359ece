package dashboard

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"

	"github.com/revstat/revstat/pkg/analytics"
	"github.com/revstat/revstat/pkg/plotpage"
)

type analysisContent struct {
	m *analytics.ComputedMetrics
}

func newAnalysisTab(m *analytics.ComputedMetrics) *analysisContent {
	return &analysisContent{m: m}
}

// Render renders the analysis content to the writer.
func (a *analysisContent) Render(w io.Writer) error {
	err := a.renderDailyVolume(w)
	if err != nil {
		return err
	}

	err = a.renderWeekdayProfile(w)
	if err != nil {
		return err
	}

	err = a.renderRelearnTrend(w)
	if err != nil {
		return err
	}

	return a.renderWeekdayTable(w)
}

// renderDailyVolume draws the daily total with both centered moving
// averages. Days where a window does not fit are rendered as gaps.
func (a *analysisContent) renderDailyVolume(w io.Writer) error {
	if len(a.m.Days) == 0 {
		return plotpage.NewText("No daily data available").Render(w)
	}

	labels := make([]string, len(a.m.Days))
	totals := make([]plotpage.SeriesData, len(a.m.Days))
	shortMA := make([]plotpage.SeriesData, len(a.m.Days))
	longMA := make([]plotpage.SeriesData, len(a.m.Days))

	for i, d := range a.m.Days {
		labels[i] = d.Date
		totals[i] = d.Total
		shortMA[i] = movingAvgValue(d, shortWindow)
		longMA[i] = movingAvgValue(d, longWindow)
	}

	co := plotpage.DefaultChartOpts()
	chart := plotpage.BuildLineChart(co, labels, []plotpage.LineSeries{
		{Name: "Daily Total", Data: totals, Color: colorTotal},
		{Name: "7-day MA", Data: shortMA, Color: colorMA7, Smooth: true},
		{Name: "30-day MA", Data: longMA, Color: colorMA30, Smooth: true},
	}, "Cards")
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init("100%", chartHeight)),
		charts.WithTitleOpts(co.Title("Daily Volume", "Cards per day with centered moving averages")),
		charts.WithGridOpts(co.Grid()),
	)

	return plotpage.WrapChart(chart).Render(w)
}

// movingAvgValue returns the window average for a day, or nil where the
// centered window is undefined so the series shows a gap.
func movingAvgValue(d analytics.EnrichedDay, window int) plotpage.SeriesData {
	avg, ok := d.MovingAvg[window]
	if !ok || avg == nil {
		return nil
	}

	return *avg
}

func (a *analysisContent) renderWeekdayProfile(w io.Writer) error {
	if len(a.m.Weekdays) == 0 {
		return writeWrapped(w, plotpage.NewText("No weekday data available"))
	}

	labels := make([]string, len(a.m.Weekdays))
	learning := make([]plotpage.SeriesData, len(a.m.Weekdays))
	review := make([]plotpage.SeriesData, len(a.m.Weekdays))
	relearn := make([]plotpage.SeriesData, len(a.m.Weekdays))

	for i, wd := range a.m.Weekdays {
		labels[i] = wd.Weekday
		learning[i] = wd.Learning
		review[i] = wd.Review
		relearn[i] = wd.Relearn
	}

	co := plotpage.DefaultChartOpts()
	chart := plotpage.BuildBarChart(co, labels, []plotpage.BarSeries{
		{Name: "Learning", Data: learning, Color: colorLearning, Stack: "total"},
		{Name: "Review", Data: review, Color: colorReview, Stack: "total"},
		{Name: "Relearn", Data: relearn, Color: colorRelearn, Stack: "total"},
	}, "Cards")
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init("100%", chartHeight)),
		charts.WithTitleOpts(co.Title("Weekday Profile", "Total cards by weekday and category")),
		charts.WithGridOpts(co.Grid()),
	)

	return writeWrapped(w, plotpage.WrapChart(chart))
}

func (a *analysisContent) renderRelearnTrend(w io.Writer) error {
	if len(a.m.Monthly) == 0 {
		return writeWrapped(w, plotpage.NewText("No monthly data available"))
	}

	labels := make([]string, len(a.m.Monthly))
	rates := make([]plotpage.SeriesData, len(a.m.Monthly))

	for i, month := range a.m.Monthly {
		labels[i] = month.Month
		rates[i] = month.RelearnRate
	}

	co := plotpage.DefaultChartOpts()
	chart := plotpage.BuildLineChart(co, labels, []plotpage.LineSeries{
		{Name: "Relearn Rate", Data: rates, Color: colorRelearn, Smooth: true},
	}, "Percent")
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(co.Init("100%", chartHeight)),
		charts.WithTitleOpts(co.Title("Relearn Rate", "Relearn share of monthly volume")),
		charts.WithGridOpts(co.Grid()),
	)

	return writeWrapped(w, plotpage.WrapChart(chart))
}

func (a *analysisContent) renderWeekdayTable(w io.Writer) error {
	if len(a.m.Weekdays) == 0 {
		return nil
	}

	card := plotpage.NewCard("Weekday Distribution", "Daily total distribution per weekday")
	table := plotpage.NewTable([]string{"Weekday", "Total", "Active Days", "Mean", "Median", "Std Dev"})

	for _, wd := range a.m.Weekdays {
		table.AddRow(
			wd.Weekday,
			formatCount(wd.Total),
			formatCount(wd.ActiveDays),
			formatStat(wd.Mean),
			formatStat(wd.Median),
			formatStat(wd.StdDev),
		)
	}

	card.WithContent(table)

	return writeWrapped(w, card)
}
