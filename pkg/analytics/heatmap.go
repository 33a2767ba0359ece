package analytics

import (
	"sort"

	"github.com/revstat/revstat/pkg/metrics"
)

// heatmapRowLabels are the fixed row labels of the grid, Monday first.
var heatmapRowLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// HeatmapMetric pivots enriched days into a dense weekday×week grid of
// summed totals.
type HeatmapMetric struct {
	metrics.MetricMeta
}

// NewHeatmapMetric creates the heatmap grid metric.
func NewHeatmapMetric() *HeatmapMetric {
	return &HeatmapMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "heatmap",
			MetricDisplayName: "Activity Heatmap Grid",
			MetricDescription: "Weekday×week matrix of summed daily totals. Rows are Monday-first " +
				"weekdays, columns are year-week keys in chronological order. Cells without " +
				"records are 0.",
			MetricType: "matrix",
		},
	}
}

// weekKey orders year-week columns by their numeric components rather than
// by string comparison.
type weekKey struct {
	year, week int
}

// Compute builds the grid. Cells sum totals rather than assuming one record
// per (weekday, week) pair, so duplicate dates degrade gracefully.
func (m *HeatmapMetric) Compute(days []EnrichedDay) HeatmapGrid {
	keys := make(map[string]weekKey)

	for i := range days {
		keys[days[i].YearWeek] = weekKey{year: days[i].Year, week: days[i].Week}
	}

	weeks := make([]string, 0, len(keys))
	for label := range keys {
		weeks = append(weeks, label)
	}

	sort.Slice(weeks, func(i, j int) bool {
		a, b := keys[weeks[i]], keys[weeks[j]]
		if a.year != b.year {
			return a.year < b.year
		}

		return a.week < b.week
	})

	columns := make(map[string]int, len(weeks))
	for i, label := range weeks {
		columns[label] = i
	}

	cells := make([][]int, weekdayCount)
	for row := range cells {
		cells[row] = make([]int, len(weeks))
	}

	for i := range days {
		cells[days[i].WeekdayNum][columns[days[i].YearWeek]] += days[i].Total
	}

	return HeatmapGrid{
		Weekdays: append([]string(nil), heatmapRowLabels...),
		Weeks:    weeks,
		Cells:    cells,
	}
}
