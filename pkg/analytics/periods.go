package analytics

import (
	"sort"
	"time"

	"github.com/revstat/revstat/pkg/alg/stats"
	"github.com/revstat/revstat/pkg/metrics"
)

// MonthlyMetric groups enriched days by month key, summing category counts
// and counting active days per month.
type MonthlyMetric struct {
	metrics.MetricMeta
}

// NewMonthlyMetric creates the monthly aggregation metric.
func NewMonthlyMetric() *MonthlyMetric {
	return &MonthlyMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "monthly",
			MetricDisplayName: "Monthly Aggregates",
			MetricDescription: "Per-month sums of learning, review, relearn and total counts, " +
				"active-day counts, and the relearn rate as a percentage of the month's total " +
				"(0 for months with zero total).",
			MetricType: "aggregate",
		},
	}
}

// Compute returns one aggregate per month, chronologically ordered.
func (m *MonthlyMetric) Compute(days []EnrichedDay) []MonthlyAggregate {
	byMonth := make(map[string]*MonthlyAggregate)

	for i := range days {
		agg := byMonth[days[i].Month]
		if agg == nil {
			agg = &MonthlyAggregate{Month: days[i].Month}
			byMonth[days[i].Month] = agg
		}

		agg.Learning += days[i].Learning
		agg.Review += days[i].Review
		agg.Relearn += days[i].Relearn
		agg.Total += days[i].Total

		if days[i].IsActive {
			agg.ActiveDays++
		}
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}

	// YYYY-MM keys sort chronologically as strings.
	sort.Strings(months)

	result := make([]MonthlyAggregate, len(months))

	for i, month := range months {
		agg := byMonth[month]
		agg.RelearnRate = pct(float64(agg.Relearn), float64(agg.Total))
		result[i] = *agg
	}

	return result
}

// WeekdayMetric groups enriched days by weekday, fixed Monday→Sunday. Every
// weekday appears in the output even when the range contains no day of it.
type WeekdayMetric struct {
	metrics.MetricMeta
}

// NewWeekdayMetric creates the weekday aggregation metric.
func NewWeekdayMetric() *WeekdayMetric {
	return &WeekdayMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "weekdays",
			MetricDisplayName: "Weekday Profile",
			MetricDescription: "Per-weekday sums and active-day counts plus the mean, median and " +
				"sample standard deviation of daily totals falling on that weekday. " +
				"Rows are ordered Monday through Sunday.",
			MetricType: "aggregate",
		},
	}
}

// Compute returns exactly seven aggregates ordered Monday through Sunday.
func (m *WeekdayMetric) Compute(days []EnrichedDay) []WeekdayAggregate {
	totals := make([][]float64, weekdayCount)
	result := make([]WeekdayAggregate, weekdayCount)

	for num := range result {
		result[num] = WeekdayAggregate{
			Weekday:    weekdayName(num),
			WeekdayNum: num,
		}
	}

	for i := range days {
		num := days[i].WeekdayNum
		agg := &result[num]

		agg.Learning += days[i].Learning
		agg.Review += days[i].Review
		agg.Relearn += days[i].Relearn
		agg.Total += days[i].Total

		if days[i].IsActive {
			agg.ActiveDays++
		}

		totals[num] = append(totals[num], float64(days[i].Total))
	}

	for num := range result {
		result[num].Mean = stats.Mean(totals[num])
		result[num].Median = stats.Median(totals[num])
		result[num].StdDev = stats.SampleStdDev(totals[num])
	}

	return result
}

// weekdayName returns the full weekday name for a Monday=0..Sunday=6 index.
func weekdayName(num int) string {
	return time.Weekday((num + 1) % weekdayCount).String()
}
