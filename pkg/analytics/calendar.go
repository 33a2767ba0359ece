package analytics

import (
	"fmt"
	"time"

	"github.com/revstat/revstat/pkg/metrics"
	"github.com/revstat/revstat/pkg/reviewlog"
)

// CalendarMetric derives per-day calendar features and the policy total.
// It is the leaf stage: every later stage consumes its output.
type CalendarMetric struct {
	metrics.MetricMeta

	// Policy derives each day's total from its raw counts.
	Policy reviewlog.TotalPolicy
}

// NewCalendarMetric creates the calendar enrichment metric.
func NewCalendarMetric(policy reviewlog.TotalPolicy) *CalendarMetric {
	return &CalendarMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "calendar",
			MetricDisplayName: "Calendar Enrichment",
			MetricDescription: "Per-day calendar features: weekday name and index (Monday=0), ISO week, " +
				"year, year-week and month keys, and day of year. Also derives the day's total " +
				"under the configured policy.",
			MetricType: "enrichment",
		},
		Policy: policy,
	}
}

// Compute maps raw records to enriched days. Input dates are assumed
// validated; per-record derivation carries no cross-record state.
func (m *CalendarMetric) Compute(input []reviewlog.DailyRecord) []EnrichedDay {
	days := make([]EnrichedDay, len(input))

	for i, rec := range input {
		days[i] = enrichDay(rec, m.Policy)
	}

	return days
}

// enrichDay derives the calendar fields of a single record.
func enrichDay(rec reviewlog.DailyRecord, policy reviewlog.TotalPolicy) EnrichedDay {
	_, week := rec.Date.ISOWeek()
	total := policy.Total(rec)

	return EnrichedDay{
		Time:       rec.Date,
		Date:       rec.Date.Format(reviewlog.DateLayout),
		Weekday:    rec.Date.Weekday().String(),
		WeekdayNum: mondayIndex(rec.Date.Weekday()),
		Week:       week,
		Year:       rec.Date.Year(),
		// The key pairs the calendar year with the ISO week number, so
		// early-January days in ISO week 52/53 keep the new year in the key.
		YearWeek:  fmt.Sprintf("%d-W%02d", rec.Date.Year(), week),
		Month:     rec.Date.Format("2006-01"),
		DayOfYear: rec.Date.YearDay(),
		Learning:  rec.Learning,
		Review:    rec.Review,
		Relearn:   rec.Relearn,
		Cheated:   rec.Cheated,
		Total:     total,
	}
}

// mondayIndex converts Go's Sunday-first weekday to a Monday=0..Sunday=6 index.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % weekdayCount
}

// weekdayCount is the number of days in a week.
const weekdayCount = 7
