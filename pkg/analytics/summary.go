package analytics

import (
	"github.com/revstat/revstat/pkg/metrics"
)

// SummaryMetric computes the scalar rollup of a fully annotated sequence.
// It expects activity flags and streaks to be present.
type SummaryMetric struct {
	metrics.MetricMeta
}

// NewSummaryMetric creates the summary statistics metric.
func NewSummaryMetric() *SummaryMetric {
	return &SummaryMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "summary",
			MetricDisplayName: "Summary Statistics",
			MetricDescription: "Dataset-wide totals, activity ratios, per-day averages, streak " +
				"extremes and the covered date range. Every ratio reports 0 when its " +
				"denominator is 0.",
			MetricType: "aggregate",
		},
	}
}

// Compute builds the snapshot. An empty sequence yields all-zero stats with
// an empty date range rather than an error.
func (m *SummaryMetric) Compute(days []EnrichedDay) SummaryStats {
	var s SummaryStats

	s.TotalDays = len(days)

	for i := range days {
		s.TotalCards += days[i].Total
		s.TotalLearning += days[i].Learning
		s.TotalReview += days[i].Review
		s.TotalRelearn += days[i].Relearn
		s.TotalCheated += days[i].Cheated

		if days[i].IsActive {
			s.ActiveDays++
		}
	}

	s.InactiveDays = s.TotalDays - s.ActiveDays

	s.ActiveDaysPct = pct(float64(s.ActiveDays), float64(s.TotalDays))
	s.AvgPerDay = ratio(float64(s.TotalCards), float64(s.TotalDays))
	s.AvgPerActiveDay = ratio(float64(s.TotalCards), float64(s.ActiveDays))
	s.RelearnRate = pct(float64(s.TotalRelearn), float64(s.TotalCards))
	s.LearningPct = pct(float64(s.TotalLearning), float64(s.TotalCards))
	s.ReviewPct = pct(float64(s.TotalReview), float64(s.TotalCards))

	s.MaxStreak = MaxStreak(days)
	s.CurrentStreak = CurrentStreak(days)

	if len(days) > 0 {
		first := days[0].Time.Format(dateRangeLayout)
		last := days[len(days)-1].Time.Format(dateRangeLayout)
		s.DateRange = first + " - " + last
	}

	return s
}
