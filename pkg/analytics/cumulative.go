package analytics

import (
	"github.com/revstat/revstat/pkg/metrics"
)

// CumulativeMetric computes running sums of the per-category counts in date
// order. Reordering the input changes the result.
type CumulativeMetric struct {
	metrics.MetricMeta
}

// NewCumulativeMetric creates the cumulative-totals metric.
func NewCumulativeMetric() *CumulativeMetric {
	return &CumulativeMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "cumulative",
			MetricDisplayName: "Cumulative Totals",
			MetricDescription: "Running sums of total, learning, review and relearn counts " +
				"across the date-ordered sequence.",
			MetricType: "time_series",
		},
	}
}

// Compute annotates each day with the running sums up to and including it.
func (m *CumulativeMetric) Compute(days []EnrichedDay) []EnrichedDay {
	var total, learning, review, relearn int

	for i := range days {
		total += days[i].Total
		learning += days[i].Learning
		review += days[i].Review
		relearn += days[i].Relearn

		days[i].CumulativeTotal = total
		days[i].CumulativeLearning = learning
		days[i].CumulativeReview = review
		days[i].CumulativeRelearn = relearn
	}

	return days
}
