package analytics

import (
	"github.com/revstat/revstat/pkg/metrics"
)

// ActivityMetric flags each day as active or zero. A day is active when its
// total meets the threshold; IsZero additionally marks days with exactly no
// activity, which differs from inactive when the threshold is above 1.
type ActivityMetric struct {
	metrics.MetricMeta

	// Threshold is the minimum total for an active day.
	Threshold int
}

// NewActivityMetric creates the activity classification metric.
func NewActivityMetric(threshold int) *ActivityMetric {
	return &ActivityMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "activity",
			MetricDisplayName: "Activity Classification",
			MetricDescription: "Per-day activity flags: active when the total meets the configured " +
				"threshold, zero when the total is exactly 0.",
			MetricType: "enrichment",
		},
		Threshold: threshold,
	}
}

// Compute annotates each day with its activity flags. Pure per-record
// predicate; no cross-record state.
func (m *ActivityMetric) Compute(days []EnrichedDay) []EnrichedDay {
	for i := range days {
		days[i].IsActive = days[i].Total >= m.Threshold
		days[i].IsZero = days[i].Total == 0
	}

	return days
}
