package analytics

import (
	"github.com/revstat/revstat/pkg/metrics"
)

// RollingMetric computes centered moving averages of the daily total for
// each configured window size. The window straddles the current day
// symmetrically rather than trailing up to it, which smooths trend lines at
// the cost of availability near the sequence boundaries: a day's average is
// nil unless the full window fits inside the sequence.
type RollingMetric struct {
	metrics.MetricMeta

	// Windows are the window sizes in days.
	Windows []int
}

// NewRollingMetric creates the rolling-average metric.
func NewRollingMetric(windows []int) *RollingMetric {
	return &RollingMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "rolling_average",
			MetricDisplayName: "Centered Moving Averages",
			MetricDescription: "Centered moving average of the daily total per window size. " +
				"Values are null where fewer than a full window of days exists around the day. " +
				"Not a trailing average: a day's value incorporates days after it.",
			MetricType: "time_series",
		},
		Windows: windows,
	}
}

// Compute annotates each day with its per-window averages and returns the
// slice. For an even window w the average covers w/2 days before the current
// day and w/2−1 after it; for odd w it covers (w−1)/2 on each side.
func (m *RollingMetric) Compute(days []EnrichedDay) []EnrichedDay {
	for i := range days {
		days[i].MovingAvg = make(map[int]*float64, len(m.Windows))
	}

	for _, w := range m.Windows {
		if w <= 0 {
			continue
		}

		annotateWindow(days, w)
	}

	return days
}

// annotateWindow fills the averages of one window size across all days.
func annotateWindow(days []EnrichedDay, w int) {
	before := w / 2
	after := (w - 1) / 2

	for i := range days {
		lo := i - before
		hi := i + after

		if lo < 0 || hi >= len(days) {
			days[i].MovingAvg[w] = nil

			continue
		}

		var sum int

		for j := lo; j <= hi; j++ {
			sum += days[j].Total
		}

		avg := float64(sum) / float64(w)
		days[i].MovingAvg[w] = &avg
	}
}
