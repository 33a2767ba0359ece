package analytics

import (
	"github.com/revstat/revstat/pkg/metrics"
)

// StreakMetric tracks runs of consecutive active days. This is a sequential
// fold carrying a running counter across the date-ordered sequence; it
// cannot be computed per record independently.
type StreakMetric struct {
	metrics.MetricMeta
}

// NewStreakMetric creates the streak-tracking metric.
func NewStreakMetric() *StreakMetric {
	return &StreakMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "streaks",
			MetricDisplayName: "Active-Day Streaks",
			MetricDescription: "Length of the active-day run ending at each day: incremented on " +
				"active days, reset to 0 on inactive days. The trailing day's value is the " +
				"dataset's current streak, 0 when the dataset ends on an inactive day.",
			MetricType: "time_series",
		},
	}
}

// Compute annotates each day with the streak length ending at it.
func (m *StreakMetric) Compute(days []EnrichedDay) []EnrichedDay {
	current := 0

	for i := range days {
		if days[i].IsActive {
			current++
		} else {
			current = 0
		}

		days[i].Streak = current
	}

	return days
}

// MaxStreak returns the longest streak in the annotated sequence.
func MaxStreak(days []EnrichedDay) int {
	best := 0

	for i := range days {
		if days[i].Streak > best {
			best = days[i].Streak
		}
	}

	return best
}

// CurrentStreak returns the trailing day's streak, deliberately 0 when the
// sequence ends on an inactive day even if a streak ended just before it.
func CurrentStreak(days []EnrichedDay) int {
	if len(days) == 0 {
		return 0
	}

	return days[len(days)-1].Streak
}

// StreakRun is one maximal run of consecutive active days.
type StreakRun struct {
	Start      string `json:"start_date"  yaml:"start_date"`
	End        string `json:"end_date"    yaml:"end_date"`
	LengthDays int    `json:"length_days" yaml:"length_days"`
}

// StreakRuns lists every maximal active run in chronological order. A day
// ends a run when it is active and the next day is not, or the sequence ends.
func StreakRuns(days []EnrichedDay) []StreakRun {
	var runs []StreakRun

	for i := range days {
		if days[i].Streak == 0 {
			continue
		}

		if i+1 < len(days) && days[i+1].Streak != 0 {
			continue
		}

		length := days[i].Streak
		runs = append(runs, StreakRun{
			Start:      days[i-length+1].Date,
			End:        days[i].Date,
			LengthDays: length,
		})
	}

	return runs
}
