package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revstat/revstat/pkg/reviewlog"
)

func TestSummaryMetricMixedCategories(t *testing.T) {
	t.Parallel()

	records := []reviewlog.DailyRecord{
		{Date: day("2025-08-04"), Learning: 10, Review: 30, Relearn: 5},
		{Date: day("2025-08-05")},
		{Date: day("2025-08-06"), Learning: 10, Review: 40, Relearn: 15, Cheated: 10},
		{Date: day("2025-08-07")},
	}

	m := ComputeAllMetrics(records, DefaultOptions())
	s := m.Summary

	// Honest totals: 40 and 40, cheating subtracted.
	assert.Equal(t, 80, s.TotalCards)
	assert.Equal(t, 20, s.TotalLearning)
	assert.Equal(t, 70, s.TotalReview)
	assert.Equal(t, 20, s.TotalRelearn)
	assert.Equal(t, 10, s.TotalCheated)

	assert.Equal(t, 4, s.TotalDays)
	assert.Equal(t, 2, s.ActiveDays)
	assert.Equal(t, 2, s.InactiveDays)

	assert.InDelta(t, 50.0, s.ActiveDaysPct, 0.0001)
	assert.InDelta(t, 20.0, s.AvgPerDay, 0.0001)
	assert.InDelta(t, 40.0, s.AvgPerActiveDay, 0.0001)
	assert.InDelta(t, 25.0, s.RelearnRate, 0.0001)
	assert.InDelta(t, 25.0, s.LearningPct, 0.0001)
	assert.InDelta(t, 87.5, s.ReviewPct, 0.0001)

	assert.Equal(t, "August 04, 2025 - August 07, 2025", s.DateRange)
}

func TestSummaryMetricAllZeroDays(t *testing.T) {
	t.Parallel()

	records := recordsFromTotals("2025-08-04", 0, 0, 0, 0, 0)
	s := ComputeAllMetrics(records, DefaultOptions()).Summary

	assert.Equal(t, 5, s.TotalDays)
	assert.Zero(t, s.TotalCards)
	assert.Zero(t, s.ActiveDays)
	assert.Equal(t, 5, s.InactiveDays)

	// Every ratio over an empty numerator or zero denominator stays 0.
	assert.Zero(t, s.ActiveDaysPct)
	assert.Zero(t, s.AvgPerDay)
	assert.Zero(t, s.AvgPerActiveDay)
	assert.Zero(t, s.RelearnRate)
	assert.Zero(t, s.LearningPct)
	assert.Zero(t, s.ReviewPct)

	assert.Zero(t, s.MaxStreak)
	assert.Zero(t, s.CurrentStreak)
	assert.Equal(t, "August 04, 2025 - August 08, 2025", s.DateRange)
}

func TestSummaryMetricInactiveComplementsActive(t *testing.T) {
	t.Parallel()

	// Threshold 5: total 3 falls below the bar, so it counts as inactive
	// even though it is nonzero. Active and inactive always sum to total.
	opts := DefaultOptions()
	opts.ActivityThreshold = 5

	records := recordsFromTotals("2025-08-04", 3, 7, 7)
	s := ComputeAllMetrics(records, opts).Summary

	assert.Equal(t, 3, s.TotalDays)
	assert.Equal(t, 2, s.ActiveDays)
	assert.Equal(t, 1, s.InactiveDays)
}

func TestSummaryMetricEmptyInput(t *testing.T) {
	t.Parallel()

	s := NewSummaryMetric().Compute(nil)

	assert.Equal(t, SummaryStats{}, s)
	assert.Empty(t, s.DateRange)
}
