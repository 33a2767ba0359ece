package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streakDays runs the pipeline prefix a streak computation depends on.
func streakDays(totals ...int) []EnrichedDay {
	days := calendarDays("2025-08-04", totals...)
	days = NewActivityMetric(DefaultActivityThreshold).Compute(days)

	return NewStreakMetric().Compute(days)
}

func TestStreakMetricSequence(t *testing.T) {
	t.Parallel()

	days := streakDays(0, 0, 5, 5, 5, 0, 0, 0, 0, 5)

	want := []int{0, 0, 1, 2, 3, 0, 0, 0, 0, 1}
	require.Len(t, days, len(want))

	for i, d := range days {
		assert.Equal(t, want[i], d.Streak, "streak at %s", d.Date)
	}

	assert.Equal(t, 3, MaxStreak(days))
	assert.Equal(t, 1, CurrentStreak(days))
}

func TestCurrentStreakZeroAfterTrailingInactiveDay(t *testing.T) {
	t.Parallel()

	days := streakDays(5, 5, 5, 0)

	assert.Equal(t, 3, MaxStreak(days))
	assert.Equal(t, 0, CurrentStreak(days))
}

func TestStreakMetricAllActive(t *testing.T) {
	t.Parallel()

	days := streakDays(1, 1, 1, 1, 1)

	for i, d := range days {
		assert.Equal(t, i+1, d.Streak, "streak at %s", d.Date)
	}

	assert.Equal(t, 5, MaxStreak(days))
	assert.Equal(t, 5, CurrentStreak(days))
}

func TestStreakImpliesActive(t *testing.T) {
	t.Parallel()

	days := streakDays(3, 0, 1, 1, 0, 0, 2, 5, 8, 0, 4)

	for _, d := range days {
		if d.Streak > 0 {
			assert.True(t, d.IsActive, "day %s has streak %d", d.Date, d.Streak)
		} else {
			assert.False(t, d.IsActive, "day %s", d.Date)
		}
	}
}

func TestStreakHelpersEmptyInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, MaxStreak(nil))
	assert.Equal(t, 0, CurrentStreak(nil))
	assert.Empty(t, StreakRuns(nil))
}

func TestStreakRuns(t *testing.T) {
	t.Parallel()

	days := streakDays(0, 5, 5, 5, 0, 0, 2, 0, 4, 4)

	runs := StreakRuns(days)
	require.Len(t, runs, 3)

	assert.Equal(t, StreakRun{Start: "2025-08-05", End: "2025-08-07", LengthDays: 3}, runs[0])
	assert.Equal(t, StreakRun{Start: "2025-08-10", End: "2025-08-10", LengthDays: 1}, runs[1])
	assert.Equal(t, StreakRun{Start: "2025-08-12", End: "2025-08-13", LengthDays: 2}, runs[2])
}

func TestStreakRunsOpenAtEnd(t *testing.T) {
	t.Parallel()

	days := streakDays(1, 1, 1)

	runs := StreakRuns(days)
	require.Len(t, runs, 1)
	assert.Equal(t, StreakRun{Start: "2025-08-04", End: "2025-08-06", LengthDays: 3}, runs[0])
}

func TestStreakRunsNoActiveDays(t *testing.T) {
	t.Parallel()

	assert.Empty(t, StreakRuns(streakDays(0, 0, 0)))
}
