// Package analytics derives dashboard-ready time-series features from a
// validated review history: calendar enrichment, centered moving averages,
// cumulative totals, activity classification, streaks, inactivity gaps,
// period aggregates, a weekday×week heatmap grid and a scalar summary.
//
// Every stage is a pure value computation over the date-ordered day sequence.
// The full derived model is recreated on each run; nothing is updated
// incrementally and callers must treat all outputs as read-only.
package analytics

import (
	"errors"
	"time"

	"github.com/revstat/revstat/pkg/reviewlog"
)

// Sentinel errors for the analytics pipeline.
var (
	// ErrUnsupportedFormat indicates an output format this package cannot render.
	ErrUnsupportedFormat = errors.New("analytics: unsupported format")
	// ErrUnknownMonth indicates a focus month with no days in the dataset.
	ErrUnknownMonth = errors.New("analytics: month not present in dataset")
)

// Default configuration values.
const (
	// DefaultActivityThreshold is the minimum total for a day to count as active.
	DefaultActivityThreshold = 1
	// DefaultMinGapDays is the minimum run of inactive days reported as a gap.
	DefaultMinGapDays = 3
)

// DefaultWindows returns the default centered moving-average window sizes.
func DefaultWindows() []int {
	return []int{7, 30}
}

// Options configures the pipeline. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// ActivityThreshold is the minimum total for an active day.
	ActivityThreshold int
	// Windows are the centered moving-average window sizes, in days.
	Windows []int
	// MinGapDays is the minimum inactive-run length reported as a gap.
	MinGapDays int
	// Policy selects how a day's total is derived from its counts.
	Policy reviewlog.TotalPolicy
}

// DefaultOptions returns the standard pipeline configuration.
func DefaultOptions() Options {
	return Options{
		ActivityThreshold: DefaultActivityThreshold,
		Windows:           DefaultWindows(),
		MinGapDays:        DefaultMinGapDays,
		Policy:            reviewlog.DefaultPolicy,
	}
}

// EnrichedDay is one day of the derived model: the raw counts plus every
// field added by the pipeline stages. MovingAvg entries are nil where the
// centered window does not fit inside the sequence.
type EnrichedDay struct {
	Time time.Time `json:"-" yaml:"-"`

	Date       string `json:"date"        yaml:"date"`
	Weekday    string `json:"weekday"     yaml:"weekday"`
	WeekdayNum int    `json:"weekday_num" yaml:"weekday_num"`
	Week       int    `json:"week"        yaml:"week"`
	Year       int    `json:"year"        yaml:"year"`
	YearWeek   string `json:"year_week"   yaml:"year_week"`
	Month      string `json:"month"       yaml:"month"`
	DayOfYear  int    `json:"day_of_year" yaml:"day_of_year"`

	Learning int `json:"learning" yaml:"learning"`
	Review   int `json:"review"   yaml:"review"`
	Relearn  int `json:"relearn"  yaml:"relearn"`
	Cheated  int `json:"cheated"  yaml:"cheated"`
	Total    int `json:"total"    yaml:"total"`

	MovingAvg map[int]*float64 `json:"moving_avg,omitempty" yaml:"moving_avg,omitempty"`

	CumulativeTotal    int `json:"cumulative_total"    yaml:"cumulative_total"`
	CumulativeLearning int `json:"cumulative_learning" yaml:"cumulative_learning"`
	CumulativeReview   int `json:"cumulative_review"   yaml:"cumulative_review"`
	CumulativeRelearn  int `json:"cumulative_relearn"  yaml:"cumulative_relearn"`

	IsActive bool `json:"is_active" yaml:"is_active"`
	IsZero   bool `json:"is_zero"   yaml:"is_zero"`
	Streak   int  `json:"streak"    yaml:"streak"`
}

// MonthlyAggregate is the rollup of one calendar month.
type MonthlyAggregate struct {
	Month       string  `json:"month"        yaml:"month"`
	Learning    int     `json:"learning"     yaml:"learning"`
	Review      int     `json:"review"       yaml:"review"`
	Relearn     int     `json:"relearn"      yaml:"relearn"`
	Total       int     `json:"total"        yaml:"total"`
	ActiveDays  int     `json:"active_days"  yaml:"active_days"`
	RelearnRate float64 `json:"relearn_rate" yaml:"relearn_rate"`
}

// WeekdayAggregate is the rollup of one weekday across the full range.
// Mean, Median and StdDev describe the distribution of daily totals falling
// on that weekday; StdDev is the sample standard deviation.
type WeekdayAggregate struct {
	Weekday    string  `json:"weekday"     yaml:"weekday"`
	WeekdayNum int     `json:"weekday_num" yaml:"weekday_num"`
	Learning   int     `json:"learning"    yaml:"learning"`
	Review     int     `json:"review"      yaml:"review"`
	Relearn    int     `json:"relearn"     yaml:"relearn"`
	Total      int     `json:"total"       yaml:"total"`
	ActiveDays int     `json:"active_days" yaml:"active_days"`
	Mean       float64 `json:"mean"        yaml:"mean"`
	Median     float64 `json:"median"      yaml:"median"`
	StdDev     float64 `json:"std_dev"     yaml:"std_dev"`
}

// Gap is a maximal run of consecutive inactive days that met the minimum
// length. End is the last inactive date of the run, not the day activity
// resumed.
type Gap struct {
	Start      string `json:"start_date"  yaml:"start_date"`
	End        string `json:"end_date"    yaml:"end_date"`
	LengthDays int    `json:"length_days" yaml:"length_days"`
}

// HeatmapGrid is a dense weekday×week matrix of summed totals. Rows follow
// Weekdays (Monday first), columns follow Weeks (chronological). Cells holds
// one row per weekday; combinations with no records are 0.
type HeatmapGrid struct {
	Weekdays []string `json:"weekdays" yaml:"weekdays"`
	Weeks    []string `json:"weeks"    yaml:"weeks"`
	Cells    [][]int  `json:"cells"    yaml:"cells"`
}

// SummaryStats is the immutable scalar snapshot of one dataset. All ratios
// are 0 when their denominator is 0.
type SummaryStats struct {
	TotalCards    int `json:"total_cards"    yaml:"total_cards"`
	TotalLearning int `json:"total_learning" yaml:"total_learning"`
	TotalReview   int `json:"total_review"   yaml:"total_review"`
	TotalRelearn  int `json:"total_relearn"  yaml:"total_relearn"`
	TotalCheated  int `json:"total_cheated"  yaml:"total_cheated"`

	TotalDays    int `json:"total_days"    yaml:"total_days"`
	ActiveDays   int `json:"active_days"   yaml:"active_days"`
	InactiveDays int `json:"inactive_days" yaml:"inactive_days"`

	ActiveDaysPct   float64 `json:"active_days_pct"    yaml:"active_days_pct"`
	AvgPerDay       float64 `json:"avg_per_day"        yaml:"avg_per_day"`
	AvgPerActiveDay float64 `json:"avg_per_active_day" yaml:"avg_per_active_day"`
	RelearnRate     float64 `json:"relearn_rate"       yaml:"relearn_rate"`
	LearningPct     float64 `json:"learning_pct"       yaml:"learning_pct"`
	ReviewPct       float64 `json:"review_pct"         yaml:"review_pct"`

	MaxStreak     int `json:"max_streak"     yaml:"max_streak"`
	CurrentStreak int `json:"current_streak" yaml:"current_streak"`

	DateRange string `json:"date_range" yaml:"date_range"`
}

// dateRangeLayout formats dataset boundary dates for human display.
const dateRangeLayout = "January 02, 2006"

// pct returns part/whole*100, or 0 when whole is 0.
func pct(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}

	return part / whole * 100
}

// ratio returns num/den, or 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}

	return num / den
}
