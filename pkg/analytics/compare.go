package analytics

import (
	"fmt"

	"github.com/revstat/revstat/pkg/alg/stats"
)

// PeriodStats summarizes one period for comparison reports. Medians are
// taken over study days only (days with a positive total), so zero days do
// not drag the typical workload down. Clean days are study days without any
// suspect answers, and the clean rate and cheated average share the
// study-day basis.
type PeriodStats struct {
	Label string `json:"label" yaml:"label"`

	Days         int     `json:"days"          yaml:"days"`
	StudyDays    int     `json:"study_days"    yaml:"study_days"`
	ActivityRate float64 `json:"activity_rate" yaml:"activity_rate"`

	MedianTotal    float64 `json:"median_total"    yaml:"median_total"`
	MedianLearning float64 `json:"median_learning" yaml:"median_learning"`
	MedianReview   float64 `json:"median_review"   yaml:"median_review"`
	MedianRelearn  float64 `json:"median_relearn"  yaml:"median_relearn"`
	MedianCheated  float64 `json:"median_cheated"  yaml:"median_cheated"`

	CleanDays  int     `json:"clean_days"  yaml:"clean_days"`
	CleanRate  float64 `json:"clean_rate"  yaml:"clean_rate"`
	AvgCheated float64 `json:"avg_cheated" yaml:"avg_cheated"`
}

// PeriodComparison sets a focus month against the full dataset range.
type PeriodComparison struct {
	Full  PeriodStats `json:"full"  yaml:"full"`
	Focus PeriodStats `json:"focus" yaml:"focus"`
}

// CompareMonth builds the comparison between the whole dataset and one
// focus month (key form "2006-01"). Returns ErrUnknownMonth when the month
// has no days in the dataset.
func CompareMonth(days []EnrichedDay, month string) (*PeriodComparison, error) {
	var focus []EnrichedDay

	for i := range days {
		if days[i].Month == month {
			focus = append(focus, days[i])
		}
	}

	if len(focus) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMonth, month)
	}

	return &PeriodComparison{
		Full:  periodStats("full range", days),
		Focus: periodStats(month, focus),
	}, nil
}

// periodStats computes the comparison figures of one period.
func periodStats(label string, days []EnrichedDay) PeriodStats {
	p := PeriodStats{Label: label, Days: len(days)}

	var (
		totals, learning, review, relearn, cheated []float64
		cheatedSum                                 int
	)

	for i := range days {
		if days[i].Total <= 0 {
			continue
		}

		p.StudyDays++

		totals = append(totals, float64(days[i].Total))
		learning = append(learning, float64(days[i].Learning))
		review = append(review, float64(days[i].Review))
		relearn = append(relearn, float64(days[i].Relearn))
		cheated = append(cheated, float64(days[i].Cheated))

		if days[i].Cheated == 0 {
			p.CleanDays++
		}

		cheatedSum += days[i].Cheated
	}

	p.ActivityRate = pct(float64(p.StudyDays), float64(p.Days))
	p.CleanRate = pct(float64(p.CleanDays), float64(p.StudyDays))
	p.AvgCheated = ratio(float64(cheatedSum), float64(p.StudyDays))

	p.MedianTotal = stats.Median(totals)
	p.MedianLearning = stats.Median(learning)
	p.MedianReview = stats.Median(review)
	p.MedianRelearn = stats.Median(relearn)
	p.MedianCheated = stats.Median(cheated)

	return p
}
