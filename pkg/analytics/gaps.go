package analytics

import (
	"github.com/revstat/revstat/pkg/metrics"
)

// GapMetric finds maximal runs of consecutive inactive days of at least the
// configured minimum length. Like streak tracking it is a sequential fold:
// an open-gap state threads through one ordered traversal.
type GapMetric struct {
	metrics.MetricMeta

	// MinGapDays is the minimum run length reported.
	MinGapDays int
}

// NewGapMetric creates the gap-detection metric.
func NewGapMetric(minGapDays int) *GapMetric {
	return &GapMetric{
		MetricMeta: metrics.MetricMeta{
			MetricName:        "gaps",
			MetricDisplayName: "Inactivity Gaps",
			MetricDescription: "Maximal runs of consecutive inactive days meeting the minimum length. " +
				"A gap ends on its last inactive date. Shorter runs are discarded, not reported " +
				"as partial records.",
			MetricType: "list",
		},
		MinGapDays: minGapDays,
	}
}

// gapState carries the open-gap accumulator through the traversal.
type gapState struct {
	open   bool
	start  int // index of the first inactive day
	length int
}

// Compute returns the chronologically ordered gaps of the sequence.
func (m *GapMetric) Compute(days []EnrichedDay) []Gap {
	gaps := []Gap{}

	var state gapState

	for i := range days {
		if !days[i].IsActive {
			if !state.open {
				state = gapState{open: true, start: i, length: 1}
			} else {
				state.length++
			}

			continue
		}

		if state.open {
			if state.length >= m.MinGapDays {
				gaps = append(gaps, newGap(days, state.start, i-1, state.length))
			}

			state = gapState{}
		}
	}

	// A run that extends to the end of the sequence closes on the last date.
	if state.open && state.length >= m.MinGapDays {
		gaps = append(gaps, newGap(days, state.start, len(days)-1, state.length))
	}

	return gaps
}

func newGap(days []EnrichedDay, startIdx, endIdx, length int) Gap {
	return Gap{
		Start:      days[startIdx].Date,
		End:        days[endIdx].Date,
		LengthDays: length,
	}
}
