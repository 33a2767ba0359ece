// Package reviewlog defines the daily review record model and loaders for
// review history datasets. A dataset is an ordered, contiguous sequence of
// per-day card counts: one record per calendar day, no duplicates, no holes.
// Loaders validate the sequence at the boundary so downstream computation can
// assume well-formed input.
package reviewlog

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for dataset ingestion.
var (
	// ErrInvalidDate indicates an unparsable, duplicate or out-of-order date.
	ErrInvalidDate = errors.New("reviewlog: invalid date")
	// ErrMalformedRecord indicates negative counts or missing required fields.
	ErrMalformedRecord = errors.New("reviewlog: malformed record")
	// ErrEmptyInput indicates a dataset with zero records.
	ErrEmptyInput = errors.New("reviewlog: empty input")
	// ErrUnknownPolicy indicates an unrecognized total policy name.
	ErrUnknownPolicy = errors.New("reviewlog: unknown total policy")
)

// DateLayout is the canonical on-disk date format.
const DateLayout = "2006-01-02"

// DailyRecord is one calendar day's study activity.
// Counts are per card state; Cheated counts near-instant answers that are
// suspected low-effort reviews.
type DailyRecord struct {
	Date     time.Time `json:"date"              yaml:"date"`
	Learning int       `json:"learning"          yaml:"learning"`
	Review   int       `json:"review"            yaml:"review"`
	Relearn  int       `json:"relearn"           yaml:"relearn"`
	Cheated  int       `json:"cheated,omitempty" yaml:"cheated,omitempty"`
}

// TotalPolicy selects how a day's total activity is derived from its counts.
// Datasets produced at different times used different conventions, so the
// policy is explicit configuration rather than inferred from column presence.
type TotalPolicy string

// Supported total policies, oldest convention first.
const (
	// PolicyAll counts every answer: learning + review + relearn.
	PolicyAll TotalPolicy = "all"
	// PolicyGross counts distinct study work: learning + review.
	PolicyGross TotalPolicy = "gross"
	// PolicyHonest subtracts suspect answers: learning + review − cheated.
	PolicyHonest TotalPolicy = "honest"
)

// DefaultPolicy is the policy applied when none is configured.
const DefaultPolicy = PolicyHonest

// ParseTotalPolicy converts a policy name into a TotalPolicy.
func ParseTotalPolicy(name string) (TotalPolicy, error) {
	switch TotalPolicy(name) {
	case PolicyAll, PolicyGross, PolicyHonest:
		return TotalPolicy(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Total derives the day's total activity under the policy.
// The honest policy may legitimately go negative when a day consists almost
// entirely of suspect answers; no clamping is applied.
func (p TotalPolicy) Total(r DailyRecord) int {
	switch p {
	case PolicyAll:
		return r.Learning + r.Review + r.Relearn
	case PolicyGross:
		return r.Learning + r.Review
	case PolicyHonest:
		return r.Learning + r.Review - r.Cheated
	default:
		return r.Learning + r.Review - r.Cheated
	}
}

// Validate checks the boundary invariants of a dataset: at least one record,
// non-negative counts, and strictly increasing contiguous dates (exactly one
// record per calendar day). The first violation is returned with the
// offending index and date.
func Validate(records []DailyRecord) error {
	if len(records) == 0 {
		return ErrEmptyInput
	}

	for i, r := range records {
		if r.Date.IsZero() {
			return fmt.Errorf("%w: record %d has no date", ErrInvalidDate, i)
		}

		if r.Learning < 0 || r.Review < 0 || r.Relearn < 0 || r.Cheated < 0 {
			return fmt.Errorf("%w: negative count on %s", ErrMalformedRecord, r.Date.Format(DateLayout))
		}

		if i == 0 {
			continue
		}

		gap := daysBetween(records[i-1].Date, r.Date)

		switch {
		case gap <= 0:
			return fmt.Errorf("%w: %s is not after %s",
				ErrInvalidDate, r.Date.Format(DateLayout), records[i-1].Date.Format(DateLayout))
		case gap > 1:
			return fmt.Errorf("%w: missing %d day(s) before %s",
				ErrMalformedRecord, gap-1, r.Date.Format(DateLayout))
		}
	}

	return nil
}

// daysBetween returns the whole-day distance from a to b, ignoring the time
// of day and any DST offset between them.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	return int(bd.Sub(ad).Hours() / 24)
}
