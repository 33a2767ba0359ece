package reviewlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}

	return d
}

func TestParseTotalPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected TotalPolicy
		wantErr  bool
	}{
		{name: "all", input: "all", expected: PolicyAll},
		{name: "gross", input: "gross", expected: PolicyGross},
		{name: "honest", input: "honest", expected: PolicyHonest},
		{name: "unknown_rejected", input: "net", wantErr: true},
		{name: "empty_rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseTotalPolicy(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownPolicy)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTotalPolicyTotal(t *testing.T) {
	t.Parallel()

	rec := DailyRecord{Date: day("2025-08-04"), Learning: 20, Review: 100, Relearn: 7, Cheated: 5}

	tests := []struct {
		name     string
		policy   TotalPolicy
		expected int
	}{
		{name: "all_counts_every_answer", policy: PolicyAll, expected: 127},
		{name: "gross_ignores_relearn_and_cheated", policy: PolicyGross, expected: 120},
		{name: "honest_subtracts_cheated", policy: PolicyHonest, expected: 115},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.policy.Total(rec))
		})
	}
}

func TestTotalHonestCanGoNegative(t *testing.T) {
	t.Parallel()

	rec := DailyRecord{Date: day("2025-08-04"), Learning: 0, Review: 3, Cheated: 10}

	assert.Equal(t, -7, PolicyHonest.Total(rec))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records []DailyRecord
		wantErr error
	}{
		{
			name:    "empty_input",
			records: nil,
			wantErr: ErrEmptyInput,
		},
		{
			name: "single_record_ok",
			records: []DailyRecord{
				{Date: day("2025-08-04"), Review: 10},
			},
		},
		{
			name: "contiguous_ok",
			records: []DailyRecord{
				{Date: day("2025-08-04"), Review: 10},
				{Date: day("2025-08-05"), Review: 12},
				{Date: day("2025-08-06")},
			},
		},
		{
			name: "zero_date",
			records: []DailyRecord{
				{Review: 10},
			},
			wantErr: ErrInvalidDate,
		},
		{
			name: "negative_count",
			records: []DailyRecord{
				{Date: day("2025-08-04"), Review: -1},
			},
			wantErr: ErrMalformedRecord,
		},
		{
			name: "duplicate_date",
			records: []DailyRecord{
				{Date: day("2025-08-04")},
				{Date: day("2025-08-04")},
			},
			wantErr: ErrInvalidDate,
		},
		{
			name: "out_of_order",
			records: []DailyRecord{
				{Date: day("2025-08-05")},
				{Date: day("2025-08-04")},
			},
			wantErr: ErrInvalidDate,
		},
		{
			name: "missing_day",
			records: []DailyRecord{
				{Date: day("2025-08-04")},
				{Date: day("2025-08-06")},
			},
			wantErr: ErrMalformedRecord,
		},
		{
			name: "month_boundary_ok",
			records: []DailyRecord{
				{Date: day("2025-08-31")},
				{Date: day("2025-09-01")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.records)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}
