package reviewlog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownInput indicates a dataset file whose format cannot be determined.
var ErrUnknownInput = fmt.Errorf("reviewlog: unrecognized input format")

// CSV column names. Order in the file does not matter; columns are resolved
// by header name. A Total column, if present, is ignored and recomputed
// downstream under the configured policy.
const (
	columnDate     = "Date"
	columnLearning = "Learning"
	columnReview   = "Review"
	columnRelearn  = "Relearn"
	columnCheated  = "Cheated"
)

// ReadFile loads a dataset from path, detecting the format from the file
// extension (.csv or .json). The returned records are validated.
func ReadFile(path string) ([]DailyRecord, error) {
	var load func(io.Reader) ([]DailyRecord, error)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		load = LoadCSV
	case ".json":
		load = LoadJSON
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownInput, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return load(f)
}

// LoadCSV reads a dataset from CSV with a header row naming at least the
// Date, Learning, Review and Relearn columns. The records are validated
// before being returned.
func LoadCSV(r io.Reader) ([]DailyRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var records []DailyRecord

	for line := 2; ; line++ {
		row, readErr := cr.Read()
		if readErr == io.EOF {
			break
		}

		if readErr != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, readErr)
		}

		rec, rowErr := parseRow(row, cols)
		if rowErr != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, rowErr)
		}

		records = append(records, rec)
	}

	if err := Validate(records); err != nil {
		return nil, err
	}

	return records, nil
}

// columnIndex maps the known columns to their positions in the header.
// A value of -1 means the column is absent.
type columnIndex struct {
	date     int
	learning int
	review   int
	relearn  int
	cheated  int
}

func resolveColumns(header []string) (columnIndex, error) {
	cols := columnIndex{date: -1, learning: -1, review: -1, relearn: -1, cheated: -1}

	for i, name := range header {
		switch strings.TrimSpace(name) {
		case columnDate:
			cols.date = i
		case columnLearning:
			cols.learning = i
		case columnReview:
			cols.review = i
		case columnRelearn:
			cols.relearn = i
		case columnCheated:
			cols.cheated = i
		}
	}

	if cols.date < 0 || cols.learning < 0 || cols.review < 0 || cols.relearn < 0 {
		return cols, fmt.Errorf("%w: header must name %s, %s, %s and %s columns",
			ErrMalformedRecord, columnDate, columnLearning, columnReview, columnRelearn)
	}

	return cols, nil
}

func parseRow(row []string, cols columnIndex) (DailyRecord, error) {
	var rec DailyRecord

	date, err := cellDate(row, cols.date)
	if err != nil {
		return rec, err
	}

	rec.Date = date

	if rec.Learning, err = cellCount(row, cols.learning, columnLearning); err != nil {
		return rec, err
	}

	if rec.Review, err = cellCount(row, cols.review, columnReview); err != nil {
		return rec, err
	}

	if rec.Relearn, err = cellCount(row, cols.relearn, columnRelearn); err != nil {
		return rec, err
	}

	if cols.cheated >= 0 {
		if rec.Cheated, err = cellCount(row, cols.cheated, columnCheated); err != nil {
			return rec, err
		}
	}

	return rec, nil
}

func cellDate(row []string, idx int) (time.Time, error) {
	if idx >= len(row) {
		return time.Time{}, fmt.Errorf("%w: missing %s cell", ErrMalformedRecord, columnDate)
	}

	date, err := time.Parse(DateLayout, strings.TrimSpace(row[idx]))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, row[idx])
	}

	return date, nil
}

func cellCount(row []string, idx int, name string) (int, error) {
	if idx >= len(row) {
		return 0, fmt.Errorf("%w: missing %s cell", ErrMalformedRecord, name)
	}

	cell := strings.TrimSpace(row[idx])
	if cell == "" {
		return 0, fmt.Errorf("%w: empty %s cell", ErrMalformedRecord, name)
	}

	n, err := strconv.Atoi(cell)
	if err != nil {
		return 0, fmt.Errorf("%w: %s value %q", ErrMalformedRecord, name, cell)
	}

	return n, nil
}

// jsonRecord is the wire form of a record in JSON datasets.
type jsonRecord struct {
	Date     string `json:"date"`
	Learning int    `json:"learning"`
	Review   int    `json:"review"`
	Relearn  int    `json:"relearn"`
	Cheated  int    `json:"cheated"`
}

// LoadJSON reads a dataset from a JSON array of day objects. The records are
// validated before being returned.
func LoadJSON(r io.Reader) ([]DailyRecord, error) {
	var wire []jsonRecord

	dec := json.NewDecoder(r)
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode json dataset: %w", err)
	}

	records := make([]DailyRecord, 0, len(wire))

	for i, w := range wire {
		date, err := time.Parse(DateLayout, w.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w: %q", i, ErrInvalidDate, w.Date)
		}

		records = append(records, DailyRecord{
			Date:     date,
			Learning: w.Learning,
			Review:   w.Review,
			Relearn:  w.Relearn,
			Cheated:  w.Cheated,
		})
	}

	if err := Validate(records); err != nil {
		return nil, err
	}

	return records, nil
}
