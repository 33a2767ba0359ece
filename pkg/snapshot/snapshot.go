// Package snapshot persists validated review histories in a compact columnar
// binary format: a fixed header followed by one LZ4 block per column, with
// dates stored delta-encoded as days since the Unix epoch.
//
// Snapshots hold raw counts only. Derived totals are recomputed on load under
// whichever total policy the caller selects, so a snapshot written under one
// policy stays valid under every other.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pierrec/lz4/v4"

	"github.com/revstat/revstat/pkg/reviewlog"
	"github.com/revstat/revstat/pkg/safeconv"
)

// Sentinel errors for snapshot encoding and decoding.
var (
	// ErrBadMagic indicates the input does not start with the snapshot magic.
	ErrBadMagic = errors.New("snapshot: not a review snapshot")
	// ErrVersion indicates a snapshot written by an unknown format version.
	ErrVersion = errors.New("snapshot: unsupported version")
	// ErrCorrupt indicates a snapshot that fails structural checks.
	ErrCorrupt = errors.New("snapshot: corrupt snapshot")
	// ErrOutOfRange indicates a record value the format cannot represent.
	ErrOutOfRange = errors.New("snapshot: value out of range")
)

// Format identity.
const (
	// Magic opens every snapshot file.
	Magic = "RVST"
	// Version is the current format version.
	Version = 1
	// Extension is the conventional snapshot file extension.
	Extension = ".rvst"
)

// Column order after the header.
const (
	columnDates = iota
	columnLearning
	columnReview
	columnRelearn
	columnCheated
	columnCount
)

// uint32ByteSize is the number of bytes in a uint32.
const uint32ByteSize = 4

// secondsPerDay converts Unix timestamps to day numbers.
const secondsPerDay = 86400

// maxSnapshotDays caps the day count accepted from a header, bounding the
// allocation a corrupt or hostile file can trigger.
const maxSnapshotDays = 1 << 22

// epoch is the zero point of the date column.
var epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Encode writes records to w as a versioned columnar snapshot. Records must
// already be in date order for the delta-encoded date column to stay small;
// out-of-order input still round-trips exactly.
func Encode(w io.Writer, records []reviewlog.DailyRecord) error {
	columns, err := buildColumns(records)
	if err != nil {
		return err
	}

	deltaEncode(columns[columnDates])

	if _, err := io.WriteString(w, Magic); err != nil {
		return fmt.Errorf("snapshot header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint8(Version)); err != nil {
		return fmt.Errorf("snapshot header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, safeconv.MustIntToUint32(len(records))); err != nil {
		return fmt.Errorf("snapshot header: %w", err)
	}

	for _, column := range columns {
		if err := writeColumn(w, column); err != nil {
			return err
		}
	}

	return nil
}

// Decode reads a snapshot from r and restores the raw daily records.
func Decode(r io.Reader) ([]reviewlog.DailyRecord, error) {
	var magic [len(Magic)]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("snapshot header: %w", err)
	}

	if string(magic[:]) != Magic {
		return nil, ErrBadMagic
	}

	var version uint8
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("snapshot header: %w", err)
	}

	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, version)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("snapshot header: %w", err)
	}

	if count > maxSnapshotDays {
		return nil, fmt.Errorf("%w: header claims %d days", ErrCorrupt, count)
	}

	columns := make([][]uint32, columnCount)

	for i := range columns {
		column, err := readColumn(r, int(count))
		if err != nil {
			return nil, err
		}

		columns[i] = column
	}

	deltaDecode(columns[columnDates])

	records := make([]reviewlog.DailyRecord, count)

	for i := range records {
		records[i] = reviewlog.DailyRecord{
			Date:     epoch.AddDate(0, 0, safeconv.SafeInt(uint64(columns[columnDates][i]))),
			Learning: safeconv.SafeInt(uint64(columns[columnLearning][i])),
			Review:   safeconv.SafeInt(uint64(columns[columnReview][i])),
			Relearn:  safeconv.SafeInt(uint64(columns[columnRelearn][i])),
			Cheated:  safeconv.SafeInt(uint64(columns[columnCheated][i])),
		}
	}

	return records, nil
}

// WriteFile writes records as a snapshot file at path.
func WriteFile(path string, records []reviewlog.DailyRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot %s: %w", path, err)
	}

	if err := Encode(file, records); err != nil {
		file.Close()

		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot %s: %w", path, err)
	}

	return nil
}

// ReadFile reads the snapshot file at path.
func ReadFile(path string) ([]reviewlog.DailyRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer file.Close()

	return Decode(file)
}

// buildColumns splits records into the five uint32 columns of the format.
func buildColumns(records []reviewlog.DailyRecord) ([][]uint32, error) {
	columns := make([][]uint32, columnCount)
	for i := range columns {
		columns[i] = make([]uint32, len(records))
	}

	for i, rec := range records {
		dayNum, err := dayNumber(rec.Date)
		if err != nil {
			return nil, err
		}

		columns[columnDates][i] = dayNum

		counts := []struct {
			name  string
			value int
			col   int
		}{
			{"learning", rec.Learning, columnLearning},
			{"review", rec.Review, columnReview},
			{"relearn", rec.Relearn, columnRelearn},
			{"cheated", rec.Cheated, columnCheated},
		}

		for _, c := range counts {
			v, err := countValue(rec.Date, c.name, c.value)
			if err != nil {
				return nil, err
			}

			columns[c.col][i] = v
		}
	}

	return columns, nil
}

// dayNumber converts a date to days since the Unix epoch.
func dayNumber(date time.Time) (uint32, error) {
	seconds := date.Unix()
	if seconds < 0 {
		return 0, fmt.Errorf("%w: date %s precedes 1970", ErrOutOfRange, date.Format(reviewlog.DateLayout))
	}

	days := seconds / secondsPerDay
	if days > int64(safeconv.MaxUint32) {
		return 0, fmt.Errorf("%w: date %s", ErrOutOfRange, date.Format(reviewlog.DateLayout))
	}

	return uint32(days), nil
}

// countValue converts a per-day count to its column representation.
func countValue(date time.Time, name string, value int) (uint32, error) {
	if value < 0 || int64(value) > int64(safeconv.MaxUint32) {
		return 0, fmt.Errorf("%w: %s count %d on %s",
			ErrOutOfRange, name, value, date.Format(reviewlog.DateLayout))
	}

	return uint32(value), nil
}

// writeColumn serializes one column little-endian, LZ4-compresses it and
// writes a length-prefixed block. Columns that do not shrink are stored raw
// with a zero compressed length.
func writeColumn(w io.Writer, data []uint32) error {
	raw := new(bytes.Buffer)
	if err := binary.Write(raw, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("column serialize: %w", err)
	}

	compressed := make([]byte, lz4.CompressBlockBound(raw.Len()))

	written, err := lz4.CompressBlock(raw.Bytes(), compressed, nil)
	if err != nil {
		return fmt.Errorf("column compress: %w", err)
	}

	payload := compressed[:written]
	if written == 0 || written >= raw.Len() {
		payload = raw.Bytes()
		written = 0
	}

	if err := binary.Write(w, binary.LittleEndian, safeconv.MustIntToUint32(written)); err != nil {
		return fmt.Errorf("column header: %w", err)
	}

	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("column payload: %w", err)
	}

	return nil
}

// readColumn reads one length-prefixed column block of count values.
func readColumn(r io.Reader, count int) ([]uint32, error) {
	var compLen uint32
	if err := binary.Read(r, binary.LittleEndian, &compLen); err != nil {
		return nil, fmt.Errorf("column header: %w", err)
	}

	rawLen := count * uint32ByteSize
	raw := make([]byte, rawLen)

	switch {
	case compLen == 0:
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("column payload: %w", err)
		}
	case int64(compLen) > int64(lz4.CompressBlockBound(rawLen)):
		return nil, fmt.Errorf("%w: column block of %d bytes for %d values", ErrCorrupt, compLen, count)
	default:
		compressed := make([]byte, compLen)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return nil, fmt.Errorf("column payload: %w", err)
		}

		n, err := lz4.UncompressBlock(compressed, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}

		if n != rawLen {
			return nil, fmt.Errorf("%w: column decoded to %d bytes, want %d", ErrCorrupt, n, rawLen)
		}
	}

	column := make([]uint32, count)
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, column); err != nil {
		return nil, fmt.Errorf("column decode: %w", err)
	}

	return column, nil
}

// deltaEncode replaces each element with the difference from its predecessor,
// in place. Sorted day numbers become small repetitive values that compress
// well. Underflow wraps and is undone exactly by deltaDecode.
func deltaEncode(data []uint32) {
	for i := len(data) - 1; i > 0; i-- {
		data[i] -= data[i-1]
	}
}

// deltaDecode restores original values by prefix sum, in place.
func deltaDecode(data []uint32) {
	for i := 1; i < len(data); i++ {
		data[i] += data[i-1]
	}
}
