package backuplog

import (
	"bufio"
	"io"
	"strings"
	"time"
)

const (
	// inclusionMarker starts every line describing a backed-up path.
	inclusionMarker = "I "

	// timeLayout is the log's wall-clock format, read as UTC.
	timeLayout = "01/02/06 03:04PM"

	// hashLen is the length of the hash field of a valid record.
	hashLen = 32

	// minFields is the number of whitespace-separated fields a record has
	// at least (marker, date, time, size, hash, dir flag, path).
	minFields = 7

	// maxLineSize bounds the bytes kept for one line. Longer lines cannot
	// be records worth keeping and are skipped whole.
	maxLineSize = 1024 * 1024
)

// Kind is the type of a log record.
type Kind int

const (
	// KindOther is any record type other than an inclusion.
	KindOther Kind = iota
	// KindInclusion records a path included in a backup run.
	KindInclusion
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	if k == KindInclusion {
		return "inclusion"
	}
	return "other"
}

// Record is one parsed log line.
type Record struct {
	Kind  Kind
	Time  time.Time // UTC, minute precision
	Hash  string
	IsDir bool
	Path  string
}

// ParseLine parses a single log line. It reports false for anything that is
// not a well-formed inclusion record.
//
// The path is the seventh field, so a path containing whitespace is cut at
// the first blank.
func ParseLine(line string) (Record, bool) {
	if !strings.HasPrefix(line, inclusionMarker) {
		return Record{}, false
	}

	fields := strings.Fields(line)
	if len(fields) < minFields || len(fields[4]) != hashLen {
		return Record{}, false
	}

	ts, err := time.ParseInLocation(timeLayout, fields[1]+" "+fields[2], time.UTC)
	if err != nil {
		return Record{}, false
	}

	return Record{
		Kind:  KindInclusion,
		Time:  ts,
		Hash:  fields[4],
		IsDir: fields[5] == "1",
		Path:  fields[6],
	}, true
}

// Parse reads log lines from r and returns the inclusion records in order.
// Malformed and oversized lines are skipped; only read errors are returned.
func Parse(r io.Reader) ([]Record, error) {
	var (
		records []Record
		line    []byte
		skip    bool
	)

	reader := bufio.NewReaderSize(r, 64*1024)
	for {
		chunk, more, err := reader.ReadLine()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}

		if !skip {
			line = append(line, chunk...)
			if len(line) > maxLineSize {
				line, skip = line[:0], true
			}
		}
		if more {
			continue
		}

		if !skip {
			if rec, ok := ParseLine(string(line)); ok {
				records = append(records, rec)
			}
		}
		line, skip = line[:0], false
	}
}
