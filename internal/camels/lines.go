package camels

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the textual form of an index date.
const DateLayout = "2006-01-02"

const maxLineBytes = 1 << 20

// lineReader reads a text file line by line and remembers the current line
// number for error reporting.
type lineReader struct {
	sc   *bufio.Scanner
	path string
	line int
}

func newLineReader(r io.Reader, path string) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &lineReader{sc: sc, path: path}
}

// next returns the next raw line, or false at end of input.
func (lr *lineReader) next() (string, bool) {
	if !lr.sc.Scan() {
		return "", false
	}
	lr.line++
	return lr.sc.Text(), true
}

// nextFields returns the whitespace-separated fields of the next non-blank line.
func (lr *lineReader) nextFields() ([]string, bool) {
	for {
		text, ok := lr.next()
		if !ok {
			return nil, false
		}
		if fields := strings.Fields(text); len(fields) > 0 {
			return fields, true
		}
	}
}

// err returns the read error that stopped the scanner, if any.
func (lr *lineReader) err() error {
	if err := lr.sc.Err(); err != nil {
		return &ParseError{Path: lr.path, Line: lr.line + 1, Err: err}
	}
	return nil
}

func (lr *lineReader) errorf(format string, args ...any) error {
	return &ParseError{Path: lr.path, Line: lr.line, Err: fmt.Errorf(format, args...)}
}

// parseDate builds a calendar date (UTC midnight) from year, month and day
// fields. Dates that do not exist, such as February 30, are rejected.
func parseDate(year, month, day string) (time.Time, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, fmt.Errorf("year %q: %w", year, err)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, fmt.Errorf("month %q: %w", month, err)
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, fmt.Errorf("day %q: %w", day, err)
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, fmt.Errorf("invalid date %04d-%02d-%02d", y, m, d)
	}
	return t, nil
}
