package camels

import (
	"math"
	"slices"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// IndexColumn names the date column in DataFrame exports.
const IndexColumn = "date"

// IsMissing reports whether v is the missing-value marker (NaN).
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Frame is a date-indexed table of numeric columns, one row per day.
type Frame struct {
	Index   []time.Time
	columns []string
	values  map[string][]float64
}

// NewFrame creates an empty frame with the given column order.
func NewFrame(columns []string) *Frame {
	f := &Frame{
		columns: slices.Clone(columns),
		values:  make(map[string][]float64, len(columns)),
	}
	for _, c := range columns {
		f.values[c] = nil
	}
	return f
}

// AppendRow adds one day. row must be aligned with Columns.
func (f *Frame) AppendRow(date time.Time, row []float64) {
	f.Index = append(f.Index, date)
	for i, c := range f.columns {
		f.values[c] = append(f.values[c], row[i])
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Index) }

// Columns returns the column names in file order.
func (f *Frame) Columns() []string { return slices.Clone(f.columns) }

// Column returns the values of a column. The slice is shared with the frame.
func (f *Frame) Column(name string) ([]float64, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Value returns the cell at row i of the named column.
func (f *Frame) Value(i int, name string) (float64, bool) {
	v, ok := f.values[name]
	if !ok || i < 0 || i >= len(v) {
		return 0, false
	}
	return v[i], true
}

// DataFrame converts the frame to a gota DataFrame with a leading "date"
// column formatted as YYYY-MM-DD.
func (f *Frame) DataFrame() dataframe.DataFrame {
	dates := make([]string, len(f.Index))
	for i, d := range f.Index {
		dates[i] = d.Format(DateLayout)
	}

	cols := make([]series.Series, 0, len(f.columns)+1)
	cols = append(cols, series.New(dates, series.String, IndexColumn))
	for _, c := range f.columns {
		cols = append(cols, series.New(f.values[c], series.Float, c))
	}
	return dataframe.New(cols...)
}

// Series is a date-indexed sequence of single values. Missing values are NaN.
type Series struct {
	Name   string
	Index  []time.Time
	Values []float64
}

// Len returns the number of observations, missing ones included.
func (s *Series) Len() int { return len(s.Values) }

// Missing counts the NaN entries.
func (s *Series) Missing() int {
	n := 0
	for _, v := range s.Values {
		if IsMissing(v) {
			n++
		}
	}
	return n
}

// At returns the value recorded for date. It scans the index linearly.
func (s *Series) At(date time.Time) (float64, bool) {
	for i, d := range s.Index {
		if d.Equal(date) {
			return s.Values[i], true
		}
	}
	return 0, false
}
