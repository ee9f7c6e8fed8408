package frame

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrUnknownColumn is returned when a column name is not part of the frame
var ErrUnknownColumn = errors.New("unknown column")

// Convention describes which end of the measurement interval a timestamp labels
type Convention int

const (
	// IntervalBeginning labels an hour by its start (PSM3, resampled output)
	IntervalBeginning Convention = iota
	// IntervalEnding labels an hour by its end (TMY3: 01:00 covers 00:00-01:00)
	IntervalEnding
)

// String returns the string representation of the convention
func (c Convention) String() string {
	switch c {
	case IntervalBeginning:
		return "interval-beginning"
	case IntervalEnding:
		return "interval-ending"
	default:
		return "unknown"
	}
}

// Frame is a table with one row per timestamp and one column per measured quantity.
// The dataframe holds the values and index holds one timestamp per row.
type Frame struct {
	index      []time.Time
	df         dataframe.DataFrame
	convention Convention
	step       time.Duration
}

// New creates a frame from a timestamp index and a dataframe of the same height
func New(index []time.Time, df dataframe.DataFrame, convention Convention) (*Frame, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("invalid dataframe: %w", df.Err)
	}
	if len(index) != df.Nrow() {
		return nil, fmt.Errorf("index has %d entries but dataframe has %d rows", len(index), df.Nrow())
	}

	idx := make([]time.Time, len(index))
	copy(idx, index)

	return &Frame{
		index:      idx,
		df:         df,
		convention: convention,
		step:       inferStep(idx),
	}, nil
}

// FromColumns builds a frame of float columns
func FromColumns(index []time.Time, names []string, cols [][]float64, convention Convention) (*Frame, error) {
	if len(names) == 0 {
		return nil, errors.New("at least one column is required")
	}
	if len(names) != len(cols) {
		return nil, fmt.Errorf("got %d column names for %d columns", len(names), len(cols))
	}

	ss := make([]series.Series, len(names))
	for i, name := range names {
		if len(cols[i]) != len(index) {
			return nil, fmt.Errorf("column %q has %d values, index has %d", name, len(cols[i]), len(index))
		}
		ss[i] = series.New(cols[i], series.Float, name)
	}

	return New(index, dataframe.New(ss...), convention)
}

func inferStep(idx []time.Time) time.Duration {
	if len(idx) >= 2 {
		if d := idx[1].Sub(idx[0]); d > 0 {
			return d
		}
	}
	return time.Hour
}

// Len returns the number of rows
func (f *Frame) Len() int {
	return len(f.index)
}

// NumColumns returns the number of columns
func (f *Frame) NumColumns() int {
	return f.df.Ncol()
}

// Columns returns the column keys in file order
func (f *Frame) Columns() []string {
	return f.df.Names()
}

// Convention reports the timestamp labelling convention
func (f *Frame) Convention() Convention {
	return f.convention
}

// Index returns a copy of the timestamp index
func (f *Frame) Index() []time.Time {
	idx := make([]time.Time, len(f.index))
	copy(idx, f.index)
	return idx
}

// Has reports whether the frame contains the named column
func (f *Frame) Has(col string) bool {
	for _, name := range f.df.Names() {
		if name == col {
			return true
		}
	}
	return false
}

// Float returns the values of a column as float64; unparsable cells become NaN
func (f *Frame) Float(col string) ([]float64, error) {
	if !f.Has(col) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	return f.df.Col(col).Float(), nil
}

// Select returns a frame holding exactly the named columns with the same index
func (f *Frame) Select(cols ...string) (*Frame, error) {
	if len(cols) == 0 {
		return nil, errors.New("no columns to select")
	}
	for _, col := range cols {
		if !f.Has(col) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
	}

	selected := f.df.Select(cols)
	if selected.Err != nil {
		return nil, fmt.Errorf("failed to select columns: %w", selected.Err)
	}
	return f.derive(f.Index(), selected), nil
}

// Head returns the first n rows
func (f *Frame) Head(n int) *Frame {
	if n > f.Len() {
		n = f.Len()
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return f.rows(rows)
}

// Slice returns the rows labelled start <= t < end
func (f *Frame) Slice(start, end time.Time) *Frame {
	var rows []int
	for i, t := range f.index {
		if !t.Before(start) && t.Before(end) {
			rows = append(rows, i)
		}
	}
	return f.rows(rows)
}

// BetweenDates returns the rows from the start of startDay through the end of
// endDay, both given as YYYY-MM-DD in the frame's time zone
func (f *Frame) BetweenDates(startDay, endDay string) (*Frame, error) {
	loc := f.location()
	start, err := time.ParseInLocation(time.DateOnly, startDay, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDay, err)
	}
	end, err := time.ParseInLocation(time.DateOnly, endDay, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDay, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s", endDay, startDay)
	}
	return f.Slice(start, end.AddDate(0, 0, 1)), nil
}

// StripZone returns a copy whose index keeps the wall clock but drops the UTC offset
func (f *Frame) StripZone() *Frame {
	idx := make([]time.Time, len(f.index))
	for i, t := range f.index {
		idx[i] = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return f.derive(idx, f.df)
}

// Records returns a header row followed by one row per timestamp.
// Float cells are formatted with the given precision.
func (f *Frame) Records(precision int) [][]string {
	names := f.df.Names()
	out := make([][]string, 0, f.Len()+1)
	out = append(out, append([]string{"Timestamp"}, names...))

	cols := make([][]string, len(names))
	for c, name := range names {
		s := f.df.Col(name)
		if s.Type() == series.Float {
			vals := s.Float()
			cols[c] = make([]string, len(vals))
			for i, v := range vals {
				cols[c][i] = strconv.FormatFloat(v, 'f', precision, 64)
			}
			continue
		}
		cols[c] = s.Records()
	}

	for r, t := range f.index {
		row := make([]string, 0, len(names)+1)
		row = append(row, t.Format("2006-01-02 15:04:05-07:00"))
		for c := range names {
			row = append(row, cols[c][r])
		}
		out = append(out, row)
	}
	return out
}

func (f *Frame) location() *time.Location {
	if len(f.index) > 0 {
		return f.index[0].Location()
	}
	return time.UTC
}

// periodStart returns the start of the interval measured by row r
func (f *Frame) periodStart(r int) time.Time {
	if f.convention == IntervalEnding {
		return f.index[r].Add(-f.step)
	}
	return f.index[r]
}

func (f *Frame) rows(rows []int) *Frame {
	idx := make([]time.Time, len(rows))
	for i, r := range rows {
		idx[i] = f.index[r]
	}
	if len(rows) == 0 {
		return f.derive(idx, f.empty())
	}
	return f.derive(idx, f.df.Subset(rows))
}

func (f *Frame) empty() dataframe.DataFrame {
	names := f.df.Names()
	ss := make([]series.Series, len(names))
	for i, name := range names {
		ss[i] = series.New([]string{}, f.df.Col(name).Type(), name)
	}
	return dataframe.New(ss...)
}

func (f *Frame) derive(idx []time.Time, df dataframe.DataFrame) *Frame {
	return &Frame{
		index:      idx,
		df:         df,
		convention: f.convention,
		step:       f.step,
	}
}

func isMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func nan() float64 {
	return math.NaN()
}
