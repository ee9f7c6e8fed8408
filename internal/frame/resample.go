package frame

import (
	"errors"
	"sort"
	"time"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Period is a calendar bucket used for resampling
type Period int

const (
	Monthly Period = iota
	Daily
)

// Aggregation reduces the values of one bucket to a single number
type Aggregation int

const (
	Sum Aggregation = iota
	Mean
)

// String returns the string representation of the aggregation
func (a Aggregation) String() string {
	switch a {
	case Sum:
		return "sum"
	case Mean:
		return "mean"
	default:
		return "unknown"
	}
}

// apply skips missing values; an empty bucket sums to 0 and averages to NaN
func (a Aggregation) apply(vals []float64) float64 {
	switch a {
	case Mean:
		if len(vals) == 0 {
			return nan()
		}
		return stat.Mean(vals, nil)
	default:
		return floats.Sum(vals)
	}
}

func (p Period) bucket(t time.Time) time.Time {
	if p == Daily {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

type group struct {
	label time.Time
	rows  []int
}

// Resample aggregates every numeric column into calendar buckets.
// A row belongs to the bucket containing the start of its interval, so an
// interval-ending row labelled Jan 1 00:00 is counted in December.
// String columns such as the raw date and time are dropped.
func (f *Frame) Resample(p Period, agg Aggregation) (*Frame, error) {
	if f.Len() == 0 {
		return nil, errors.New("cannot resample an empty frame")
	}

	var names []string
	for _, name := range f.df.Names() {
		t := f.df.Col(name).Type()
		if t == series.Float || t == series.Int {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, errors.New("frame has no numeric columns to resample")
	}

	byKey := make(map[int64]int)
	var groups []group
	for r := range f.index {
		label := p.bucket(f.periodStart(r))
		key := label.Unix()
		g, ok := byKey[key]
		if !ok {
			g = len(groups)
			byKey[key] = g
			groups = append(groups, group{label: label})
		}
		groups[g].rows = append(groups[g].rows, r)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].label.Before(groups[j].label)
	})

	index := make([]time.Time, len(groups))
	for g := range groups {
		index[g] = groups[g].label
	}

	out := make([][]float64, len(names))
	buf := make([]float64, 0, 744)
	for c, name := range names {
		vals := f.df.Col(name).Float()
		out[c] = make([]float64, len(groups))
		for g := range groups {
			buf = buf[:0]
			for _, r := range groups[g].rows {
				if v := vals[r]; !isMissing(v) {
					buf = append(buf, v)
				}
			}
			out[c][g] = agg.apply(buf)
		}
	}

	return FromColumns(index, names, out, IntervalBeginning)
}
