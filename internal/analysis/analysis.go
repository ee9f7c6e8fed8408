// Package analysis derives the tables shown in a TMY report from the loaded datasets.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"tmyreport/internal/config"
	"tmyreport/internal/frame"
	"tmyreport/internal/models"
)

// Result holds every derived table of a report
type Result struct {
	LocalLabel  string
	RemoteLabel string

	RowCount    int
	ColumnCount int
	Keys        []string

	Selected        *frame.Frame
	Head            *frame.Frame
	FirstWeek       *frame.Frame
	SummerWeek      *frame.Frame
	MonthlyGHI      *frame.Frame
	MonthlyTempWind *frame.Frame

	// Comparison has one column per site label; nil without a remote dataset
	Comparison *frame.Frame
}

// Analyze runs the report computations. The source frames are not modified.
func Analyze(src *models.SourceData, def *config.ReportDefinition) (*Result, error) {
	if src == nil || src.Local == nil {
		return nil, errors.New("no local dataset to analyze")
	}
	local := src.Local.Frame

	res := &Result{
		LocalLabel:  def.Local.Label,
		RowCount:    local.Len(),
		ColumnCount: local.NumColumns(),
		Keys:        local.Columns(),
	}

	var err error
	if res.Selected, err = local.Select(def.Columns...); err != nil {
		return nil, fmt.Errorf("failed to select report columns: %w", err)
	}
	res.Head = res.Selected.Head(def.HeadRows)
	res.FirstWeek = res.Selected.Head(def.FirstWeekHours)

	irradiance, err := local.Select(def.IrradianceColumns...)
	if err != nil {
		return nil, fmt.Errorf("failed to select irradiance columns: %w", err)
	}
	if res.SummerWeek, err = irradiance.BetweenDates(def.SummerWeek.Start, def.SummerWeek.End); err != nil {
		return nil, fmt.Errorf("failed to slice summer week: %w", err)
	}

	if res.MonthlyGHI, err = monthly(local, frame.Sum, def.MonthlySumColumn); err != nil {
		return nil, err
	}
	if len(def.MonthlyMeanColumns) > 0 {
		if res.MonthlyTempWind, err = monthly(local, frame.Mean, def.MonthlyMeanColumns...); err != nil {
			return nil, err
		}
	}

	if src.HasRemote() {
		res.RemoteLabel = def.Remote.Label
		remoteMonthly, err := monthly(src.Remote.Frame, frame.Sum, def.MonthlySumColumn)
		if err != nil {
			return nil, fmt.Errorf("remote dataset: %w", err)
		}
		res.Comparison, err = Compare(def.MonthlySumColumn,
			res.LocalLabel, res.MonthlyGHI,
			res.RemoteLabel, remoteMonthly)
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

func monthly(f *frame.Frame, agg frame.Aggregation, cols ...string) (*frame.Frame, error) {
	sel, err := f.Select(cols...)
	if err != nil {
		return nil, fmt.Errorf("failed to select %v for monthly %s: %w", cols, agg, err)
	}
	out, err := sel.Resample(frame.Monthly, agg)
	if err != nil {
		return nil, fmt.Errorf("failed to compute monthly %s: %w", agg, err)
	}
	return out, nil
}

type monthKey struct {
	year  int
	month time.Month
}

// Compare aligns column col of two monthly frames by calendar month, ignoring
// their time zones. Months present in only one frame get NaN for the other.
func Compare(col, leftLabel string, left *frame.Frame, rightLabel string, right *frame.Frame) (*frame.Frame, error) {
	if leftLabel == rightLabel {
		return nil, fmt.Errorf("comparison labels must differ, both are %q", leftLabel)
	}

	leftVals, err := byMonth(left, col)
	if err != nil {
		return nil, err
	}
	rightVals, err := byMonth(right, col)
	if err != nil {
		return nil, err
	}

	keys := make([]monthKey, 0, len(leftVals))
	for k := range leftVals {
		keys = append(keys, k)
	}
	for k := range rightVals {
		if _, ok := leftVals[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	index := make([]time.Time, len(keys))
	l := make([]float64, len(keys))
	r := make([]float64, len(keys))
	for i, k := range keys {
		index[i] = time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC)
		l[i] = valueOrNaN(leftVals, k)
		r[i] = valueOrNaN(rightVals, k)
	}

	return frame.FromColumns(index, []string{leftLabel, rightLabel}, [][]float64{l, r}, frame.IntervalBeginning)
}

func byMonth(f *frame.Frame, col string) (map[monthKey]float64, error) {
	naive := f.StripZone()
	vals, err := naive.Float(col)
	if err != nil {
		return nil, err
	}
	out := make(map[monthKey]float64, len(vals))
	for i, t := range naive.Index() {
		out[monthKey{t.Year(), t.Month()}] += vals[i]
	}
	return out, nil
}

func valueOrNaN(m map[monthKey]float64, k monthKey) float64 {
	if v, ok := m[k]; ok {
		return v
	}
	return math.NaN()
}
