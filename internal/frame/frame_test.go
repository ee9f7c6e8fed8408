package frame

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var est = time.FixedZone("UTC-5", -5*3600)

// hourEndingYear builds a 8760-row interval-ending frame for 1990 with a
// constant "Ones" column and a "Month" column holding the month each hour
// was measured in.
func hourEndingYear(t *testing.T) *Frame {
	t.Helper()

	start := time.Date(1990, time.January, 1, 1, 0, 0, 0, est)
	index := make([]time.Time, 8760)
	ones := make([]float64, 8760)
	month := make([]float64, 8760)
	for i := range index {
		index[i] = start.Add(time.Duration(i) * time.Hour)
		ones[i] = 1
		month[i] = float64(index[i].Add(-time.Hour).Month())
	}

	f, err := FromColumns(index, []string{"Ones", "Month"}, [][]float64{ones, month}, IntervalEnding)
	require.NoError(t, err)
	return f
}

func TestFromColumnsValidatesShape(t *testing.T) {
	index := []time.Time{time.Unix(0, 0), time.Unix(3600, 0)}

	_, err := FromColumns(index, []string{"A"}, [][]float64{{1}}, IntervalBeginning)
	assert.Error(t, err)

	_, err = FromColumns(index, []string{"A", "B"}, [][]float64{{1, 2}}, IntervalBeginning)
	assert.Error(t, err)

	_, err = FromColumns(index, nil, nil, IntervalBeginning)
	assert.Error(t, err)
}

func TestShapeAndColumns(t *testing.T) {
	f := hourEndingYear(t)

	assert.Equal(t, 8760, f.Len())
	assert.Equal(t, 2, f.NumColumns())
	assert.Equal(t, []string{"Ones", "Month"}, f.Columns())
	assert.True(t, f.Has("Ones"))
	assert.False(t, f.Has("GHI"))
	assert.Equal(t, IntervalEnding, f.Convention())
}

func TestSelect(t *testing.T) {
	f := hourEndingYear(t)

	sel, err := f.Select("Month")
	require.NoError(t, err)
	assert.Equal(t, []string{"Month"}, sel.Columns())
	assert.Equal(t, f.Len(), sel.Len())
	assert.Equal(t, f.Index(), sel.Index())

	_, err = f.Select("Month", "GHI")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = f.Float("GHI")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestHead(t *testing.T) {
	f := hourEndingYear(t)

	head := f.Head(15)
	assert.Equal(t, 15, head.Len())
	assert.Equal(t, 2, head.NumColumns())
	assert.Equal(t, f.Index()[14], head.Index()[14])

	assert.Equal(t, f.Len(), f.Head(100000).Len())
	assert.Equal(t, 168, f.Head(168).Len())
}

func TestBetweenDatesIncludesWholeEndDay(t *testing.T) {
	f := hourEndingYear(t)

	week, err := f.BetweenDates("1990-06-01", "1990-06-08")
	require.NoError(t, err)
	require.Equal(t, 8*24, week.Len())

	idx := week.Index()
	assert.True(t, idx[0].Equal(time.Date(1990, time.June, 1, 0, 0, 0, 0, est)))
	assert.True(t, idx[len(idx)-1].Equal(time.Date(1990, time.June, 8, 23, 0, 0, 0, est)))

	_, err = f.BetweenDates("1990-06-08", "1990-06-01")
	assert.Error(t, err)

	_, err = f.BetweenDates("June 1", "1990-06-08")
	assert.Error(t, err)
}

func TestSliceOutsideRangeIsEmpty(t *testing.T) {
	f := hourEndingYear(t)

	empty := f.Slice(time.Date(2000, 1, 1, 0, 0, 0, 0, est), time.Date(2000, 2, 1, 0, 0, 0, 0, est))
	assert.Equal(t, 0, empty.Len())
}

func TestResampleMonthlySum(t *testing.T) {
	f := hourEndingYear(t)

	monthly, err := f.Resample(Monthly, Sum)
	require.NoError(t, err)
	require.Equal(t, 12, monthly.Len())
	assert.Equal(t, IntervalBeginning, monthly.Convention())

	hours, err := monthly.Float("Ones")
	require.NoError(t, err)

	expected := []float64{744, 672, 744, 720, 744, 720, 744, 744, 720, 744, 720, 744}
	assert.Equal(t, expected, hours)

	idx := monthly.Index()
	for m := 0; m < 12; m++ {
		assert.True(t, idx[m].Equal(time.Date(1990, time.Month(m+1), 1, 0, 0, 0, 0, est)), "label %d", m)
	}
}

func TestResampleMonthlyMean(t *testing.T) {
	f := hourEndingYear(t)

	monthly, err := f.Resample(Monthly, Mean)
	require.NoError(t, err)

	means, err := monthly.Float("Month")
	require.NoError(t, err)
	for m, v := range means {
		assert.InDelta(t, float64(m+1), v, 1e-9)
	}
}

func TestResampleSkipsMissingValues(t *testing.T) {
	start := time.Date(1990, time.March, 1, 0, 0, 0, 0, time.UTC)
	index := []time.Time{start, start.Add(time.Hour), start.Add(2 * time.Hour)}

	f, err := FromColumns(index, []string{"V"}, [][]float64{{2, math.NaN(), 4}}, IntervalBeginning)
	require.NoError(t, err)

	sum, err := f.Resample(Daily, Sum)
	require.NoError(t, err)
	vals, _ := sum.Float("V")
	assert.Equal(t, []float64{6}, vals)

	mean, err := f.Resample(Daily, Mean)
	require.NoError(t, err)
	vals, _ = mean.Float("V")
	assert.Equal(t, []float64{3}, vals)
}

func TestResampleDoesNotMutate(t *testing.T) {
	f := hourEndingYear(t)
	before, _ := f.Float("Ones")

	_, err := f.Resample(Monthly, Sum)
	require.NoError(t, err)
	_, err = f.Resample(Monthly, Sum)
	require.NoError(t, err)

	after, _ := f.Float("Ones")
	assert.Equal(t, before, after)
	assert.Equal(t, 8760, f.Len())
}

func TestStripZoneKeepsWallClock(t *testing.T) {
	f := hourEndingYear(t)

	naive := f.StripZone()
	first := naive.Index()[0]
	assert.Equal(t, time.UTC, first.Location())
	assert.Equal(t, 1, first.Hour())
	assert.Equal(t, 1990, first.Year())
}

func TestRecords(t *testing.T) {
	f := hourEndingYear(t)

	recs := f.Head(2).Records(1)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"Timestamp", "Ones", "Month"}, recs[0])
	assert.Equal(t, []string{"1990-01-01 01:00:00-05:00", "1.0", "1.0"}, recs[1])
}
