package charts

import (
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"tmyreport/internal/analysis"
	"tmyreport/internal/frame"
)

func monthLabel(t time.Time) string {
	return t.Format("Jan")
}

func (cg *ChartGenerator) generateMonthlyGHI(res *analysis.Result) (string, error) {
	f := res.MonthlyGHI
	if f == nil || f.Len() == 0 {
		return "", fmt.Errorf("%s: no monthly values", MonthlyGHI)
	}
	vals, err := f.Float(f.Columns()[0])
	if err != nil {
		return "", err
	}

	bars := make([]chart.Value, 0, len(vals))
	for i, t := range f.Index() {
		bars = append(bars, chart.Value{
			Label: monthLabel(t),
			Value: zeroIfMissing(vals[i]),
			Style: chart.Style{
				FillColor:   color(0),
				StrokeColor: color(0),
			},
		})
	}

	graph := chart.BarChart{
		Title:      "Monthly GHI, " + res.LocalLabel,
		TitleStyle: titleStyle(),
		Background: background(),
		Width:      900,
		Height:     400,
		BarWidth:   50,
		BarSpacing: 15,
		XAxis:      chart.Style{FontSize: 9},
		YAxis: chart.YAxis{
			Name:  monthlyGHILabel,
			Style: chart.Style{FontSize: 9},
			Range: valueRange(vals),
		},
		Bars: bars,
	}
	return cg.writePNG(MonthlyGHI, graph)
}

// generateMonthlyTempWind plots temperature on the left axis and wind speed on the right
func (cg *ChartGenerator) generateMonthlyTempWind(res *analysis.Result) (string, error) {
	f := res.MonthlyTempWind
	if f == nil || f.Len() < 2 {
		return "", fmt.Errorf("%s: need at least two months", MonthlyTempWind)
	}
	temp, err := f.Float("DryBulb")
	if err != nil {
		return "", err
	}
	wind, err := f.Float("Wspd")
	if err != nil {
		return "", err
	}

	index := f.Index()
	tx, ty := finitePoints(index, temp)
	wx, wy := finitePoints(index, wind)
	if len(tx) < 2 || len(wx) < 2 {
		return "", fmt.Errorf("%s: no plottable values", MonthlyTempWind)
	}

	graph := chart.Chart{
		Title:      "Monthly mean temperature and wind speed, " + res.LocalLabel,
		TitleStyle: titleStyle(),
		Background: background(),
		Width:      900,
		Height:     400,
		XAxis: chart.XAxis{
			Style: chart.Style{FontSize: 9},
			Ticks: monthTicks(index),
		},
		YAxis: chart.YAxis{
			Name:  dryBulbLabel,
			Style: chart.Style{FontSize: 9},
			Range: valueRange(ty),
		},
		YAxisSecondary: chart.YAxis{
			Name:  wspdLabel,
			Style: chart.Style{FontSize: 9},
			Range: valueRange(wy),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "DryBulb",
				Style:   chart.Style{StrokeColor: color(3), StrokeWidth: 2},
				XValues: tx,
				YValues: ty,
			},
			chart.TimeSeries{
				Name:    "Wspd",
				Style:   chart.Style{StrokeColor: color(0), StrokeWidth: 2},
				YAxis:   chart.YAxisSecondary,
				XValues: wx,
				YValues: wy,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return cg.writePNG(MonthlyTempWind, graph)
}

// generateComparison draws one bar per site for every month, side by side
func (cg *ChartGenerator) generateComparison(res *analysis.Result) (string, error) {
	f := res.Comparison
	if f == nil || f.Len() == 0 {
		return "", fmt.Errorf("%s: no comparison", GHIComparison)
	}
	bars, all, err := interleave(f)
	if err != nil {
		return "", err
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("Monthly GHI, %s vs %s", res.LocalLabel, res.RemoteLabel),
		TitleStyle: titleStyle(),
		Background: background(),
		Width:      1200,
		Height:     420,
		BarWidth:   28,
		BarSpacing: 6,
		XAxis:      chart.Style{FontSize: 7},
		YAxis: chart.YAxis{
			Name:  monthlyGHILabel,
			Style: chart.Style{FontSize: 9},
			Range: valueRange(all...),
		},
		Bars: bars,
	}
	return cg.writePNG(GHIComparison, graph)
}

func interleave(f *frame.Frame) ([]chart.Value, [][]float64, error) {
	sites := f.Columns()
	cols := make([][]float64, len(sites))
	for i, site := range sites {
		vals, err := f.Float(site)
		if err != nil {
			return nil, nil, err
		}
		cols[i] = vals
	}

	var bars []chart.Value
	for r, t := range f.Index() {
		for i, site := range sites {
			bars = append(bars, chart.Value{
				Label: monthLabel(t) + " " + site,
				Value: zeroIfMissing(cols[i][r]),
				Style: chart.Style{
					FillColor:   color(i),
					StrokeColor: color(i),
				},
			})
		}
	}
	return bars, cols, nil
}

// monthTicks labels each month start with its abbreviated name
func monthTicks(index []time.Time) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(index))
	for _, t := range index {
		ticks = append(ticks, chart.Tick{
			Value: chart.TimeToFloat64(t),
			Label: monthLabel(t),
		})
	}
	return ticks
}

func zeroIfMissing(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
