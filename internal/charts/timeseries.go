package charts

import (
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"tmyreport/internal/analysis"
	"tmyreport/internal/frame"
)

func (cg *ChartGenerator) generateFirstWeekIrradiance(res *analysis.Result) (string, error) {
	return cg.lineChart(FirstWeekIrradiance, "First week irradiance", irradianceLabel,
		res.FirstWeek, irradianceColumns(res))
}

func (cg *ChartGenerator) generateSummerWeekIrradiance(res *analysis.Result) (string, error) {
	return cg.lineChart(SummerWeekIrradiance, "Summer week irradiance", irradianceLabel,
		res.SummerWeek, res.SummerWeek.Columns())
}

func (cg *ChartGenerator) generateFirstWeekDryBulb(res *analysis.Result) (string, error) {
	return cg.lineChart(FirstWeekDryBulb, "First week dry-bulb temperature", dryBulbLabel,
		res.FirstWeek, []string{"DryBulb"})
}

func (cg *ChartGenerator) generateFirstWeekWspd(res *analysis.Result) (string, error) {
	return cg.lineChart(FirstWeekWspd, "First week wind speed", wspdLabel,
		res.FirstWeek, []string{"Wspd"})
}

// irradianceColumns are the first-week columns that the summer week also plots
func irradianceColumns(res *analysis.Result) []string {
	var cols []string
	for _, c := range res.SummerWeek.Columns() {
		if res.FirstWeek.Has(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// lineChart plots cols of f against its timestamp index
func (cg *ChartGenerator) lineChart(name, title, yLabel string, f *frame.Frame, cols []string) (string, error) {
	if f == nil || f.Len() < 2 {
		return "", fmt.Errorf("%s: need at least two rows", name)
	}
	if len(cols) == 0 {
		return "", fmt.Errorf("%s: no columns to plot", name)
	}

	index := f.Index()
	var series []chart.Series
	var all [][]float64
	for i, col := range cols {
		vals, err := f.Float(col)
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		xs, ys := finitePoints(index, vals)
		if len(xs) < 2 {
			continue
		}
		all = append(all, ys)
		series = append(series, chart.TimeSeries{
			Name: col,
			Style: chart.Style{
				StrokeColor: color(i),
				StrokeWidth: 1.5,
			},
			XValues: xs,
			YValues: ys,
		})
	}
	if len(series) == 0 {
		return "", fmt.Errorf("%s: no plottable values", name)
	}

	graph := chart.Chart{
		Title:      title,
		TitleStyle: titleStyle(),
		Background: background(),
		Width:      900,
		Height:     400,
		XAxis: chart.XAxis{
			Style: chart.Style{
				FontSize: 9,
			},
			ValueFormatter: chart.TimeValueFormatterWithFormat("01-02 15h"),
		},
		YAxis: chart.YAxis{
			Name: yLabel,
			NameStyle: chart.Style{
				FontSize: 11,
			},
			Style: chart.Style{
				FontSize: 9,
			},
			Range: valueRange(all...),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return cg.writePNG(name, graph)
}

func finitePoints(index []time.Time, vals []float64) ([]time.Time, []float64) {
	xs := make([]time.Time, 0, len(vals))
	ys := make([]float64, 0, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, index[i])
		ys = append(ys, v)
	}
	return xs, ys
}
