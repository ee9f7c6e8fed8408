package charts

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"tmyreport/internal/analysis"
	"tmyreport/internal/frame"
)

// InteractiveFile is the name of the page written next to the PNG charts
const InteractiveFile = "charts.html"

// Chart IDs are fixed so the same data renders the same page
const (
	firstWeekID   = "chart-first-week"
	summerWeekID  = "chart-summer-week"
	monthlyGHIID  = "chart-monthly-ghi"
	tempWindID    = "chart-monthly-temp-wind"
	comparisonID  = "chart-ghi-comparison"
	chartWidth    = "900px"
	chartHeight   = "420px"
	hourlyXFormat = "01-02 15:04"
)

// RenderInteractive writes an HTML page of zoomable charts for the result
func (cg *ChartGenerator) RenderInteractive(w io.Writer, res *analysis.Result) error {
	if res == nil {
		return errors.New("no analysis result to chart")
	}
	page := components.NewPage()
	page.PageTitle = "TMY report charts"
	page.ChartID = "tmy-report-page"

	first, err := hourlyLine(firstWeekID, "First week", irradianceLabel, res.FirstWeek, irradianceColumns(res))
	if err != nil {
		return err
	}
	summer, err := hourlyLine(summerWeekID, "Summer week", irradianceLabel, res.SummerWeek, res.SummerWeek.Columns())
	if err != nil {
		return err
	}
	monthly, err := monthlyBar(monthlyGHIID, "Monthly GHI, "+res.LocalLabel, res.MonthlyGHI)
	if err != nil {
		return err
	}
	page.AddCharts(first, summer, monthly)

	if res.MonthlyTempWind != nil {
		tw, err := tempWindLine(res.MonthlyTempWind)
		if err != nil {
			return err
		}
		page.AddCharts(tw)
	}
	if res.Comparison != nil {
		cmp, err := monthlyBar(comparisonID,
			fmt.Sprintf("Monthly GHI, %s vs %s", res.LocalLabel, res.RemoteLabel), res.Comparison)
		if err != nil {
			return err
		}
		page.AddCharts(cmp)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render interactive charts: %w", err)
	}
	return nil
}

func initOpts(id string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		ChartID: id,
		Theme:   types.ThemeWesteros,
		Width:   chartWidth,
		Height:  chartHeight,
	})
}

func hourlyLine(id, title, yLabel string, f *frame.Frame, cols []string) (*charts.Line, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(id),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Right: "5%"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yLabel}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", Start: 0, End: 100}),
	)

	xAxis := make([]string, f.Len())
	for i, t := range f.Index() {
		xAxis[i] = t.Format(hourlyXFormat)
	}
	line.SetXAxis(xAxis)

	for _, col := range cols {
		vals, err := f.Float(col)
		if err != nil {
			return nil, err
		}
		line.AddSeries(col, lineData(vals))
	}
	return line, nil
}

func tempWindLine(f *frame.Frame) (*charts.Line, error) {
	temp, err := f.Float("DryBulb")
	if err != nil {
		return nil, err
	}
	wind, err := f.Float("Wspd")
	if err != nil {
		return nil, err
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(tempWindID),
		charts.WithTitleOpts(opts.Title{Title: "Monthly mean temperature and wind speed"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Right: "5%"}),
		charts.WithYAxisOpts(opts.YAxis{Name: dryBulbLabel}),
	)
	line.ExtendYAxis(opts.YAxis{Name: wspdLabel})

	line.SetXAxis(monthLabels(f)).
		AddSeries("DryBulb", lineData(temp)).
		AddSeries("Wspd", lineData(wind), charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}))
	return line, nil
}

// monthlyBar draws every column of a monthly frame as one bar series
func monthlyBar(id, title string, f *frame.Frame) (*charts.Bar, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(id),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Right: "5%"}),
		charts.WithYAxisOpts(opts.YAxis{Name: monthlyGHILabel}),
	)

	bar.SetXAxis(monthLabels(f))
	for _, col := range f.Columns() {
		vals, err := f.Float(col)
		if err != nil {
			return nil, err
		}
		data := make([]opts.BarData, len(vals))
		for i, v := range vals {
			data[i] = opts.BarData{Value: zeroIfMissing(v)}
		}
		bar.AddSeries(col, data)
	}
	return bar, nil
}

func monthLabels(f *frame.Frame) []string {
	labels := make([]string, f.Len())
	for i, t := range f.Index() {
		labels[i] = t.Format("Jan 2006")
	}
	return labels
}

func lineData(vals []float64) []opts.LineData {
	data := make([]opts.LineData, len(vals))
	for i, v := range vals {
		data[i] = opts.LineData{Value: zeroIfMissing(v)}
	}
	return data
}
