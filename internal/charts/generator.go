package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"tmyreport/internal/analysis"
	"tmyreport/internal/logger"
)

// Chart file names written by GenerateCharts
const (
	FirstWeekIrradiance  = "first_week_irradiance.png"
	SummerWeekIrradiance = "summer_week_irradiance.png"
	FirstWeekDryBulb     = "first_week_drybulb.png"
	FirstWeekWspd        = "first_week_wspd.png"
	MonthlyGHI           = "monthly_ghi.png"
	MonthlyTempWind      = "monthly_temp_wind.png"
	GHIComparison        = "ghi_comparison.png"
)

// Axis labels
const (
	irradianceLabel = "Irradiance [W/m^2]"
	dryBulbLabel    = "Dry-bulb temperature [C]"
	wspdLabel       = "Wind speed [m/s]"
	monthlyGHILabel = "Monthly GHI [Wh/m^2]"
)

var palette = []drawing.Color{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
}

func color(i int) drawing.Color {
	return palette[i%len(palette)]
}

// ChartGenerator handles creation of static chart images
type ChartGenerator struct {
	outputDir string
	log       *logger.Logger
}

// NewChartGenerator creates a new chart generator
func NewChartGenerator(outputDir string) *ChartGenerator {
	return &ChartGenerator{
		outputDir: outputDir,
		log:       logger.GetGlobalLogger().WithComponent("charts"),
	}
}

type renderFunc func(res *analysis.Result) (string, error)

// GenerateCharts creates all chart images for the report and returns their paths.
// A chart that cannot be drawn is logged and skipped; an error is returned
// only when no chart could be written.
func (cg *ChartGenerator) GenerateCharts(res *analysis.Result) ([]string, error) {
	if res == nil {
		return nil, errors.New("no analysis result to chart")
	}
	if err := os.MkdirAll(cg.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	renders := []renderFunc{
		cg.generateFirstWeekIrradiance,
		cg.generateSummerWeekIrradiance,
		cg.generateFirstWeekDryBulb,
		cg.generateFirstWeekWspd,
		cg.generateMonthlyGHI,
		cg.generateMonthlyTempWind,
	}
	if res.Comparison != nil {
		renders = append(renders, cg.generateComparison)
	}

	var chartFiles []string
	var errs []error
	for _, render := range renders {
		file, err := render(res)
		if err != nil {
			cg.log.Warn("Failed to generate chart", map[string]interface{}{"error": err.Error()})
			errs = append(errs, err)
			continue
		}
		chartFiles = append(chartFiles, file)
	}

	if len(chartFiles) == 0 {
		return nil, fmt.Errorf("no charts generated: %w", errors.Join(errs...))
	}
	cg.log.Info("Charts generated", map[string]interface{}{"count": len(chartFiles)})
	return chartFiles, nil
}

// renderer is satisfied by chart.Chart and chart.BarChart
type renderer interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// writePNG renders r into the output directory. A failed render leaves no file behind.
func (cg *ChartGenerator) writePNG(name string, r renderer) (string, error) {
	filename := filepath.Join(cg.outputDir, name)
	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}

	if err := r.Render(chart.PNG, f); err != nil {
		f.Close()
		os.Remove(filename)
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(filename)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return filename, nil
}

// valueRange pads the extent of vals so flat series still render
func valueRange(vals ...[]float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range vals {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	if lo > 0 {
		lo = 0
	}
	if hi-lo < 1e-9 {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi + (hi-lo)*0.05}
}

func background() chart.Style {
	return chart.Style{
		Padding: chart.Box{
			Top:    40,
			Left:   20,
			Right:  20,
			Bottom: 20,
		},
	}
}

func titleStyle() chart.Style {
	return chart.Style{
		FontSize:  14,
		FontColor: drawing.ColorBlack,
	}
}
