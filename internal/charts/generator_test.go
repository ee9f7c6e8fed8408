package charts

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wcharczuk/go-chart/v2"

	"tmyreport/internal/analysis"
	"tmyreport/internal/config"
	"tmyreport/internal/models"
	"tmyreport/internal/psm3"
	"tmyreport/internal/tmy"
)

func testResult(t *testing.T, withRemote bool) *analysis.Result {
	t.Helper()

	var local bytes.Buffer
	if err := tmy.GenerateSample(&local, tmy.DefaultSite, 1990); err != nil {
		t.Fatalf("GenerateSample failed: %v", err)
	}
	localDS, err := tmy.Read(&local, tmy.Options{CoerceYear: 1990})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	src := &models.SourceData{Local: localDS}

	if withRemote {
		var remote bytes.Buffer
		if err := psm3.GenerateSample(&remote, psm3.SampleSite(35.0844, -106.6504), 2003); err != nil {
			t.Fatalf("GenerateSample failed: %v", err)
		}
		if src.Remote, err = psm3.Parse(&remote, 1990); err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
	}

	res, err := analysis.Analyze(src, config.DefaultReportDefinition())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	return res
}

func TestNewChartGenerator(t *testing.T) {
	outputDir := "/test/output"
	generator := NewChartGenerator(outputDir)

	if generator == nil {
		t.Fatal("NewChartGenerator returned nil")
	}
	if generator.outputDir != outputDir {
		t.Errorf("Expected outputDir %s, got %s", outputDir, generator.outputDir)
	}
}

func TestGenerateCharts(t *testing.T) {
	dir := t.TempDir()
	generator := NewChartGenerator(dir)

	files, err := generator.GenerateCharts(testResult(t, true))
	if err != nil {
		t.Fatalf("GenerateCharts failed: %v", err)
	}

	expected := []string{
		FirstWeekIrradiance,
		SummerWeekIrradiance,
		FirstWeekDryBulb,
		FirstWeekWspd,
		MonthlyGHI,
		MonthlyTempWind,
		GHIComparison,
	}
	if len(files) != len(expected) {
		t.Fatalf("Expected %d charts, got %d: %v", len(expected), len(files), files)
	}

	pngMagic := []byte("\x89PNG\r\n\x1a\n")
	for i, name := range expected {
		if files[i] != filepath.Join(dir, name) {
			t.Errorf("Chart %d: expected %s, got %s", i, name, files[i])
		}
		data, err := os.ReadFile(files[i])
		if err != nil {
			t.Errorf("Failed to read %s: %v", name, err)
			continue
		}
		if !bytes.HasPrefix(data, pngMagic) {
			t.Errorf("%s is not a PNG", name)
		}
	}
}

func TestGenerateChartsWithoutRemote(t *testing.T) {
	dir := t.TempDir()
	files, err := NewChartGenerator(dir).GenerateCharts(testResult(t, false))
	if err != nil {
		t.Fatalf("GenerateCharts failed: %v", err)
	}

	if len(files) != 6 {
		t.Errorf("Expected 6 charts without a remote site, got %d", len(files))
	}
	if _, err := os.Stat(filepath.Join(dir, GHIComparison)); !os.IsNotExist(err) {
		t.Error("Comparison chart should not be written without a remote site")
	}
}

func TestGenerateChartsNilResult(t *testing.T) {
	if _, err := NewChartGenerator(t.TempDir()).GenerateCharts(nil); err == nil {
		t.Error("Expected error for nil result")
	}
}

func TestRenderInteractive(t *testing.T) {
	generator := NewChartGenerator(t.TempDir())
	res := testResult(t, true)

	var first, second bytes.Buffer
	if err := generator.RenderInteractive(&first, res); err != nil {
		t.Fatalf("RenderInteractive failed: %v", err)
	}
	if err := generator.RenderInteractive(&second, res); err != nil {
		t.Fatalf("RenderInteractive failed: %v", err)
	}

	html := first.String()
	for _, id := range []string{firstWeekID, summerWeekID, monthlyGHIID, tempWindID, comparisonID} {
		if !strings.Contains(html, id) {
			t.Errorf("Page does not contain chart %s", id)
		}
	}
	if !strings.Contains(html, "TMY report charts") {
		t.Error("Page title missing")
	}
	if first.String() != second.String() {
		t.Error("Rendering the same result twice produced different pages")
	}
}

func TestValueRange(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		min, max float64
	}{
		{"empty", nil, 0, 1},
		{"flat zero", []float64{0, 0, 0}, 0, 1.05},
		{"positive", []float64{10, 20}, 0, 21},
		{"negative", []float64{-10, 10}, -10, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valueRange(tt.values)
			if r.Min != tt.min {
				t.Errorf("Expected min %v, got %v", tt.min, r.Min)
			}
			if diff := r.Max - tt.max; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Expected max %v, got %v", tt.max, r.Max)
			}
		})
	}
}

type brokenChart struct{}

func (brokenChart) Render(rp chart.RendererProvider, w io.Writer) error {
	w.Write([]byte("\x89PNG partial"))
	return errors.New("render failed")
}

func TestWritePNGRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	generator := NewChartGenerator(dir)

	if _, err := generator.writePNG("broken.png", brokenChart{}); err == nil {
		t.Fatal("Expected render error")
	}
	if _, err := os.Stat(filepath.Join(dir, "broken.png")); !os.IsNotExist(err) {
		t.Errorf("Partial chart left behind: %v", err)
	}
}
