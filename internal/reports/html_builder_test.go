package reports

import (
	"strings"
	"testing"
)

func TestConvertMarkdownToHTML(t *testing.T) {
	h := NewHTMLBuilder()

	html, err := h.ConvertMarkdownToHTML("# Title\n\n| A | B |\n| --- | --- |\n| 1 | 2 |\n")
	if err != nil {
		t.Fatalf("ConvertMarkdownToHTML failed: %v", err)
	}
	for _, want := range []string{`<h1 id="title">Title</h1>`, "<table>", "<td>1</td>"} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected %q in output:\n%s", want, html)
		}
	}
}

func TestBuildCompleteHTML(t *testing.T) {
	h := NewHTMLBuilder()

	html, err := h.BuildCompleteHTML(PageData{
		Title:          "TMY <Weather> Data",
		GeneratedAt:    "2024-03-01 12:00:00 UTC",
		Version:        "1.2.3",
		Markdown:       "Number of rows: 8760",
		ChartFiles:     []string{"monthly_ghi.png", "ghi_comparison.png"},
		InteractiveURL: "charts.html",
		Downloads:      []string{"summary.json", "monthly_summary.csv"},
	})
	if err != nil {
		t.Fatalf("BuildCompleteHTML failed: %v", err)
	}

	expected := []string{
		"<title>TMY &lt;Weather&gt; Data</title>",
		"Generated 2024-03-01 12:00:00 UTC",
		"<p>Number of rows: 8760</p>",
		`<img src="monthly_ghi.png" alt="Monthly Ghi" class="chart-image">`,
		`<img src="ghi_comparison.png"`,
		`<a href="charts.html">`,
		`<a href="summary.json">summary.json</a>`,
		`<a href="monthly_summary.csv">`,
		"tmyreport 1.2.3",
	}
	for _, want := range expected {
		if !strings.Contains(html, want) {
			t.Errorf("Expected %q in page", want)
		}
	}
}

func TestBuildChartsHTMLEmpty(t *testing.T) {
	got := NewChartHTMLBuilder().BuildChartsHTML(nil)
	if string(got) != "<p>No charts available</p>" {
		t.Errorf("Unexpected HTML for no charts: %s", got)
	}
}
