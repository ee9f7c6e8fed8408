package reports

import (
	"fmt"
	"html/template"
	"path"
	"strings"
)

// ChartHTMLBuilder handles chart HTML generation
type ChartHTMLBuilder struct{}

// NewChartHTMLBuilder creates a new chart HTML builder
func NewChartHTMLBuilder() *ChartHTMLBuilder {
	return &ChartHTMLBuilder{}
}

// BuildChartsHTML creates HTML for chart images. Links are relative to the
// report folder so the page works from local disk and through the file proxy.
func (c *ChartHTMLBuilder) BuildChartsHTML(chartFiles []string) template.HTML {
	if len(chartFiles) == 0 {
		return template.HTML("<p>No charts available</p>")
	}

	var html strings.Builder
	html.WriteString("<div class=\"charts-section\">\n")
	html.WriteString("<h2>Charts</h2>\n")
	html.WriteString("<div class=\"charts-grid\">\n")

	for _, chartFile := range chartFiles {
		filename := path.Base(chartFile)
		title := chartTitle(filename)
		html.WriteString(fmt.Sprintf(`<div class="chart-container">
<h3>%s</h3>
<img src="%s" alt="%s" class="chart-image">
</div>
`, template.HTMLEscapeString(title), template.HTMLEscapeString(filename), template.HTMLEscapeString(title)))
	}

	html.WriteString("</div>\n")
	html.WriteString("</div>\n")
	return template.HTML(html.String())
}

// chartTitle turns "monthly_ghi.png" into "Monthly Ghi"
func chartTitle(filename string) string {
	title := strings.TrimSuffix(filename, path.Ext(filename))
	return ToTitleCase(strings.ReplaceAll(title, "_", " "))
}
