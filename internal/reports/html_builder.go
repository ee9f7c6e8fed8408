package reports

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// HTMLBuilder handles HTML generation with goldmark
type HTMLBuilder struct {
	templateLoader *TemplateLoader
	chartHTML      *ChartHTMLBuilder
	goldmark       goldmark.Markdown
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder() *HTMLBuilder {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	return &HTMLBuilder{
		templateLoader: NewTemplateLoader(),
		chartHTML:      NewChartHTMLBuilder(),
		goldmark:       md,
	}
}

// PageData holds the values substituted into the report page
type PageData struct {
	Title          string
	GeneratedAt    string
	Version        string
	Markdown       string
	ChartFiles     []string
	InteractiveURL string
	Downloads      []string
}

// templateData represents the data structure for the HTML template
type templateData struct {
	Title          string
	GeneratedAt    string
	Version        string
	Content        template.HTML
	Charts         template.HTML
	InteractiveURL string
	Downloads      []string
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// BuildCompleteHTML renders the markdown and wraps it in the report page
func (h *HTMLBuilder) BuildCompleteHTML(page PageData) (string, error) {
	content, err := h.ConvertMarkdownToHTML(page.Markdown)
	if err != nil {
		return "", err
	}

	return h.executeTemplate(templateData{
		Title:          page.Title,
		GeneratedAt:    page.GeneratedAt,
		Version:        page.Version,
		Content:        template.HTML(content),
		Charts:         h.chartHTML.BuildChartsHTML(page.ChartFiles),
		InteractiveURL: page.InteractiveURL,
		Downloads:      page.Downloads,
	})
}

// executeTemplate executes the HTML template with the provided data
func (h *HTMLBuilder) executeTemplate(data templateData) (string, error) {
	htmlTemplate, err := h.templateLoader.LoadHTMLTemplate()
	if err != nil {
		return "", fmt.Errorf("failed to load HTML template: %w", err)
	}

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
