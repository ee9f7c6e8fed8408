package reports

import (
	"embed"
	"fmt"
)

//go:embed templates/report.html
var templateFS embed.FS

// TemplateLoader handles loading HTML templates
type TemplateLoader struct{}

// NewTemplateLoader creates a new template loader
func NewTemplateLoader() *TemplateLoader {
	return &TemplateLoader{}
}

// LoadHTMLTemplate returns the report page template
func (t *TemplateLoader) LoadHTMLTemplate() (string, error) {
	content, err := templateFS.ReadFile("templates/report.html")
	if err != nil {
		return "", fmt.Errorf("failed to read report template: %w", err)
	}
	return string(content), nil
}
