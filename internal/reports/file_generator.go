package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"tmyreport/internal/analysis"
	"tmyreport/internal/charts"
	"tmyreport/internal/config"
	"tmyreport/internal/logger"
	"tmyreport/internal/models"
	"tmyreport/internal/storage"
)

// Report file names
const (
	IndexFile          = "index.html"
	MarkdownFile       = "report.md"
	SummaryFile        = "summary.json"
	LocalMetadataFile  = "local_metadata.json"
	RemoteMetadataFile = "remote_metadata.json"
	MonthlySummaryFile = "monthly_summary.csv"
)

// GeneratedFiles contains all files generated for a report
type GeneratedFiles struct {
	FolderPath  string
	HTMLContent string
	Markdown    string
	ChartFiles  map[string][]byte
	JSONFiles   map[string][]byte
	CSVFiles    map[string][]byte
}

// All returns every file keyed by its name inside the report folder
func (f *GeneratedFiles) All() map[string][]byte {
	all := make(map[string][]byte, len(f.ChartFiles)+len(f.JSONFiles)+len(f.CSVFiles)+2)
	for _, group := range []map[string][]byte{f.ChartFiles, f.JSONFiles, f.CSVFiles} {
		for name, data := range group {
			all[name] = data
		}
	}
	all[MarkdownFile] = []byte(f.Markdown)
	all[IndexFile] = []byte(f.HTMLContent)
	return all
}

// Names returns the file names in sorted order
func (f *GeneratedFiles) Names() []string {
	all := f.All()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileGenerator handles generation of all report files
type FileGenerator struct {
	htmlBuilder *HTMLBuilder
	log         *logger.Logger
}

// NewFileGenerator creates a new file generator
func NewFileGenerator() *FileGenerator {
	return &FileGenerator{
		htmlBuilder: NewHTMLBuilder(),
		log:         logger.GetGlobalLogger().WithComponent("reports"),
	}
}

// GenerateAllFiles creates all report files (HTML, charts, JSON, CSV, markdown)
func (fg *FileGenerator) GenerateAllFiles(ctx context.Context, src *models.SourceData, res *analysis.Result,
	def *config.ReportDefinition, timestamp time.Time) (*GeneratedFiles, error) {
	if src == nil || res == nil {
		return nil, errors.New("source data and analysis result are required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files := &GeneratedFiles{
		FolderPath: storage.GenerateReportFolderPath(timestamp),
		ChartFiles: make(map[string][]byte),
		JSONFiles:  make(map[string][]byte),
		CSVFiles:   make(map[string][]byte),
	}
	summary := res.Summary(src.Sites)

	// 1. Charts
	chartNames, err := fg.generateCharts(res, files)
	if err != nil {
		return nil, err
	}

	// 2. JSON files for each data source and the summary
	if err := fg.generateJSONFiles(src, summary, files); err != nil {
		return nil, err
	}

	// 3. Monthly CSV
	csvData, err := gocsv.MarshalBytes(summary.Monthly)
	if err != nil {
		return nil, fmt.Errorf("failed to encode monthly summary: %w", err)
	}
	files.CSVFiles[MonthlySummaryFile] = csvData

	// 4. Markdown and HTML
	files.Markdown = BuildMarkdown(def.Title, timestamp, src, res, summary)

	downloads := []string{MarkdownFile, SummaryFile, MonthlySummaryFile, LocalMetadataFile}
	if _, ok := files.JSONFiles[RemoteMetadataFile]; ok {
		downloads = append(downloads, RemoteMetadataFile)
	}
	files.HTMLContent, err = fg.htmlBuilder.BuildCompleteHTML(PageData{
		Title:          def.Title,
		GeneratedAt:    timestamp.UTC().Format("2006-01-02 15:04:05 UTC"),
		Version:        config.GetVersion(),
		Markdown:       files.Markdown,
		ChartFiles:     chartNames,
		InteractiveURL: charts.InteractiveFile,
		Downloads:      downloads,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	fg.log.Debug("Generated report files", map[string]interface{}{
		"folder": files.FolderPath,
		"files":  len(files.All()),
	})
	return files, nil
}

// generateCharts renders the PNGs into a scratch directory and keeps their bytes
func (fg *FileGenerator) generateCharts(res *analysis.Result, files *GeneratedFiles) ([]string, error) {
	tempDir, err := os.MkdirTemp("", "tmyreport-charts-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	gen := charts.NewChartGenerator(tempDir)
	paths, err := gen.GenerateCharts(res)
	if err != nil {
		return nil, fmt.Errorf("failed to generate charts: %w", err)
	}

	names := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read chart %s: %w", p, err)
		}
		name := filepath.Base(p)
		files.ChartFiles[name] = data
		names = append(names, name)
	}

	var page bytes.Buffer
	if err := gen.RenderInteractive(&page, res); err != nil {
		return nil, err
	}
	files.ChartFiles[charts.InteractiveFile] = page.Bytes()

	return names, nil
}

// generateJSONFiles writes the metadata of each source and the summary
func (fg *FileGenerator) generateJSONFiles(src *models.SourceData, summary analysis.Summary, files *GeneratedFiles) error {
	add := func(name string, v interface{}) error {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		files.JSONFiles[name] = data
		return nil
	}

	if src.Local != nil {
		if err := add(LocalMetadataFile, src.Local.Metadata); err != nil {
			return err
		}
	}
	if src.Remote != nil {
		if err := add(RemoteMetadataFile, src.Remote.Metadata); err != nil {
			return err
		}
	}
	return add(SummaryFile, summary)
}
