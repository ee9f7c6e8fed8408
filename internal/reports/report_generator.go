package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"tmyreport/internal/analysis"
	"tmyreport/internal/config"
	"tmyreport/internal/logger"
	"tmyreport/internal/models"
	"tmyreport/internal/observability"
	"tmyreport/internal/storage"
)

// DataSource loads the datasets of a report; fetchers.DataFetcher satisfies it
type DataSource interface {
	FetchAllData(ctx context.Context, def *config.ReportDefinition) (*models.SourceData, error)
}

// Result describes one completed report run
type Result struct {
	RunID      string            `json:"run_id"`
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	FolderPath string            `json:"folder_path"`
	ReportURL  string            `json:"report_url"`
	Rows       int               `json:"rows"`
	Columns    int               `json:"columns"`
	Files      int               `json:"files"`
	Sites      []models.SiteInfo `json:"sites"`
}

// ReportGenerator runs the fetch, analyze, render and store pipeline
type ReportGenerator struct {
	def     *config.ReportDefinition
	fetcher DataSource
	files   *FileGenerator
	store   *StorageOrchestrator
	clock   clockwork.Clock
	metrics *observability.Metrics
	log     *logger.Logger
}

// Option configures a ReportGenerator
type Option func(*ReportGenerator)

// WithClock sets the clock that stamps report folders
func WithClock(c clockwork.Clock) Option {
	return func(rg *ReportGenerator) { rg.clock = c }
}

// WithMetrics records generation outcomes and durations
func WithMetrics(m *observability.Metrics) Option {
	return func(rg *ReportGenerator) { rg.metrics = m }
}

// NewReportGenerator creates a new report generator
func NewReportGenerator(def *config.ReportDefinition, fetcher DataSource, client storage.StorageClient, opts ...Option) *ReportGenerator {
	rg := &ReportGenerator{
		def:     def,
		fetcher: fetcher,
		files:   NewFileGenerator(),
		store:   NewStorageOrchestrator(client),
		clock:   clockwork.NewRealClock(),
		log:     logger.GetGlobalLogger().WithComponent("reports"),
	}
	for _, opt := range opts {
		opt(rg)
	}
	return rg
}

// GenerateCompleteReport handles the complete report generation pipeline
func (rg *ReportGenerator) GenerateCompleteReport(ctx context.Context) (*Result, error) {
	start := rg.clock.Now()
	timestamp := start.UTC().Truncate(time.Millisecond)
	runID := uuid.NewString()
	log := rg.log.With(map[string]interface{}{"run_id": runID})

	log.Info("Starting report generation", map[string]interface{}{"title": rg.def.Title})

	res, err := rg.run(ctx, log, runID, timestamp)
	rg.record(start, err)
	if err != nil {
		log.Error("Report generation failed", err)
		return nil, err
	}

	log.Info("Report generation completed", map[string]interface{}{
		"folder":   res.FolderPath,
		"files":    res.Files,
		"duration": rg.clock.Since(start).String(),
	})
	return res, nil
}

func (rg *ReportGenerator) run(ctx context.Context, log *logger.Logger, runID string, timestamp time.Time) (*Result, error) {
	if rg.fetcher == nil {
		return nil, errors.New("no data source configured")
	}

	// Step 1: Load both datasets
	src, err := rg.fetcher.FetchAllData(ctx, rg.def)
	if err != nil {
		return nil, fmt.Errorf("data fetching failed: %w", err)
	}

	// Step 2: Derive the report tables
	res, err := analysis.Analyze(src, rg.def)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	log.Debug("Analysis completed", map[string]interface{}{
		"rows":    res.RowCount,
		"columns": res.ColumnCount,
	})

	// Step 3: Render files
	files, err := rg.files.GenerateAllFiles(ctx, src, res, rg.def, timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to generate files: %w", err)
	}

	// Step 4: Store them
	stored, err := rg.store.StoreAllFiles(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("failed to store files: %w", err)
	}

	return &Result{
		RunID:      runID,
		Status:     "success",
		Timestamp:  timestamp,
		FolderPath: files.FolderPath,
		ReportURL:  storage.ReportURL(files.FolderPath),
		Rows:       res.RowCount,
		Columns:    res.ColumnCount,
		Files:      stored,
		Sites:      src.Sites,
	}, nil
}

func (rg *ReportGenerator) record(start time.Time, err error) {
	if rg.metrics == nil {
		return
	}
	rg.metrics.GenerationDuration.Observe(rg.clock.Since(start).Seconds())
	if err != nil {
		rg.metrics.Generations.WithLabelValues("error").Inc()
		return
	}
	rg.metrics.Generations.WithLabelValues("success").Inc()
	rg.metrics.LastSuccess.Set(float64(start.Unix()))
}
