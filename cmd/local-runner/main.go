package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"tmyreport/internal/analysis"
	"tmyreport/internal/config"
	"tmyreport/internal/fetchers"
	"tmyreport/internal/logger"
	"tmyreport/internal/models"
	"tmyreport/internal/reports"
	"tmyreport/internal/storage"
)

// loadedSource hands already fetched data to the report generator
type loadedSource struct {
	src *models.SourceData
}

func (l loadedSource) FetchAllData(context.Context, *config.ReportDefinition) (*models.SourceData, error) {
	return l.src, nil
}

// options are the command line overrides of the environment configuration
type options struct {
	outDir     string
	tmyFile    string
	definition string
	mock       bool
}

func main() {
	var opts options
	flag.StringVar(&opts.outDir, "out", "", "reports directory (default LOCAL_REPORTS_DIR)")
	flag.StringVar(&opts.tmyFile, "tmy", "", "TMY3 file (default TMY_FILE or the report definition)")
	flag.StringVar(&opts.definition, "definition", "", "report definition YAML (default REPORT_DEFINITION)")
	flag.BoolVar(&opts.mock, "mock", false, "use generated data instead of the NSRDB API")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		logger.Fatal("Local run failed", err)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	cfg.DeploymentMode = config.DeploymentLocal
	if opts.outDir != "" {
		cfg.LocalReportsDir = opts.outDir
	}
	if opts.tmyFile != "" {
		cfg.TMYFile = opts.tmyFile
	}
	if opts.definition != "" {
		cfg.ReportDefinition = opts.definition
	}
	cfg.MockupMode = cfg.MockupMode || opts.mock

	def, err := config.LoadReport(cfg)
	if err != nil {
		return err
	}

	src, err := fetchers.NewFromConfig(cfg, nil).FetchAllData(ctx, def)
	if err != nil {
		return err
	}
	res, err := analysis.Analyze(src, def)
	if err != nil {
		return err
	}
	if err := printOverview(stdout, res); err != nil {
		return err
	}

	client, err := storage.NewLocalStorageClient(cfg.LocalReportsDir)
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := reports.NewReportGenerator(def, loadedSource{src}, client).GenerateCompleteReport(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nReport written to %s/%s/%s\n", client.BaseDir(), result.FolderPath, reports.IndexFile)
	return nil
}

// printOverview writes the dataset shape, its column keys and the first rows
func printOverview(w io.Writer, res *analysis.Result) error {
	fmt.Fprintf(w, "Number of rows: %d\n", res.RowCount)
	fmt.Fprintf(w, "Number of columns: %d\n", res.ColumnCount)
	fmt.Fprintf(w, "Keys: %s\n\n", strings.Join(res.Keys, ", "))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, row := range res.Head.Records(2) {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}
