package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed report.yaml
var defaultReportYAML []byte

// LocalSource is the TMY3 file read from disk
type LocalSource struct {
	Label      string `yaml:"label" json:"label"`
	Path       string `yaml:"path" json:"path"`
	CoerceYear int    `yaml:"coerce_year" json:"coerce_year"`
}

// RemoteSource is the PSM3 dataset fetched from the NSRDB
type RemoteSource struct {
	Enabled    bool     `yaml:"enabled" json:"enabled"`
	Label      string   `yaml:"label" json:"label"`
	Latitude   float64  `yaml:"latitude" json:"latitude"`
	Longitude  float64  `yaml:"longitude" json:"longitude"`
	Names      string   `yaml:"names" json:"names"`
	Interval   int      `yaml:"interval" json:"interval"`
	Attributes []string `yaml:"attributes" json:"attributes,omitempty"`
	APIKey     string   `yaml:"api_key" json:"-"`
	Email      string   `yaml:"email" json:"-"`
	CoerceYear int      `yaml:"coerce_year" json:"coerce_year"`
}

// DateRange is an inclusive pair of YYYY-MM-DD days
type DateRange struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

// ReportDefinition describes what the report loads and which views it renders
type ReportDefinition struct {
	Title              string       `yaml:"title" json:"title"`
	Local              LocalSource  `yaml:"local" json:"local"`
	Remote             RemoteSource `yaml:"remote" json:"remote"`
	Columns            []string     `yaml:"columns" json:"columns"`
	IrradianceColumns  []string     `yaml:"irradiance_columns" json:"irradiance_columns"`
	HeadRows           int          `yaml:"head_rows" json:"head_rows"`
	FirstWeekHours     int          `yaml:"first_week_hours" json:"first_week_hours"`
	SummerWeek         DateRange    `yaml:"summer_week" json:"summer_week"`
	MonthlySumColumn   string       `yaml:"monthly_sum_column" json:"monthly_sum_column"`
	MonthlyMeanColumns []string     `yaml:"monthly_mean_columns" json:"monthly_mean_columns"`
}

// DefaultReportDefinition returns the built-in definition
func DefaultReportDefinition() *ReportDefinition {
	var def ReportDefinition
	if err := yaml.Unmarshal(defaultReportYAML, &def); err != nil {
		panic(fmt.Sprintf("embedded report definition is invalid: %v", err))
	}
	return &def
}

// LoadReportDefinition reads a YAML definition on top of the defaults.
// An empty path returns the defaults.
func LoadReportDefinition(path string) (*ReportDefinition, error) {
	def := DefaultReportDefinition()
	if path == "" {
		return def, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report definition %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, fmt.Errorf("failed to parse report definition %s: %w", path, err)
	}
	return def, nil
}

// LoadReport resolves the report definition for a configuration
func LoadReport(cfg *Config) (*ReportDefinition, error) {
	def, err := LoadReportDefinition(cfg.ReportDefinition)
	if err != nil {
		return nil, err
	}
	def.ApplyOverrides(cfg)
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// ApplyOverrides copies the environment overrides into the definition
func (d *ReportDefinition) ApplyOverrides(cfg *Config) {
	if cfg.TMYFile != "" {
		d.Local.Path = cfg.TMYFile
	}
	if cfg.CoerceYear > 0 {
		d.Local.CoerceYear = cfg.CoerceYear
		d.Remote.CoerceYear = cfg.CoerceYear
	}
	if cfg.PSM3APIKey != "" {
		d.Remote.APIKey = cfg.PSM3APIKey
	}
	if cfg.PSM3Email != "" {
		d.Remote.Email = cfg.PSM3Email
	}
}

// Validate checks the definition for values no report could be built from
func (d *ReportDefinition) Validate() error {
	var errs []error

	if d.Local.Label == "" {
		errs = append(errs, errors.New("local.label is required"))
	}
	if d.Local.Path == "" {
		errs = append(errs, errors.New("local.path is required"))
	}
	if d.Remote.Enabled {
		if d.Remote.Label == "" {
			errs = append(errs, errors.New("remote.label is required"))
		}
		if d.Remote.Label == d.Local.Label {
			errs = append(errs, fmt.Errorf("remote.label must differ from local.label (%q)", d.Local.Label))
		}
	}
	if len(d.Columns) == 0 {
		errs = append(errs, errors.New("columns must not be empty"))
	}
	if len(d.IrradianceColumns) == 0 {
		errs = append(errs, errors.New("irradiance_columns must not be empty"))
	}
	if d.HeadRows <= 0 {
		errs = append(errs, errors.New("head_rows must be positive"))
	}
	if d.FirstWeekHours <= 0 {
		errs = append(errs, errors.New("first_week_hours must be positive"))
	}
	if d.MonthlySumColumn == "" {
		errs = append(errs, errors.New("monthly_sum_column is required"))
	}

	start, errStart := time.Parse(time.DateOnly, d.SummerWeek.Start)
	end, errEnd := time.Parse(time.DateOnly, d.SummerWeek.End)
	switch {
	case errStart != nil || errEnd != nil:
		errs = append(errs, fmt.Errorf("summer_week dates must be YYYY-MM-DD, got %q and %q", d.SummerWeek.Start, d.SummerWeek.End))
	case end.Before(start):
		errs = append(errs, errors.New("summer_week.end is before summer_week.start"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid report definition: %w", errors.Join(errs...))
	}
	return nil
}
