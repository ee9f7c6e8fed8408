// Package tmy reads NREL TMY3 typical meteorological year files.
package tmy

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/gocarina/gocsv"

	"tmyreport/internal/frame"
)

// Metadata is the first line of a TMY3 file
type Metadata struct {
	USAF      int     `csv:"USAF" json:"usaf"`
	Name      string  `csv:"Name" json:"name"`
	State     string  `csv:"State" json:"state"`
	TZ        float64 `csv:"TZ" json:"tz"`
	Latitude  float64 `csv:"latitude" json:"latitude"`
	Longitude float64 `csv:"longitude" json:"longitude"`
	Altitude  float64 `csv:"altitude" json:"altitude"`
}

// Location returns the fixed UTC offset of the station
func (m Metadata) Location() *time.Location {
	offset := int(m.TZ * 3600)
	sign := "+"
	if offset < 0 {
		sign = "-"
	}
	abs := offset
	if abs < 0 {
		abs = -abs
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, abs/3600, (abs%3600)/60)
	return time.FixedZone(name, offset)
}

// Options control how a TMY3 file is loaded
type Options struct {
	// CoerceYear replaces the year of every row when > 0. The closing
	// Dec 31 24:00 row lands on Jan 1 of the following year.
	CoerceYear int
	// KeepHeaders disables renaming the columns to their short names
	KeepHeaders bool
}

// Dataset is a parsed TMY3 file
type Dataset struct {
	Metadata Metadata
	Frame    *frame.Frame
}

// ReadFile opens and reads a TMY3 file
func ReadFile(path string, opts Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open TMY3 file: %w", err)
	}
	defer f.Close()

	ds, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ds, nil
}

// Read parses a TMY3 document
func Read(r io.Reader, opts Options) (*Dataset, error) {
	br := bufio.NewReader(r)

	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, fmt.Errorf("failed to read metadata line: %w", err)
	}
	meta, err := parseMetadata(line)
	if err != nil {
		return nil, err
	}

	df := dataframe.ReadCSV(br,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(columnTypes()),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse TMY3 data: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, errors.New("TMY3 file has no data rows")
	}

	dateHeader, timeHeader := columns[0].Header, columns[1].Header
	if !hasColumn(df, dateHeader) || !hasColumn(df, timeHeader) {
		return nil, fmt.Errorf("TMY3 file is missing %q or %q", dateHeader, timeHeader)
	}

	index, err := buildIndex(df.Col(dateHeader).Records(), df.Col(timeHeader).Records(), meta.Location(), opts.CoerceYear)
	if err != nil {
		return nil, err
	}

	if !opts.KeepHeaders {
		df = renameColumns(df)
	}

	fr, err := frame.New(index, df, frame.IntervalEnding)
	if err != nil {
		return nil, err
	}

	return &Dataset{Metadata: meta, Frame: fr}, nil
}

func parseMetadata(line string) (Metadata, error) {
	var metas []Metadata
	reader := csv.NewReader(strings.NewReader(strings.TrimSpace(line)))
	if err := gocsv.UnmarshalCSVWithoutHeaders(reader, &metas); err != nil {
		return Metadata{}, fmt.Errorf("invalid TMY3 metadata line: %w", err)
	}
	if len(metas) != 1 {
		return Metadata{}, fmt.Errorf("invalid TMY3 metadata line: %q", line)
	}
	return metas[0], nil
}

// columnTypes pins the date and time as strings and the measurements as
// floats; flag columns are left to type detection
func columnTypes() map[string]series.Type {
	types := make(map[string]series.Type, len(columns))
	for _, c := range columns {
		switch {
		case c.Name == "Date" || c.Name == "Time":
			types[c.Header] = series.String
		case isMeasurement(c.Name):
			types[c.Header] = series.Float
		}
	}
	return types
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func renameColumns(df dataframe.DataFrame) dataframe.DataFrame {
	names := df.Names()
	cols := make([]series.Series, len(names))
	for i, name := range names {
		s := df.Col(name)
		s.Name = ShortName(name)
		cols[i] = s
	}
	return dataframe.New(cols...)
}

// buildIndex combines MM/DD/YYYY dates with HH:MM hour-ending times.
// 24:00 rolls over to midnight of the next day.
func buildIndex(dates, times []string, loc *time.Location, coerceYear int) ([]time.Time, error) {
	index := make([]time.Time, len(dates))
	for i := range dates {
		month, day, year, err := parseDate(dates[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		hour, minute, err := parseTime(times[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if coerceYear > 0 {
			year = coerceYear
		}
		index[i] = time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc).
			Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}
	return index, nil
}

func parseDate(s string) (month, day, year int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid date %q", s)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		if vals[i], err = strconv.Atoi(p); err != nil {
			return 0, 0, 0, fmt.Errorf("invalid date %q: %w", s, err)
		}
	}
	if vals[0] < 1 || vals[0] > 12 || vals[1] < 1 || vals[1] > 31 {
		return 0, 0, 0, fmt.Errorf("invalid date %q", s)
	}
	return vals[0], vals[1], vals[2], nil
}

func parseTime(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	if hour, err = strconv.Atoi(h); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if minute, err = strconv.Atoi(m); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	return hour, minute, nil
}
