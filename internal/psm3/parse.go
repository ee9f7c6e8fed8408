package psm3

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/gocarina/gocsv"

	"tmyreport/internal/frame"
)

// Site holds the typed part of the two-line PSM3 metadata block
type Site struct {
	Source        string  `csv:"Source" json:"source"`
	LocationID    string  `csv:"Location ID" json:"location_id"`
	City          string  `csv:"City" json:"city"`
	State         string  `csv:"State" json:"state"`
	Country       string  `csv:"Country" json:"country"`
	Latitude      float64 `csv:"Latitude" json:"latitude"`
	Longitude     float64 `csv:"Longitude" json:"longitude"`
	TimeZone      float64 `csv:"Time Zone" json:"time_zone"`
	Elevation     float64 `csv:"Elevation" json:"elevation"`
	LocalTimeZone float64 `csv:"Local Time Zone" json:"local_time_zone"`
	Version       string  `csv:"Version" json:"version"`
}

// Location returns the fixed offset the timestamps are expressed in
func (s Site) Location() *time.Location {
	offset := int(math.Round(s.TimeZone * 3600))
	return time.FixedZone(fmt.Sprintf("UTC%+g", s.TimeZone), offset)
}

// Metadata keeps the typed site plus every metadata field as sent
type Metadata struct {
	Site   Site              `json:"site"`
	Fields map[string]string `json:"fields"`
}

// Dataset is a parsed PSM3 response
type Dataset struct {
	Metadata Metadata
	Frame    *frame.Frame
}

var indexColumns = []string{"Year", "Month", "Day", "Hour"}

// Parse reads a PSM3 CSV document. When coerceYear > 0 the Year column is
// overwritten and the index is built from Year, Month, Day and Hour only,
// so TMY rows stamped at minute 30 land on the hour.
func Parse(r io.Reader, coerceYear int) (*Dataset, error) {
	br := bufio.NewReader(r)

	meta, err := parseMetadata(br)
	if err != nil {
		return nil, err
	}

	df := dataframe.ReadCSV(br,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(map[string]series.Type{
			"Year":   series.Int,
			"Month":  series.Int,
			"Day":    series.Int,
			"Hour":   series.Int,
			"Minute": series.Int,
		}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse PSM3 data: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, errors.New("PSM3 response has no data rows")
	}

	names := df.Names()
	for _, col := range indexColumns {
		if !contains(names, col) {
			return nil, fmt.Errorf("PSM3 data is missing the %q column", col)
		}
	}

	if coerceYear > 0 {
		years := make([]int, df.Nrow())
		for i := range years {
			years[i] = coerceYear
		}
		df = df.Mutate(series.New(years, series.Int, "Year"))
		if df.Err != nil {
			return nil, fmt.Errorf("failed to coerce year: %w", df.Err)
		}
	}

	index, err := buildIndex(df, meta.Site.Location(), coerceYear == 0)
	if err != nil {
		return nil, err
	}

	fr, err := frame.New(index, df, frame.IntervalBeginning)
	if err != nil {
		return nil, err
	}
	return &Dataset{Metadata: meta, Frame: fr}, nil
}

func parseMetadata(br *bufio.Reader) (Metadata, error) {
	var lines []string
	for i := 0; i < 2; i++ {
		line, err := br.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return Metadata{}, fmt.Errorf("failed to read PSM3 metadata: %w", err)
		}
		lines = append(lines, strings.TrimRight(line, "\r\n"))
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return Metadata{}, fmt.Errorf("invalid PSM3 metadata block: %w", err)
	}
	if len(records) != 2 {
		return Metadata{}, errors.New("PSM3 metadata block must have a header and a value line")
	}

	fields := make(map[string]string, len(records[0]))
	for i, key := range records[0] {
		if key == "" || i >= len(records[1]) {
			continue
		}
		fields[key] = records[1][i]
	}

	var sites []Site
	typed := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	typed.FieldsPerRecord = -1
	if err := gocsv.UnmarshalCSV(typed, &sites); err != nil {
		return Metadata{}, fmt.Errorf("invalid PSM3 metadata values: %w", err)
	}
	if len(sites) != 1 {
		return Metadata{}, errors.New("invalid PSM3 metadata block")
	}

	return Metadata{Site: sites[0], Fields: fields}, nil
}

func buildIndex(df dataframe.DataFrame, loc *time.Location, withMinute bool) ([]time.Time, error) {
	years, err := df.Col("Year").Int()
	if err != nil {
		return nil, fmt.Errorf("invalid Year column: %w", err)
	}
	months, err := df.Col("Month").Int()
	if err != nil {
		return nil, fmt.Errorf("invalid Month column: %w", err)
	}
	days, err := df.Col("Day").Int()
	if err != nil {
		return nil, fmt.Errorf("invalid Day column: %w", err)
	}
	hours, err := df.Col("Hour").Int()
	if err != nil {
		return nil, fmt.Errorf("invalid Hour column: %w", err)
	}
	minutes := make([]int, len(years))
	if withMinute && contains(df.Names(), "Minute") {
		if minutes, err = df.Col("Minute").Int(); err != nil {
			return nil, fmt.Errorf("invalid Minute column: %w", err)
		}
	}

	index := make([]time.Time, len(years))
	for i := range years {
		if months[i] < 1 || months[i] > 12 || days[i] < 1 || days[i] > 31 || hours[i] < 0 || hours[i] > 23 {
			return nil, fmt.Errorf("row %d: invalid timestamp %d-%d-%d %d:%02d", i+1,
				years[i], months[i], days[i], hours[i], minutes[i])
		}
		index[i] = time.Date(years[i], time.Month(months[i]), days[i], hours[i], minutes[i], 0, 0, loc)
	}
	return index, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
