package psm3

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"tmyreport/internal/synth"
)

// SampleSite returns placeholder metadata for a generated dataset at the given point
func SampleSite(latitude, longitude float64) Site {
	tz := float64(int(longitude / 15))
	return Site{
		Source:        "NSRDB",
		LocationID:    "0",
		City:          "-",
		State:         "-",
		Country:       "-",
		Latitude:      latitude,
		Longitude:     longitude,
		TimeZone:      tz,
		Elevation:     0,
		LocalTimeZone: tz,
		Version:       "3.2.0",
	}
}

var sampleHeader = []string{
	"Year", "Month", "Day", "Hour", "Minute",
	"Temperature", "Dew Point", "DHI", "DNI", "GHI",
	"Surface Albedo", "Pressure", "Wind Direction", "Wind Speed",
}

// GenerateSample writes a synthetic hourly PSM3 TMY document for the site.
// Rows are interval-beginning like the real service.
func GenerateSample(w io.Writer, site Site, year int) error {
	if err := gocsv.Marshal([]Site{site}, w); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(sampleHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 365; day++ {
		date := start.AddDate(0, 0, day)
		for hour := 0; hour < 24; hour++ {
			s := synth.Hourly(site.Latitude, day+1, float64(hour)+0.5)
			row := []string{
				strconv.Itoa(date.Year()),
				strconv.Itoa(int(date.Month())),
				strconv.Itoa(date.Day()),
				strconv.Itoa(hour),
				"0",
				ff(s.DryBulb), ff(s.DewPoint), ff(s.DHI), ff(s.DNI), ff(s.GHI),
				ff(s.Albedo), ff(s.Pressure), ff(s.Wdir), ff(s.Wspd),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
