package tmy

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"tmyreport/internal/synth"
)

// DefaultSite is the station used for the bundled sample file
var DefaultSite = Metadata{
	USAF:      723170,
	Name:      "GREENSBORO PIEDMONT TRIAD INT",
	State:     "NC",
	TZ:        -5,
	Latitude:  36.1,
	Longitude: -79.95,
	Altitude:  277,
}

// GenerateSample writes a synthetic 8760-hour TMY3 file for the given site and year
func GenerateSample(w io.Writer, site Metadata, year int) error {
	if err := gocsv.MarshalWithoutHeaders([]Metadata{site}, w); err != nil {
		return fmt.Errorf("failed to write metadata line: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Headers()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	row := make([]string, len(columns))
	for day := 0; day < 365; day++ {
		date := start.AddDate(0, 0, day)
		for hour := 1; hour <= 24; hour++ {
			s := synth.Hourly(site.Latitude, day+1, float64(hour)-0.5)
			fillRow(row, date, hour, s)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func fillRow(row []string, date time.Time, hour int, s synth.Sample) {
	values := map[string]float64{
		"ETR":             s.ETR,
		"ETRN":            s.ETRN,
		"GHI":             s.GHI,
		"DNI":             s.DNI,
		"DHI":             s.DHI,
		"GHillum":         math.Round(s.GHI * 110),
		"DNillum":         math.Round(s.DNI * 100),
		"DHillum":         math.Round(s.DHI * 120),
		"Zenithlum":       math.Round(s.DHI * 15),
		"TotCld":          s.TotCld,
		"OpqCld":          math.Max(0, s.TotCld-1),
		"DryBulb":         s.DryBulb,
		"DewPoint":        s.DewPoint,
		"RHum":            s.RHum,
		"Pressure":        s.Pressure,
		"Wdir":            s.Wdir,
		"Wspd":            s.Wspd,
		"Hvis":            16000,
		"CeilHgt":         77777,
		"Pwat":            1.5,
		"AOD":             0.08,
		"Alb":             s.Albedo,
		"Lprecipdepth":    -9900,
		"Lprecipquantity": -9900,
		"PresWth":         0,
	}

	for i, c := range columns {
		switch {
		case c.Name == "Date":
			row[i] = date.Format("01/02/2006")
		case c.Name == "Time":
			row[i] = fmt.Sprintf("%02d:00", hour)
		case strings.HasSuffix(c.Name, "Source"):
			row[i] = "E"
		case strings.HasSuffix(c.Name, "Uncertainty"):
			row[i] = "8"
		default:
			row[i] = strconv.FormatFloat(values[c.Name], 'f', -1, 64)
		}
	}
}
