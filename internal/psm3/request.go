// Package psm3 retrieves and parses NSRDB Physical Solar Model v3 data.
package psm3

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// TMYURL serves typical-year datasets (names starting with "tmy")
	TMYURL = "https://developer.nrel.gov/api/nsrdb/v2/solar/psm3-tmy-download.csv"
	// PSM3URL serves single-year datasets
	PSM3URL = "https://developer.nrel.gov/api/nsrdb/v2/solar/psm3-download.csv"

	defaultRequester = "tmyreport"
)

// DefaultAttributes are requested when a request leaves Attributes empty
var DefaultAttributes = []string{
	"air_temperature", "dew_point", "dhi", "dni", "ghi",
	"surface_albedo", "surface_pressure", "wind_direction", "wind_speed",
}

var validate = validator.New()

// Request describes one PSM3 download
type Request struct {
	Latitude    float64  `validate:"gte=-90,lte=90"`
	Longitude   float64  `validate:"gte=-180,lte=180"`
	APIKey      string   `validate:"required"`
	Email       string   `validate:"required,email"`
	Names       string   `validate:"required"`
	Interval    int      `validate:"omitempty,oneof=5 15 30 60"`
	Attributes  []string `validate:"dive,required"`
	LeapDay     bool
	FullName    string
	Affiliation string
	Reason      string
	// CoerceYear overwrites the Year column of the parsed data when > 0
	CoerceYear int `validate:"gte=0"`
}

// Validate checks the request fields
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid PSM3 request: %w", err)
	}
	return nil
}

// IsTMY reports whether the request targets the typical-year endpoint
func (r Request) IsTMY() bool {
	return strings.HasPrefix(r.Names, "tmy")
}

// QueryParams returns the URL query for the request
func (r Request) QueryParams() map[string]string {
	attrs := r.Attributes
	if len(attrs) == 0 {
		attrs = DefaultAttributes
	}
	interval := r.Interval
	if interval == 0 {
		interval = 60
	}

	return map[string]string{
		"api_key":      r.APIKey,
		"full_name":    orDefault(r.FullName, defaultRequester),
		"email":        r.Email,
		"affiliation":  orDefault(r.Affiliation, defaultRequester),
		"reason":       orDefault(r.Reason, defaultRequester),
		"mailing_list": "false",
		"wkt":          fmt.Sprintf("POINT(%s %s)", formatCoord(r.Longitude), formatCoord(r.Latitude)),
		"names":        r.Names,
		"attributes":   strings.Join(attrs, ","),
		"leap_day":     strconv.FormatBool(r.LeapDay),
		"utc":          "false",
		"interval":     strconv.Itoa(interval),
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
