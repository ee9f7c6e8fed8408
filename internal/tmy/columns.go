package tmy

import "strings"

// column pairs a TMY3 file header with its short name
type column struct {
	Header string
	Name   string
}

// columns lists the 71 TMY3 fields in file order
var columns = []column{
	{"Date (MM/DD/YYYY)", "Date"},
	{"Time (HH:MM)", "Time"},
	{"ETR (W/m^2)", "ETR"},
	{"ETRN (W/m^2)", "ETRN"},
	{"GHI (W/m^2)", "GHI"},
	{"GHI source", "GHISource"},
	{"GHI uncert (%)", "GHIUncertainty"},
	{"DNI (W/m^2)", "DNI"},
	{"DNI source", "DNISource"},
	{"DNI uncert (%)", "DNIUncertainty"},
	{"DHI (W/m^2)", "DHI"},
	{"DHI source", "DHISource"},
	{"DHI uncert (%)", "DHIUncertainty"},
	{"GH illum (lx)", "GHillum"},
	{"GH illum source", "GHillumSource"},
	{"GH illum uncert (%)", "GHillumUncertainty"},
	{"DN illum (lx)", "DNillum"},
	{"DN illum source", "DNillumSource"},
	{"DN illum uncert (%)", "DNillumUncertainty"},
	{"DH illum (lx)", "DHillum"},
	{"DH illum source", "DHillumSource"},
	{"DH illum uncert (%)", "DHillumUncertainty"},
	{"Zenith lum (cd/m^2)", "Zenithlum"},
	{"Zenith lum source", "ZenithlumSource"},
	{"Zenith lum uncert (%)", "ZenithlumUncertainty"},
	{"TotCld (tenths)", "TotCld"},
	{"TotCld source", "TotCldSource"},
	{"TotCld uncert (code)", "TotCldUncertainty"},
	{"OpqCld (tenths)", "OpqCld"},
	{"OpqCld source", "OpqCldSource"},
	{"OpqCld uncert (code)", "OpqCldUncertainty"},
	{"Dry-bulb (C)", "DryBulb"},
	{"Dry-bulb source", "DryBulbSource"},
	{"Dry-bulb uncert (code)", "DryBulbUncertainty"},
	{"Dew-point (C)", "DewPoint"},
	{"Dew-point source", "DewPointSource"},
	{"Dew-point uncert (code)", "DewPointUncertainty"},
	{"RHum (%)", "RHum"},
	{"RHum source", "RHumSource"},
	{"RHum uncert (code)", "RHumUncertainty"},
	{"Pressure (mbar)", "Pressure"},
	{"Pressure source", "PressureSource"},
	{"Pressure uncert (code)", "PressureUncertainty"},
	{"Wdir (degrees)", "Wdir"},
	{"Wdir source", "WdirSource"},
	{"Wdir uncert (code)", "WdirUncertainty"},
	{"Wspd (m/s)", "Wspd"},
	{"Wspd source", "WspdSource"},
	{"Wspd uncert (code)", "WspdUncertainty"},
	{"Hvis (m)", "Hvis"},
	{"Hvis source", "HvisSource"},
	{"Hvis uncert (code)", "HvisUncertainty"},
	{"CeilHgt (m)", "CeilHgt"},
	{"CeilHgt source", "CeilHgtSource"},
	{"CeilHgt uncert (code)", "CeilHgtUncertainty"},
	{"Pwat (cm)", "Pwat"},
	{"Pwat source", "PwatSource"},
	{"Pwat uncert (code)", "PwatUncertainty"},
	{"AOD (unitless)", "AOD"},
	{"AOD source", "AODSource"},
	{"AOD uncert (code)", "AODUncertainty"},
	{"Alb (unitless)", "Alb"},
	{"Alb source", "AlbSource"},
	{"Alb uncert (code)", "AlbUncertainty"},
	{"Lprecip depth (mm)", "Lprecipdepth"},
	{"Lprecip quantity (hr)", "Lprecipquantity"},
	{"Lprecip source", "LprecipSource"},
	{"Lprecip uncert (code)", "LprecipUncertainty"},
	{"PresWth (METAR code)", "PresWth"},
	{"PresWth source", "PresWthSource"},
	{"PresWth uncert (code)", "PresWthUncertainty"},
}

var shortNames = func() map[string]string {
	m := make(map[string]string, len(columns))
	for _, c := range columns {
		m[c.Header] = c.Name
	}
	return m
}()

// ShortName returns the short key for a TMY3 header; unknown headers are returned unchanged
func ShortName(header string) string {
	if name, ok := shortNames[strings.TrimSpace(header)]; ok {
		return name
	}
	return header
}

// Headers returns the TMY3 file headers in order
func Headers() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Header
	}
	return out
}

// isMeasurement reports whether a short name holds a physical quantity
// rather than the date, time or a source/uncertainty flag
func isMeasurement(name string) bool {
	if name == "Date" || name == "Time" || name == "PresWth" {
		return false
	}
	return !strings.HasSuffix(name, "Source") && !strings.HasSuffix(name, "Uncertainty")
}
