// Package synth produces deterministic, plausible hourly weather values for
// fixture files. It is a shape generator, not a solar resource model.
package synth

import "math"

const solarConstant = 1367.0

// Sample is one hour of generated weather
type Sample struct {
	ETR      float64 // extraterrestrial horizontal, W/m^2
	ETRN     float64 // extraterrestrial normal, W/m^2
	GHI      float64
	DNI      float64
	DHI      float64
	DryBulb  float64 // C
	DewPoint float64 // C
	RHum     float64 // %
	Pressure float64 // mbar
	Wdir     float64 // degrees
	Wspd     float64 // m/s
	Albedo   float64
	TotCld   float64 // tenths
}

// Hourly returns the weather for the hour centred on solarHour (0-24) of the
// given day of year at the given latitude.
func Hourly(latitude float64, dayOfYear int, solarHour float64) Sample {
	n := float64(dayOfYear)
	rad := math.Pi / 180

	decl := 23.45 * math.Sin(2*math.Pi*(284+n)/365) * rad
	hourAngle := 15 * (solarHour - 12) * rad
	lat := latitude * rad
	cosZ := math.Sin(lat)*math.Sin(decl) + math.Cos(lat)*math.Cos(decl)*math.Cos(hourAngle)

	etrn := solarConstant * (1 + 0.033*math.Cos(2*math.Pi*n/365))

	// cloudiness cycles on a roughly weekly period so monthly sums differ
	cloud := 0.5 + 0.5*math.Sin(2*math.Pi*n/7.3+latitude)
	clearness := 1 - 0.45*cloud

	s := Sample{
		ETRN:   round(etrn, 0),
		Albedo: 0.2,
		TotCld: round(10*cloud, 0),
	}

	if cosZ > 0 {
		airMass := 1 / math.Max(cosZ, 0.035)
		dni := etrn * math.Pow(0.7, math.Pow(airMass, 0.678)) * clearness
		dhi := etrn * cosZ * (0.08 + 0.2*cloud)
		s.ETR = round(etrn*cosZ, 0)
		s.DNI = round(dni, 0)
		s.DHI = round(dhi, 0)
		s.GHI = round(dni*cosZ+dhi, 0)
	}

	seasonal := -math.Cos(2 * math.Pi * (n - 15) / 365)
	if latitude < 0 {
		seasonal = -seasonal
	}
	diurnal := math.Sin(2 * math.Pi * (solarHour - 9) / 24)

	s.DryBulb = round(15+11*seasonal+5*diurnal-2*cloud, 1)
	s.DewPoint = round(s.DryBulb-6-4*(1-cloud), 1)
	s.RHum = round(relativeHumidity(s.DryBulb, s.DewPoint), 0)
	s.Pressure = round(1013-4*cloud, 0)
	s.Wspd = round(3.2+1.5*math.Sin(2*math.Pi*n/5.1)+0.8*diurnal, 1)
	s.Wdir = round(math.Mod(200+90*math.Sin(2*math.Pi*n/9.7)+360, 360), 0)

	return s
}

// relativeHumidity uses the Magnus approximation
func relativeHumidity(temp, dew float64) float64 {
	const a, b = 17.625, 243.04
	rh := 100 * math.Exp(a*dew/(b+dew)) / math.Exp(a*temp/(b+temp))
	return math.Min(100, math.Max(0, rh))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
