package analysis

import (
	"math"

	"tmyreport/internal/frame"
	"tmyreport/internal/models"
)

// Summary is the JSON form of a Result. Missing values are reported as 0
// since JSON has no NaN.
type Summary struct {
	RowCount    int                        `json:"row_count"`
	ColumnCount int                        `json:"column_count"`
	Keys        []string                   `json:"keys"`
	Sites       []models.SiteInfo          `json:"sites"`
	AnnualGHI   map[string]float64         `json:"annual_ghi_kwh_m2"`
	Monthly     []models.MonthlySummaryRow `json:"monthly"`
}

// Summary flattens the result for JSON and CSV output
func (r *Result) Summary(sites []models.SiteInfo) Summary {
	s := Summary{
		RowCount:    r.RowCount,
		ColumnCount: r.ColumnCount,
		Keys:        r.Keys,
		Sites:       sites,
		AnnualGHI:   make(map[string]float64),
		Monthly:     r.MonthlyRows(),
	}

	if r.MonthlyGHI != nil {
		s.AnnualGHI[r.LocalLabel] = annualKWh(firstColumn(r.MonthlyGHI))
	}
	// the comparison also holds months the local site lacks
	if r.RemoteLabel != "" {
		s.AnnualGHI[r.RemoteLabel] = annualKWh(column(r.Comparison, r.RemoteLabel))
	}
	return s
}

// annualKWh sums monthly Wh/m^2 values into kWh/m^2, skipping missing months
func annualKWh(monthly []float64) float64 {
	total := 0.0
	for i := range monthly {
		total += at(monthly, i)
	}
	return round(total/1000, 1)
}

// MonthlyRows returns one row per month of the local site
func (r *Result) MonthlyRows() []models.MonthlySummaryRow {
	if r.MonthlyGHI == nil {
		return nil
	}

	idx := r.MonthlyGHI.Index()
	ghi := firstColumn(r.MonthlyGHI)
	temp := column(r.MonthlyTempWind, "DryBulb")
	wind := column(r.MonthlyTempWind, "Wspd")

	remote := make(map[string]float64)
	if r.Comparison != nil {
		vals, _ := r.Comparison.Float(r.RemoteLabel)
		for i, t := range r.Comparison.Index() {
			remote[t.Format("2006-01")] = at(vals, i)
		}
	}

	rows := make([]models.MonthlySummaryRow, len(idx))
	for i, t := range idx {
		month := t.Format("2006-01")
		rows[i] = models.MonthlySummaryRow{
			Month:       month,
			LocalGHI:    at(ghi, i),
			RemoteGHI:   remote[month],
			DryBulbMean: round(at(temp, i), 2),
			WspdMean:    round(at(wind, i), 2),
		}
	}
	return rows
}

func firstColumn(f *frame.Frame) []float64 {
	cols := f.Columns()
	if len(cols) == 0 {
		return nil
	}
	vals, _ := f.Float(cols[0])
	return vals
}

func column(f *frame.Frame, name string) []float64 {
	if f == nil || !f.Has(name) {
		return nil
	}
	vals, _ := f.Float(name)
	return vals
}

// at returns vals[i], or 0 when it is out of range or not finite
func at(vals []float64, i int) float64 {
	if i >= len(vals) || math.IsNaN(vals[i]) || math.IsInf(vals[i], 0) {
		return 0
	}
	return vals[i]
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
