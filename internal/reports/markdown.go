package reports

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"tmyreport/internal/analysis"
	"tmyreport/internal/models"
)

// BuildMarkdown writes the report text: sites, dataset shape, the first rows
// and the monthly table.
func BuildMarkdown(title string, timestamp time.Time, src *models.SourceData, res *analysis.Result, summary analysis.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Report generated %s.\n\n", timestamp.UTC().Format(time.RFC3339))

	b.WriteString("## Sites\n\n")
	sites := [][]string{{"Label", "Name", "Source", "Latitude", "Longitude", "Elevation [m]", "UTC offset [h]", "Rows", "Columns", "Timestamps"}}
	for _, s := range src.Sites {
		sites = append(sites, []string{
			s.Label, s.Name, s.Source,
			formatFloat(s.Latitude, 4), formatFloat(s.Longitude, 4),
			formatFloat(s.Elevation, 1), formatFloat(s.UTCOffsetHours, 1),
			strconv.Itoa(s.Rows), strconv.Itoa(s.Columns), s.Convention,
		})
	}
	b.WriteString(markdownTable(sites))
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s dataset\n\n", res.LocalLabel)
	fmt.Fprintf(&b, "Number of rows: %d\n\n", res.RowCount)
	fmt.Fprintf(&b, "Number of columns: %d\n\n", res.ColumnCount)
	b.WriteString("Columns: ")
	for i, key := range res.Keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "`%s`", key)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "### First %d rows\n\n", res.Head.Len())
	b.WriteString(markdownTable(res.Head.Records(2)))
	b.WriteString("\n")

	b.WriteString("## Monthly summary\n\n")
	header := []string{"Month", res.LocalLabel + " GHI [Wh/m^2]"}
	if res.RemoteLabel != "" {
		header = append(header, res.RemoteLabel+" GHI [Wh/m^2]")
	}
	header = append(header, "DryBulb mean [C]", "Wspd mean [m/s]")
	monthly := [][]string{header}
	for _, row := range summary.Monthly {
		line := []string{row.Month, formatFloat(row.LocalGHI, 0)}
		if res.RemoteLabel != "" {
			line = append(line, formatFloat(row.RemoteGHI, 0))
		}
		line = append(line, formatFloat(row.DryBulbMean, 2), formatFloat(row.WspdMean, 2))
		monthly = append(monthly, line)
	}
	b.WriteString(markdownTable(monthly))
	b.WriteString("\n")

	b.WriteString("## Annual GHI\n\n")
	labels := make([]string, 0, len(summary.AnnualGHI))
	for label := range summary.AnnualGHI {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(&b, "- %s: %s kWh/m^2\n", label, formatFloat(summary.AnnualGHI[label], 1))
	}

	return b.String()
}

func formatFloat(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}
