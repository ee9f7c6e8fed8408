package reports

import (
	"strings"
	"unicode"
)

// ToTitleCase converts a string to title case (first letter of each word capitalized)
func ToTitleCase(s string) string {
	if s == "" {
		return s
	}

	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// tableCell escapes characters that would break a markdown table row
func tableCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// markdownTable renders records, header row first, as a GFM table
func markdownTable(records [][]string) string {
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for _, cell := range row {
			b.WriteString(" ")
			b.WriteString(tableCell(cell))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(records[0])
	sep := make([]string, len(records[0]))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, row := range records[1:] {
		writeRow(row)
	}
	return b.String()
}
