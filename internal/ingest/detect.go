package ingest

import (
	"strconv"
	"strings"
)

// canonicalTextColumns is checked first, in order, when detecting the
// primary free-text column of a dataset.
var canonicalTextColumns = []string{
	"conversation", "text", "dialogue", "issue", "description", "ticket_text", "content",
}

// DetectTextColumn picks the column most likely to hold primary free text.
// Canonical names win outright; otherwise the text-typed column with the
// greatest average stringified value length is chosen, leftmost column
// winning ties. Returns false when no text-typed column exists.
func DetectTextColumn(t *Table) (string, bool) {
	for _, c := range canonicalTextColumns {
		if hasColumn(t, c) {
			return c, true
		}
	}
	best := ""
	bestAvg := -1.0
	for _, c := range t.Columns {
		if !isTextColumn(t, c) {
			continue
		}
		total := 0
		for _, row := range t.Rows {
			total += len(row[c])
		}
		avg := float64(total) / float64(len(t.Rows))
		if avg > bestAvg {
			best = c
			bestAvg = avg
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

func hasColumn(t *Table, name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// isTextColumn reports whether a column holds generic text rather than
// numeric data: at least one non-empty cell must fail to parse as a number.
func isTextColumn(t *Table, col string) bool {
	for _, row := range t.Rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return true
		}
	}
	return false
}
