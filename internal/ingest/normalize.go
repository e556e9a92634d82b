package ingest

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize collapses a raw field value into a single-line cleaned string.
// Carriage returns and line feeds become spaces, runs of whitespace collapse
// to one space, and leading/trailing whitespace is trimmed. Total function.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
