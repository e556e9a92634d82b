// Package ingest loads tabular support-log files and turns their rows into
// normalized documents ready for indexing. Files that fail to parse or hold
// no detectable text column are skipped; the build never fails outright.
package ingest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"supportrag/internal/domain"
)

// minTextLen is the minimum normalized length, in characters, for a row to
// be indexed.
const minTextLen = 5

// extraColumnKeywords marks auxiliary columns whose values are appended to
// the composed document text when long enough.
var extraColumnKeywords = []string{"title", "summary", "solution", "answer", "reply", "topic", "desc"}

// BuildDocuments scans dir for supported dataset files and returns one
// document per surviving row. Files are visited in sorted filename order so
// corpus positions and source IDs are reproducible across platforms.
func BuildDocuments(dir string, log *slog.Logger) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var docs []domain.Document
	for _, name := range names {
		path := filepath.Join(dir, name)
		var t *Table
		var loadErr error
		switch strings.ToLower(filepath.Ext(name)) {
		case ".csv":
			t, loadErr = LoadCSV(path)
		case ".json", ".jsonl":
			t, loadErr = LoadJSONLines(path)
		default:
			continue
		}
		if loadErr != nil {
			log.Warn("skipping unreadable file", slog.String("file", name), slog.Any("error", loadErr))
			continue
		}
		if t.Empty() {
			log.Warn("skipping empty file", slog.String("file", name))
			continue
		}
		textCol, ok := DetectTextColumn(t)
		if !ok {
			log.Warn("skipping file: no text column detected", slog.String("file", name))
			continue
		}
		log.Info("processing file", slog.String("file", name), slog.String("text_column", textCol))
		docs = append(docs, buildFromTable(t, name, textCol)...)
	}
	return docs, nil
}

// buildFromTable emits one document per row of t, preserving row order.
func buildFromTable(t *Table, filename, textCol string) []domain.Document {
	var docs []domain.Document
	for idx, row := range t.Rows {
		text := Normalize(row[textCol])
		if utf8.RuneCountInString(text) < minTextLen {
			continue
		}
		var extra []string
		for _, col := range t.Columns {
			if col == textCol {
				continue
			}
			if !matchesExtraKeyword(col) {
				continue
			}
			val := Normalize(row[col])
			if utf8.RuneCountInString(val) > 3 {
				extra = append(extra, col+": "+val)
			}
		}
		fullText := text
		if len(extra) > 0 {
			fullText = "Issue: " + text + "\n" + strings.Join(extra, "\n")
		}
		attrs := make(map[string]string, len(row))
		for k, v := range row {
			attrs[k] = v
		}
		docs = append(docs, domain.Document{
			SourceID:   fmt.Sprintf("%s::row_%d", filename, idx),
			Text:       fullText,
			Attributes: attrs,
		})
	}
	return docs
}

func matchesExtraKeyword(col string) bool {
	lower := strings.ToLower(col)
	for _, k := range extraColumnKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
