package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTextColumn_CanonicalName(t *testing.T) {
	tbl := &Table{
		Columns: []string{"id", "ticket_text", "notes"},
		Rows: []map[string]string{
			{"id": "1", "ticket_text": "short", "notes": "a much longer free text value here"},
		},
	}
	col, ok := DetectTextColumn(tbl)
	require.True(t, ok)
	// Canonical names win even when another column is longer on average.
	assert.Equal(t, "ticket_text", col)
}

func TestDetectTextColumn_CanonicalPriorityOrder(t *testing.T) {
	tbl := &Table{
		Columns: []string{"description", "conversation"},
		Rows:    []map[string]string{{"description": "x", "conversation": "y"}},
	}
	col, ok := DetectTextColumn(tbl)
	require.True(t, ok)
	assert.Equal(t, "conversation", col)
}

func TestDetectTextColumn_AverageLengthFallback(t *testing.T) {
	tbl := &Table{
		Columns: []string{"code", "remarks", "body"},
		Rows: []map[string]string{
			{"code": "17", "remarks": "ok", "body": "customer cannot reach the billing portal"},
			{"code": "18", "remarks": "done", "body": "intermittent packet loss on fiber line"},
		},
	}
	col, ok := DetectTextColumn(tbl)
	require.True(t, ok)
	assert.Equal(t, "body", col)
}

func TestDetectTextColumn_TieBreaksLeftmost(t *testing.T) {
	tbl := &Table{
		Columns: []string{"first", "second"},
		Rows: []map[string]string{
			{"first": "abcde", "second": "vwxyz"},
		},
	}
	col, ok := DetectTextColumn(tbl)
	require.True(t, ok)
	assert.Equal(t, "first", col)
}

func TestDetectTextColumn_NumericColumnsExcluded(t *testing.T) {
	tbl := &Table{
		Columns: []string{"really_long_numbers", "note"},
		Rows: []map[string]string{
			{"really_long_numbers": "123456789012345", "note": "text"},
			{"really_long_numbers": "987654321098765", "note": "more"},
		},
	}
	col, ok := DetectTextColumn(tbl)
	require.True(t, ok)
	assert.Equal(t, "note", col)
}

func TestDetectTextColumn_NoTextColumns(t *testing.T) {
	tbl := &Table{
		Columns: []string{"a", "b"},
		Rows: []map[string]string{
			{"a": "1", "b": "2.5"},
			{"a": "3", "b": ""},
		},
	}
	_, ok := DetectTextColumn(tbl)
	assert.False(t, ok)
}
