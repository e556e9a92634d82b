package answer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"supportrag/internal/domain"
)

// Default packing limits for the assembled context block.
const (
	FinalK          = 5
	MaxContextChars = 6000
)

// BuildContext packs the top retrieved documents into a size-bounded context
// string. Each included result gets a 1-based bracketed label and a block of
// the form "[n]\n<text>\n"; blocks are joined by a blank line. The budget is
// counted in characters, not bytes; packing stops at the first block that
// would push the running character total over maxChars.
// Returns the context and the results actually included.
func BuildContext(results []domain.RetrievalResult, finalK, maxChars int) (string, []domain.RetrievalResult) {
	if finalK <= 0 {
		finalK = FinalK
	}
	if maxChars <= 0 {
		maxChars = MaxContextChars
	}
	if finalK > len(results) {
		finalK = len(results)
	}
	var parts []string
	var included []domain.RetrievalResult
	curr := 0
	for i, r := range results[:finalK] {
		block := fmt.Sprintf("[%d]\n%s\n", i+1, r.Text)
		n := utf8.RuneCountInString(block)
		if curr+n > maxChars {
			break
		}
		parts = append(parts, block)
		included = append(included, r)
		curr += n
	}
	return strings.Join(parts, "\n"), included
}
