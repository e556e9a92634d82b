package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowSimilarity_ShortGreetingNeverEscalates(t *testing.T) {
	assert.False(t, lowSimilarity("hi", 0, SimilarityThreshold))
	assert.False(t, lowSimilarity("  hello  ", 0.01, SimilarityThreshold))
}

func TestLowSimilarity_LongQueryBelowThreshold(t *testing.T) {
	query := strings.Repeat("w", 50)
	assert.True(t, lowSimilarity(query, 0.02, SimilarityThreshold))
}

func TestLowSimilarity_AboveThreshold(t *testing.T) {
	assert.False(t, lowSimilarity("my router keeps rebooting", 0.45, SimilarityThreshold))
}

func TestLowSimilarity_TrimmedLengthDecides(t *testing.T) {
	// 9 visible characters padded with whitespace still counts as short.
	assert.False(t, lowSimilarity("  hithere  ", 0, SimilarityThreshold))
	// 10 visible characters is no longer a greeting.
	assert.True(t, lowSimilarity("hi there!!", 0, SimilarityThreshold))
}

func TestLowSimilarity_CountsCharactersNotBytes(t *testing.T) {
	// 6 characters, 12 bytes: still a greeting.
	assert.False(t, lowSimilarity("привет", 0, SimilarityThreshold))
	// 10 characters, 20 bytes: long enough to escalate.
	assert.True(t, lowSimilarity("приветприв", 0, SimilarityThreshold))
}

func TestUncertainAnswer(t *testing.T) {
	assert.True(t, uncertainAnswer("There is NOT ENOUGH INFORMATION in the logs to say."))
	assert.True(t, uncertainAnswer("Unfortunately I cannot answer that confidently."))
	assert.False(t, uncertainAnswer("Unplug the router for 10 seconds and plug it back in."))
	assert.False(t, uncertainAnswer(""))
}
