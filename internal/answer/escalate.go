package answer

import (
	"strings"
	"unicode/utf8"
)

// SimilarityThreshold is the retrieval score floor below which a query is
// considered unsupported by the indexed logs.
const SimilarityThreshold = 0.1

// shortGreetingLen: trimmed queries shorter than this are never escalated
// purely for low similarity.
const shortGreetingLen = 10

// uncertaintyPhrases in a generated answer signal the model could not
// answer from the provided logs.
var uncertaintyPhrases = []string{"not enough information", "i cannot answer"}

// lowSimilarity reports whether the top retrieval score warrants escalation
// for the given query. Short greetings are exempt.
func lowSimilarity(query string, topScore, threshold float64) bool {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < shortGreetingLen {
		return false
	}
	return topScore < threshold
}

// uncertainAnswer reports whether the generated text itself indicates
// insufficient information.
func uncertainAnswer(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range uncertaintyPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
