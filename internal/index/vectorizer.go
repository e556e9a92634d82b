package index

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches word tokens of two or more characters, the common
// term-vectorizer convention.
var tokenPattern = regexp.MustCompile(`\w\w+`)

// TermWeight is one non-zero dimension of a sparse document vector.
type TermWeight struct {
	Term   int
	Weight float64
}

// SparseVector is a document's term-weight vector, sorted by ascending term
// index. Vectors are L2-normalized so cosine similarity reduces to Dot.
type SparseVector []TermWeight

// Dot returns the dot product of two sparse vectors.
func Dot(a, b SparseVector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Term < b[j].Term:
			i++
		case a[i].Term > b[j].Term:
			j++
		default:
			sum += a[i].Weight * b[j].Weight
			i++
			j++
		}
	}
	return sum
}

// Vectorizer is a TF-IDF term-weighting model. It learns a vocabulary and
// IDF values from a corpus, then projects any text into that vector space.
// Fields are exported so fitted state survives gob round-trips.
type Vectorizer struct {
	Vocabulary map[string]int
	IDF        []float64
}

// NewVectorizer creates an unfitted vectorizer.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{Vocabulary: make(map[string]int)}
}

// Fitted reports whether the vectorizer has a learned vocabulary.
func (v *Vectorizer) Fitted() bool { return len(v.Vocabulary) > 0 }

// Fit learns the vocabulary and IDF values from the corpus. Terms are kept
// in sorted order so fitted state is identical across builds.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for tf-idf fit")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus")
	}
	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		v.Vocabulary[term] = i
		// Smoothed IDF
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	return nil
}

// Transform projects text into the fitted vector space. Out-of-vocabulary
// terms contribute zero weight; a text with no known terms yields an empty
// vector.
func (v *Vectorizer) Transform(text string) SparseVector {
	tf := make(map[int]int)
	for _, tok := range tokenize(text) {
		if idx, ok := v.Vocabulary[tok]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return nil
	}
	vec := make(SparseVector, 0, len(tf))
	for idx, count := range tf {
		vec = append(vec, TermWeight{Term: idx, Weight: float64(count) * v.IDF[idx]})
	}
	sort.Slice(vec, func(i, j int) bool { return vec[i].Term < vec[j].Term })
	// L2 normalize
	norm := 0.0
	for _, tw := range vec {
		norm += tw.Weight * tw.Weight
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i].Weight /= norm
		}
	}
	return vec
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := englishStopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

var englishStopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now", "do", "does", "did", "doing", "have", "has", "had", "having", "i", "me", "my", "we", "our", "you", "your", "he", "him", "his", "she", "her", "they", "them", "their", "what", "which", "who", "whom", "when", "where", "why", "how", "all", "any", "both", "each", "few", "more", "most", "other", "some", "no", "nor", "not", "only",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
