package index

import (
	"sort"

	"supportrag/internal/domain"
	"supportrag/internal/ingest"
)

// TopKRetrieve is the default number of top-scoring positions considered
// per query when the store is not configured otherwise.
const TopKRetrieve = 10

// Retrieve scores every indexed document against the query by cosine
// similarity and returns the top matches in descending score order. Ties
// keep ascending corpus position. Results with score <= 0 share no
// vocabulary with the query and are dropped; an empty index yields nil.
func (s *Store) Retrieve(query string) []domain.RetrievalResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vectorizer == nil || len(s.rows) == 0 {
		return nil
	}
	qv := s.vectorizer.Transform(ingest.Normalize(query))

	scores := make([]float64, len(s.rows))
	for i, row := range s.rows {
		scores[i] = Dot(qv, row)
	}
	positions := make([]int, len(scores))
	for i := range positions {
		positions[i] = i
	}
	sort.SliceStable(positions, func(i, j int) bool {
		return scores[positions[i]] > scores[positions[j]]
	})

	topK := s.topK
	if topK > len(positions) {
		topK = len(positions)
	}
	results := make([]domain.RetrievalResult, 0, topK)
	for _, pos := range positions[:topK] {
		if scores[pos] <= 0 {
			continue
		}
		results = append(results, domain.RetrievalResult{
			Score:    scores[pos],
			Text:     s.docs[pos].Text,
			SourceID: s.docs[pos].SourceID,
		})
	}
	return results
}
