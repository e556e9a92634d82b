package domain

import "context"

// Document is one indexed support-log record built from a single table row.
// Immutable once built.
type Document struct {
	// SourceID identifies the origin file and row, e.g. "tickets.csv::row_12".
	SourceID string
	// Text is the normalized, composed text the index is built over.
	Text string
	// Attributes carries the original field name -> raw value pairs of the row.
	Attributes map[string]string
}

// RetrievalResult is a scored match for a query, produced per query and
// never persisted.
type RetrievalResult struct {
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
	SourceID string  `json:"source_id"`
}

// Answer is the unit returned for a single query-answer transaction.
// Escalation is advisory metadata; a best-effort answer is always present.
type Answer struct {
	Answer     string            `json:"answer"`
	Context    string            `json:"context"`
	Sources    []RetrievalResult `json:"sources"`
	Escalation bool              `json:"escalation"`
}

// Index states reported by Status.
const (
	StateReady = "ready"
	StateEmpty = "empty"
)

// Status reports whether the index holds data and how many documents.
type Status struct {
	State    string `json:"status"`
	DocCount int    `json:"doc_count"`
}

// Retriever scores indexed documents against a query and returns the
// top-scoring subset above the relevance floor.
type Retriever interface {
	Retrieve(query string) []RetrievalResult
}

// StatusReporter exposes the index state to the status surfaces.
type StatusReporter interface {
	Status() Status
}

// Generator is the external answer-generation collaborator. The credential
// is resolved per call and never stored by implementations.
type Generator interface {
	Complete(ctx context.Context, apiKey, system, user string) (string, error)
}

// AnswerService is the query-answer transaction interface consumed by the
// HTTP layer and the TUI. apiKey, when non-empty, shadows the configured
// credential for this call only.
type AnswerService interface {
	Ask(ctx context.Context, message, apiKey string) (Answer, error)
}
