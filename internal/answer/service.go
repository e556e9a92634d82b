// Package answer composes retrieval, context assembly, the external
// answer-generation call, and the escalation decision into a single
// query-answer transaction.
package answer

import (
	"context"
	"errors"
	"log/slog"

	"supportrag/internal/domain"
)

// KeyMissingAnswer is returned verbatim when no generation credential is
// available; the service then runs in retrieval-only degraded mode.
const KeyMissingAnswer = "Answer API key is missing. I can only retrieve documents."

// systemPrompt is the fixed instruction sent with every generation request.
const systemPrompt = `You are an expert Telecom Customer Support Assistant.

You will be given HISTORICAL LOGS with numbered references like [1], [2], etc.
Use these logs to answer the user's question.

STRICT RULES FOR CITATIONS:
- Use citation numbers like [1], [2] ONLY when stating a specific fact taken from the logs.
- Do NOT use citations for greetings, empathy, suggestions, or general advice.
- Do NOT overuse citations.
- Never mention filenames, row numbers, or internal identifiers.
- Never explain what the citations mean.

ANSWERING STYLE:
- Start with a direct, clear answer.
- Then provide step-by-step guidance if applicable.
- Be professional, calm, and empathetic.
- Keep the response concise and customer-friendly.

ESCALATION:
- If the logs do not contain enough information to answer confidently, say so politely.
- In that case, recommend escalation to a human support agent.`

// ErrEmptyQuery rejects blank queries before any retrieval work.
var ErrEmptyQuery = errors.New("no message provided")

// Config carries the tunables of the answering service.
type Config struct {
	// APIKey is the default generation credential; a per-call override
	// shadows it without ever being written back.
	APIKey              string
	FinalK              int
	MaxContextChars     int
	SimilarityThreshold float64
}

// Service is the answering orchestrator.
type Service struct {
	retriever domain.Retriever
	generator domain.Generator
	cfg       Config
	log       *slog.Logger
}

var _ domain.AnswerService = (*Service)(nil)

// NewService wires the retriever and generator into an answering service.
func NewService(retriever domain.Retriever, generator domain.Generator, cfg Config, log *slog.Logger) *Service {
	if cfg.FinalK <= 0 {
		cfg.FinalK = FinalK
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = MaxContextChars
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = SimilarityThreshold
	}
	return &Service{retriever: retriever, generator: generator, cfg: cfg, log: log}
}

// Ask runs one query-answer transaction. A missing message is an input
// validation error; every other failure degrades to a best-effort Answer
// with the escalation flag set.
func (s *Service) Ask(ctx context.Context, message, apiKey string) (domain.Answer, error) {
	if message == "" {
		return domain.Answer{}, ErrEmptyQuery
	}
	// Per-call credential resolution: the override shadows the default.
	key := s.cfg.APIKey
	if apiKey != "" {
		key = apiKey
	}

	retrieved := s.retriever.Retrieve(message)
	contextBlock, _ := BuildContext(retrieved, s.cfg.FinalK, s.cfg.MaxContextChars)

	if key == "" {
		return domain.Answer{
			Answer:     KeyMissingAnswer,
			Context:    contextBlock,
			Sources:    retrieved,
			Escalation: true,
		}, nil
	}

	topScore := 0.0
	if len(retrieved) > 0 {
		topScore = retrieved[0].Score
	}
	escalate := lowSimilarity(message, topScore, s.cfg.SimilarityThreshold)
	if escalate {
		s.log.Debug("escalating due to low similarity",
			slog.Float64("top_score", topScore),
			slog.Float64("threshold", s.cfg.SimilarityThreshold))
	}

	user := "HISTORICAL LOGS:\n" + contextBlock + "\n\nUSER QUERY:\n" + message
	generated, err := s.generator.Complete(ctx, key, systemPrompt, user)
	if err != nil {
		s.log.Warn("answer generation failed", slog.Any("error", err))
		return domain.Answer{
			Answer:     "Error generating answer: " + err.Error(),
			Context:    contextBlock,
			Sources:    retrieved,
			Escalation: true,
		}, nil
	}
	if uncertainAnswer(generated) {
		escalate = true
	}

	return domain.Answer{
		Answer:     generated,
		Context:    contextBlock,
		Sources:    retrieved,
		Escalation: escalate,
	}, nil
}
