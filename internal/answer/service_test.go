package answer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportrag/internal/domain"
	"supportrag/internal/index"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRetriever returns a fixed result set.
type fakeRetriever struct {
	results []domain.RetrievalResult
}

func (f *fakeRetriever) Retrieve(string) []domain.RetrievalResult { return f.results }

// fakeGenerator records the call and returns a canned response.
type fakeGenerator struct {
	response string
	err      error
	called   bool
	gotKey   string
	gotUser  string
}

func (f *fakeGenerator) Complete(_ context.Context, apiKey, _, user string) (string, error) {
	f.called = true
	f.gotKey = apiKey
	f.gotUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func goodResults() []domain.RetrievalResult {
	return []domain.RetrievalResult{
		{Score: 0.62, Text: "Issue: Router restarts\nsolution: Follow the router reset procedure", SourceID: "tickets.csv::row_0"},
		{Score: 0.21, Text: "Billing invoice shows double charge", SourceID: "tickets.csv::row_1"},
	}
}

func newTestService(r domain.Retriever, g domain.Generator, apiKey string) *Service {
	return NewService(r, g, Config{APIKey: apiKey}, discardLogger())
}

func TestAsk_EmptyQueryIsValidationError(t *testing.T) {
	svc := newTestService(&fakeRetriever{}, &fakeGenerator{}, "key")
	_, err := svc.Ask(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestAsk_MissingCredentialSkipsGeneration(t *testing.T) {
	gen := &fakeGenerator{response: "should never be used"}
	svc := newTestService(&fakeRetriever{results: goodResults()}, gen, "")

	res, err := svc.Ask(context.Background(), "why does my router restart", "")
	require.NoError(t, err)

	assert.Equal(t, KeyMissingAnswer, res.Answer)
	assert.True(t, res.Escalation)
	assert.Len(t, res.Sources, 2)
	assert.Contains(t, res.Context, "[1]")
	assert.False(t, gen.called, "external collaborator must not be reached without a credential")
}

func TestAsk_OverrideShadowsDefaultCredential(t *testing.T) {
	gen := &fakeGenerator{response: "answer"}
	svc := newTestService(&fakeRetriever{results: goodResults()}, gen, "default-key")

	_, err := svc.Ask(context.Background(), "router restart question", "override-key")
	require.NoError(t, err)
	assert.Equal(t, "override-key", gen.gotKey)

	// The override never writes back into the service.
	_, err = svc.Ask(context.Background(), "router restart question", "")
	require.NoError(t, err)
	assert.Equal(t, "default-key", gen.gotKey)
}

func TestAsk_SuccessfulAnswer(t *testing.T) {
	gen := &fakeGenerator{response: "Unplug the router for 10 seconds and plug it back in."}
	svc := newTestService(&fakeRetriever{results: goodResults()}, gen, "key")

	res, err := svc.Ask(context.Background(), "how do I reset my router", "")
	require.NoError(t, err)

	assert.Equal(t, gen.response, res.Answer)
	assert.False(t, res.Escalation)
	assert.Equal(t, goodResults(), res.Sources)
	assert.Contains(t, gen.gotUser, "HISTORICAL LOGS:")
	assert.Contains(t, gen.gotUser, "USER QUERY:\nhow do I reset my router")
}

func TestAsk_LowSimilarityEscalates(t *testing.T) {
	gen := &fakeGenerator{response: "Here is a generic answer."}
	low := []domain.RetrievalResult{{Score: 0.02, Text: "unrelated", SourceID: "x::row_0"}}
	svc := newTestService(&fakeRetriever{results: low}, gen, "key")

	res, err := svc.Ask(context.Background(), "a long and detailed question about my contract terms", "")
	require.NoError(t, err)
	assert.True(t, res.Escalation)
}

func TestAsk_ShortGreetingDoesNotEscalate(t *testing.T) {
	gen := &fakeGenerator{response: "Hello! How can I help?"}
	svc := newTestService(&fakeRetriever{}, gen, "key")

	res, err := svc.Ask(context.Background(), "hi", "")
	require.NoError(t, err)
	assert.False(t, res.Escalation)
}

func TestAsk_UncertainGeneratedAnswerEscalates(t *testing.T) {
	gen := &fakeGenerator{response: "There is not enough information in the logs."}
	svc := newTestService(&fakeRetriever{results: goodResults()}, gen, "key")

	res, err := svc.Ask(context.Background(), "how do I reset my router", "")
	require.NoError(t, err)
	assert.True(t, res.Escalation)
}

func TestAsk_GenerationFailureEscalates(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("completion api returned 503 Service Unavailable")}
	svc := newTestService(&fakeRetriever{results: goodResults()}, gen, "key")

	res, err := svc.Ask(context.Background(), "how do I reset my router", "")
	require.NoError(t, err)

	assert.True(t, res.Escalation)
	assert.Contains(t, res.Answer, "503 Service Unavailable")
	assert.Len(t, res.Sources, 2)
}

// End-to-end over a real index: three documents, one about router resets.
func TestAsk_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	content := "issue\n" +
		"Customer asks about the router reset procedure after a firmware update\n" +
		"Billing invoice shows a duplicate charge for March\n" +
		"Roaming data does not work when travelling abroad\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs.csv"), []byte(content), 0o644))

	store := index.NewStore(dir, filepath.Join(t.TempDir(), "index.gob"), 0, discardLogger())
	require.NoError(t, store.Build())

	gen := &fakeGenerator{response: "Unplug the router for 10 seconds, then plug it back in."}
	svc := newTestService(store, gen, "key")

	res, err := svc.Ask(context.Background(), "how do I reset my router", "")
	require.NoError(t, err)

	require.NotEmpty(t, res.Sources)
	assert.Equal(t, "logs.csv::row_0", res.Sources[0].SourceID)
	assert.Greater(t, res.Sources[0].Score, 0.1)
	assert.False(t, res.Escalation)
	assert.Equal(t, gen.response, res.Answer)
}
