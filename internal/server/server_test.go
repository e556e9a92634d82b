package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportrag/internal/answer"
	"supportrag/internal/domain"
)

type fakeService struct {
	answer domain.Answer
	err    error
	gotMsg string
	gotKey string
}

func (f *fakeService) Ask(_ context.Context, message, apiKey string) (domain.Answer, error) {
	f.gotMsg = message
	f.gotKey = apiKey
	return f.answer, f.err
}

type fakeStatus struct {
	st domain.Status
}

func (f *fakeStatus) Status() domain.Status { return f.st }

func newTestServer(t *testing.T, svc domain.AnswerService, st domain.StatusReporter) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(svc, st, nil, log)
	require.NoError(t, err)
	return srv
}

func TestChat_ReturnsAnswer(t *testing.T) {
	svc := &fakeService{answer: domain.Answer{
		Answer:  "Unplug the router for 10 seconds.",
		Context: "[1]\nrouter doc\n",
		Sources: []domain.RetrievalResult{{Score: 0.42, Text: "router doc", SourceID: "tickets.csv::row_0"}},
	}}
	srv := newTestServer(t, svc, &fakeStatus{st: domain.Status{State: domain.StateReady, DocCount: 3}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"how do I reset my router","apiKey":"override-key"}`))
	srv.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "how do I reset my router", svc.gotMsg)
	assert.Equal(t, "override-key", svc.gotKey)

	var got domain.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Unplug the router for 10 seconds.", got.Answer)
	assert.False(t, got.Escalation)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, "tickets.csv::row_0", got.Sources[0].SourceID)
}

func TestChat_MissingMessage(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, &fakeStatus{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{}`))
	srv.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no message provided", body["error"])
}

func TestChat_InvalidBody(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, &fakeStatus{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{not json`))
	srv.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid request body", body["error"])
}

func TestChat_EmptyQueryFromService(t *testing.T) {
	svc := &fakeService{err: answer.ErrEmptyQuery}
	srv := newTestServer(t, svc, &fakeStatus{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"   "}`))
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_ServiceError(t *testing.T) {
	svc := &fakeService{err: errors.New("index unavailable")}
	srv := newTestServer(t, svc, &fakeStatus{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hello"}`))
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// Failed requests count toward both the outcome counter and latency.
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.chatRequestsTotal.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(srv.metrics.chatDurationSeconds))
}

func TestChat_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, &fakeStatus{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatus(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, &fakeStatus{st: domain.Status{State: domain.StateReady, DocCount: 42}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	srv.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, domain.StateReady, got.State)
	assert.Equal(t, 42, got.DocCount)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, &fakeStatus{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, &fakeService{}, &fakeStatus{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestNew_NilService(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := New(nil, &fakeStatus{}, nil, log)
	assert.Error(t, err)
}
