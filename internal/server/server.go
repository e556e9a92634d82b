// Package server exposes the answering service over HTTP: POST /chat for
// query-answer transactions, GET /status for index state, plus health and
// metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"supportrag/internal/answer"
	"supportrag/internal/domain"
)

// Config configures the HTTP server.
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server serves the chat and status API.
type Server struct {
	svc        domain.AnswerService
	status     domain.StatusReporter
	cfg        *Config
	log        *slog.Logger
	metrics    *serverMetrics
	registry   *prometheus.Registry
	httpServer *http.Server
}

// New constructs a Server around the answering service and index status
// source.
func New(svc domain.AnswerService, status domain.StatusReporter, cfg *Config, log *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, errors.New("server: answer service must not be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// WriteTimeout must outlast the 30s generation call.
		cfg.WriteTimeout = 60 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		svc:      svc,
		status:   status,
		cfg:      cfg,
		log:      log,
		metrics:  newServerMetrics(registry),
		registry: registry,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      corsMiddleware(s.loggingMiddleware(mux)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

// Start listens and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	if s.status != nil {
		s.metrics.indexDocuments.Set(float64(s.status.Status().DocCount))
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// chatRequest is the POST /chat body.
type chatRequest struct {
	Message string `json:"message"`
	APIKey  string `json:"apiKey"`
}

// handleChat runs one query-answer transaction.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "no message provided")
		return
	}

	result, err := s.svc.Ask(r.Context(), req.Message, req.APIKey)
	if err != nil {
		if errors.Is(err, answer.ErrEmptyQuery) {
			s.writeError(w, http.StatusBadRequest, "no message provided")
			return
		}
		s.metrics.chatRequestsTotal.WithLabelValues("error").Inc()
		s.metrics.chatDurationSeconds.WithLabelValues("error").Observe(time.Since(start).Seconds())
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	outcome := "ok"
	if result.Escalation {
		outcome = "escalated"
	}
	s.metrics.chatRequestsTotal.WithLabelValues(outcome).Inc()
	s.metrics.chatDurationSeconds.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	s.writeJSON(w, http.StatusOK, result)
}

// handleStatus reports the index state.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.status.Status()
	s.metrics.indexDocuments.Set(float64(st.DocCount))
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("failed to write response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
