package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverMetrics holds the Prometheus metrics owned by the HTTP server.
// Metrics register against the server's own registry so tests can inject a
// fresh one without polluting the default registry.
type serverMetrics struct {
	// chatRequestsTotal counts completed /chat requests, partitioned by
	// outcome: "ok", "escalated", or "error".
	chatRequestsTotal *prometheus.CounterVec

	// chatDurationSeconds records the wall-clock duration of /chat requests.
	chatDurationSeconds *prometheus.HistogramVec

	// indexDocuments is the number of documents currently indexed.
	indexDocuments prometheus.Gauge
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)

	return &serverMetrics{
		chatRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "supportrag",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total number of /chat requests completed, partitioned by outcome.",
		}, []string{"outcome"}),

		chatDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "supportrag",
			Subsystem: "chat",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of /chat requests including the generation call.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"outcome"}),

		indexDocuments: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "supportrag",
			Subsystem: "index",
			Name:      "documents",
			Help:      "Number of documents currently held by the index.",
		}),
	}
}
