// Package monitoring provides structured logging and Prometheus metrics
// for the prediction server.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the prediction server.
type Metrics struct {
	PredictionsTotal   prometheus.Counter
	PredictionFailures *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// NewMetrics registers and returns the server's metric collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		PredictionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "places_predictions_total",
			Help: "Number of predictions served.",
		}),
		PredictionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "places_prediction_failures_total",
			Help: "Number of failed prediction requests by error kind.",
		}, []string{"kind"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "places_http_request_duration_seconds",
			Help:    "HTTP request latency by method, path, and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// RecordPrediction counts one served prediction.
func (m *Metrics) RecordPrediction() {
	m.PredictionsTotal.Inc()
}

// RecordPredictionFailure counts one failed prediction by error kind.
func (m *Metrics) RecordPredictionFailure(kind string) {
	if kind == "" {
		kind = "internal"
	}
	m.PredictionFailures.WithLabelValues(kind).Inc()
}
