package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	completionCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lux_completion_calls_total",
		Help: "Completion provider calls by provider and outcome.",
	}, []string{"provider", "outcome"})

	completionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lux_completion_latency_seconds",
		Help:    "Completion provider call latency.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	}, []string{"provider"})

	llmFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lux_llm_fallbacks_total",
		Help: "Generator responses replaced by their fallback shape.",
	}, []string{"generator"})

	placesCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lux_places_calls_total",
		Help: "Places provider calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	jobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lux_jobs_processed_total",
		Help: "Background jobs by type and outcome.",
	}, []string{"type", "outcome"})
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordCompletion records one completion provider call.
func RecordCompletion(provider string, d time.Duration, err error) {
	completionCalls.WithLabelValues(provider, outcome(err)).Inc()
	completionLatency.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordFallback records a generator answering with its fallback shape.
func RecordFallback(generator string) {
	llmFallbacks.WithLabelValues(generator).Inc()
}

// RecordPlaces records a places call; cache hits use outcome "cache".
func RecordPlaces(operation string, cached bool, err error) {
	o := outcome(err)
	if cached {
		o = "cache"
	}
	placesCalls.WithLabelValues(operation, o).Inc()
}

// RecordJob records a job attempt outcome: succeeded, retry or failed.
func RecordJob(jobType, result string) {
	jobsProcessed.WithLabelValues(jobType, result).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
