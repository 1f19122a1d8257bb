// Package metrics exposes Prometheus collectors for the game service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mindgames"

// Manager owns every collector, registered on its own registry.
type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	scoresSubmitted     *prometheus.CounterVec
	scoresRejected      *prometheus.CounterVec
	achievementsAwarded *prometheus.CounterVec
	evaluationFailures  prometheus.Counter
	wsConnections       prometheus.Gauge
}

var customRegistry = prometheus.NewRegistry()

var globalManager = NewManager(customRegistry)

// NewManager registers all collectors on reg.
func NewManager(reg *prometheus.Registry) *Manager {
	auto := promauto.With(reg)
	return &Manager{
		registry: reg,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		scoresSubmitted: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scores",
			Name:      "submitted_total",
			Help:      "Score rows stored, by game type.",
		}, []string{"game"}),
		scoresRejected: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scores",
			Name:      "rejected_total",
			Help:      "Submissions rejected by range validation, by game type.",
		}, []string{"game"}),
		achievementsAwarded: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "achievements",
			Name:      "awarded_total",
			Help:      "Achievements newly earned, by code.",
		}, []string{"code"}),
		evaluationFailures: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "achievements",
			Name:      "evaluation_failures_total",
			Help:      "Achievement evaluations rolled back after an error.",
		}),
		wsConnections: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "connections",
			Help:      "Open websocket connections.",
		}),
	}
}

// Handler serves the custom registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(globalManager.registry, promhttp.HandlerOpts{})
}

func GetRegistry() *prometheus.Registry {
	return globalManager.registry
}

func RecordHTTPRequest(route, method, status string, seconds float64) {
	globalManager.httpRequests.WithLabelValues(route, method, status).Inc()
	globalManager.httpRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

func RecordScoreSubmitted(game string) {
	globalManager.scoresSubmitted.WithLabelValues(game).Inc()
}

func RecordScoreRejected(game string) {
	globalManager.scoresRejected.WithLabelValues(game).Inc()
}

func RecordAchievementAwarded(code string) {
	globalManager.achievementsAwarded.WithLabelValues(code).Inc()
}

func RecordEvaluationFailure() {
	globalManager.evaluationFailures.Inc()
}

func SetWebsocketConnections(n int) {
	globalManager.wsConnections.Set(float64(n))
}
