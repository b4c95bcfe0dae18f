package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Bot invocation outcomes.
const (
	BotOutcomeReply     = "reply"
	BotOutcomeEscalated = "escalated"
	BotOutcomeFallback  = "fallback"
)

// Metrics holds the service's prometheus collectors on a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	requestTime  *prometheus.HistogramVec
	errors       *prometheus.CounterVec
	botCalls     *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	persistFails prometheus.Counter
}

// NewMetrics registers all collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "support_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		requestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "support_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "support_http_errors_total",
			Help: "HTTP errors by route, method and error code.",
		}, []string{"path", "method", "code"}),
		botCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "support_bot_invocations_total",
			Help: "Bot responder invocations by outcome.",
		}, []string{"outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "support_ticket_transitions_total",
			Help: "Ticket status transitions.",
		}, []string{"from", "to"}),
		persistFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "support_state_persist_failures_total",
			Help: "Failed writes of the state document.",
		}),
	}
	reg.MustRegister(m.requests, m.requestTime, m.errors, m.botCalls, m.transitions, m.persistFails)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestTime.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordBotInvocation counts one bot turn.
func (m *Metrics) RecordBotInvocation(outcome string) {
	if m == nil {
		return
	}
	m.botCalls.WithLabelValues(outcome).Inc()
}

// RecordTransition counts one ticket status change.
func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

// RecordPersistFailure counts a failed state write.
func (m *Metrics) RecordPersistFailure() {
	if m == nil {
		return
	}
	m.persistFails.Inc()
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
