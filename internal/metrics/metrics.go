// Package metrics bundles the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the arena collectors on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	AgentAttempts *prometheus.CounterVec
	Fallbacks     *prometheus.CounterVec
	GamesStarted  prometheus.Counter
	GamesFinished *prometheus.CounterVec
	TurnDuration  prometheus.Histogram
	Observers     prometheus.Gauge
}

// New constructs a registry with the arena collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_agent_attempts_total",
		Help: "Agent call attempts by agent and result",
	}, []string{"agent", "result"})

	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_agent_fallbacks_total",
		Help: "Fallback words substituted, by agent and reason",
	}, []string{"agent", "reason"})

	started := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arena_games_started_total",
		Help: "Games started",
	})

	finished := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_games_finished_total",
		Help: "Games finished by winner",
	}, []string{"winner"})

	turns := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_turn_duration_seconds",
		Help:    "Wall time of one turn (both agent calls plus scoring)",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 240},
	})

	observers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "arena_observers",
		Help: "Connected websocket observers",
	})

	reg.MustRegister(attempts, fallbacks, started, finished, turns, observers)

	return &Metrics{
		registry:      reg,
		AgentAttempts: attempts,
		Fallbacks:     fallbacks,
		GamesStarted:  started,
		GamesFinished: finished,
		TurnDuration:  turns,
		Observers:     observers,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (tests, extra collectors).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Attempt implements agent.Recorder.
func (m *Metrics) Attempt(agent, result string) {
	m.AgentAttempts.WithLabelValues(agent, result).Inc()
}

// Fallback implements agent.Recorder.
func (m *Metrics) Fallback(agent, reason string) {
	m.Fallbacks.WithLabelValues(agent, reason).Inc()
}

// GameStarted records a new match.
func (m *Metrics) GameStarted() { m.GamesStarted.Inc() }

// GameFinished records a match outcome.
func (m *Metrics) GameFinished(winner string) {
	m.GamesFinished.WithLabelValues(winner).Inc()
}

// TurnCompleted records the duration of one turn.
func (m *Metrics) TurnCompleted(d time.Duration) {
	m.TurnDuration.Observe(d.Seconds())
}
