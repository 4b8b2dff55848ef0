package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics named here are the Observability Sink's prometheus surface
// (component C8). RegisterAll is opt-in — callers embedding the engine in
// a larger process decide when to bind these to the default registry.
var (
	AgentExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_executions_total",
			Help: "Total agent executions by terminal state.",
		},
		[]string{"agent", "state"},
	)

	SchedulerExecutionDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scheduler_execution_duration_seconds",
			Help:    "Per-agent scrape call duration, from dequeue to terminal state.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"agent"},
	)

	RoutingCompositeScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "routing_composite_score",
			Help:    "Composite routing score assigned to each candidate agent.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"agent", "outcome"},
	)

	MergerDedupCollapsedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "merger_dedup_collapsed_total",
			Help: "Total records collapsed into an existing record during deduplication.",
		},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state per agent (0=closed, 1=half_open, 2=open).",
		},
		[]string{"agent"},
	)

	RateLimiterRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_rejections_total",
			Help: "Total scrape calls rejected due to rate-limit token exhaustion.",
		},
		[]string{"agent"},
	)

	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runs_total",
			Help: "Total Run invocations by outcome (completed, query_rejected, no_agents_selected).",
		},
		[]string{"outcome"},
	)

	RunDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "run_duration_seconds",
			Help:    "Wall-clock duration of a full Run, from query to RunReport.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RegisterAll registers all engine metrics on the default Prometheus
// registry. Tests that construct their own registry should call
// RegisterOn instead.
func RegisterAll() {
	prometheus.MustRegister(
		AgentExecutionsTotal,
		SchedulerExecutionDurationSeconds,
		RoutingCompositeScore,
		MergerDedupCollapsedTotal,
		CircuitBreakerState,
		RateLimiterRejectionsTotal,
		RunsTotal,
		RunDurationSeconds,
	)
}

// RegisterOn registers all engine metrics on a caller-supplied registry,
// useful for test isolation.
func RegisterOn(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		AgentExecutionsTotal,
		SchedulerExecutionDurationSeconds,
		RoutingCompositeScore,
		MergerDedupCollapsedTotal,
		CircuitBreakerState,
		RateLimiterRejectionsTotal,
		RunsTotal,
		RunDurationSeconds,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// CircuitStateValue maps a breaker state name to the gauge value convention
// used by CircuitBreakerState.
func CircuitStateValue(state string) float64 {
	switch state {
	case "closed":
		return 0
	case "half_open", "half-open":
		return 1
	case "open":
		return 2
	default:
		return -1
	}
}
