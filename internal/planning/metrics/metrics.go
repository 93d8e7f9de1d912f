package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the planning orchestrator.
type Metrics struct {
	// Planning runs by outcome
	PlansTotal *prometheus.CounterVec

	// Full planning latency
	PlanLatency prometheus.Histogram
}

// New creates a new Metrics instance with all planning module metrics registered.
func New() *Metrics {
	return &Metrics{
		PlansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_planning_plans_total",
			Help: "Total engagement planning runs, by outcome",
		}, []string{"outcome"}),

		PlanLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veritas_planning_plan_duration_seconds",
			Help:    "Duration of full engagement planning runs",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

// IncrementPlans records a planning run outcome.
func (m *Metrics) IncrementPlans(outcome string) {
	if m != nil {
		m.PlansTotal.WithLabelValues(outcome).Inc()
	}
}

// ObservePlanLatency records a planning run duration.
func (m *Metrics) ObservePlanLatency(d time.Duration) {
	if m != nil {
		m.PlanLatency.Observe(d.Seconds())
	}
}
