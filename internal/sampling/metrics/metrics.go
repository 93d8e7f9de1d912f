package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the sampling module.
type Metrics struct {
	// Plans built by method
	PlansTotal *prometheus.CounterVec

	// Evaluation verdicts by method and conclusion
	EvaluationsTotal *prometheus.CounterVec

	// Full evaluation latency
	EvaluateLatency prometheus.Histogram
}

// New creates a new Metrics instance with all sampling module metrics registered.
func New() *Metrics {
	return &Metrics{
		PlansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_sampling_plans_total",
			Help: "Total sampling plans built, by method",
		}, []string{"method"}),

		EvaluationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_sampling_evaluations_total",
			Help: "Total sample evaluations, by method and conclusion",
		}, []string{"method", "conclusion"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veritas_sampling_evaluate_duration_seconds",
			Help:    "Duration of sample evaluations",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
}

// IncrementPlans records a built plan.
func (m *Metrics) IncrementPlans(method string) {
	if m != nil {
		m.PlansTotal.WithLabelValues(method).Inc()
	}
}

// IncrementEvaluations records an evaluation verdict.
func (m *Metrics) IncrementEvaluations(method, conclusion string) {
	if m != nil {
		m.EvaluationsTotal.WithLabelValues(method, conclusion).Inc()
	}
}

// ObserveEvaluateLatency records the evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
