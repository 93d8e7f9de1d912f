package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the risk module.
type Metrics struct {
	// Assessments by resulting RMM level
	AssessmentsTotal *prometheus.CounterVec

	// Revisions appended to existing chains
	RevisionsTotal prometheus.Counter

	// Fraud risk factors by category
	FraudFactorsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all risk module metrics registered.
func New() *Metrics {
	return &Metrics{
		AssessmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_risk_assessments_total",
			Help: "Total risk assessments by combined RMM level",
		}, []string{"rmm"}),

		RevisionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veritas_risk_revisions_total",
			Help: "Total assessment revisions appended during fieldwork",
		}),

		FraudFactorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_risk_fraud_factors_total",
			Help: "Total fraud risk factors identified, by fraud triangle category",
		}, []string{"category"}),
	}
}

// IncrementAssessments records a completed assessment.
func (m *Metrics) IncrementAssessments(rmm string) {
	if m != nil {
		m.AssessmentsTotal.WithLabelValues(rmm).Inc()
	}
}

// IncrementRevisions records an appended revision.
func (m *Metrics) IncrementRevisions() {
	if m != nil {
		m.RevisionsTotal.Inc()
	}
}

// IncrementFraudFactors records identified fraud factors for a category.
func (m *Metrics) IncrementFraudFactors(category string) {
	if m != nil {
		m.FraudFactorsTotal.WithLabelValues(category).Inc()
	}
}
