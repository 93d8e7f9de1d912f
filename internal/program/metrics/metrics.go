package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the audit program module.
type Metrics struct {
	// Procedures generated by risk level
	ProceduresTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all program module metrics registered.
func New() *Metrics {
	return &Metrics{
		ProceduresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_program_procedures_total",
			Help: "Total audit procedures generated, by risk level",
		}, []string{"risk_level"}),
	}
}

// IncrementProcedures records generated procedures.
func (m *Metrics) IncrementProcedures(riskLevel string, count int) {
	if m != nil {
		m.ProceduresTotal.WithLabelValues(riskLevel).Add(float64(count))
	}
}
