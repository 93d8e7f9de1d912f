// Package sampling implements the three statistical sampling engines
// (monetary unit, classical variables, attribute) plus method selection and
// the sampling plan lifecycle. All computation is deterministic: given the
// same inputs and seed, a plan, selection, and evaluation reproduce exactly.
package sampling

import (
	"veritas/internal/domain"
	dErrors "veritas/pkg/domain-errors"
)

// PlanState tracks a sampling plan through its lifecycle. Plans are
// immutable once items are selected, except for the appended evaluation.
type PlanState string

const (
	StatePlanned   PlanState = "planned"
	StateSelected  PlanState = "selected"
	StateEvaluated PlanState = "evaluated"
	StateClosed    PlanState = "closed"
)

// Plan is a sampling plan. Method-specific fields are zero for methods
// that do not use them (SamplingInterval is MUS-only, StdDev and
// Confidence are classical-only).
type Plan struct {
	Method          domain.SamplingMethod
	PopulationSize  int
	PopulationValue float64
	StdDev          float64

	TolerableError float64
	ExpectedError  float64

	// RiskLevel is the risk of incorrect acceptance (MUS) or overreliance
	// (attribute). Confidence is the classical confidence level.
	RiskLevel  float64
	Confidence float64

	SampleSize       int
	SamplingInterval float64

	State      PlanState
	Evaluation *Evaluation
}

// Evaluation is the appended result of evaluating a completed sample. It
// never replaces the plan; substantive fields and the deviation rate are
// mutually exclusive by method.
type Evaluation struct {
	ProjectedMisstatement  float64
	BasicPrecision         float64
	IncrementalAllowance   float64
	ProjectedDeviationRate float64
	UpperLimit             float64

	SubstantiveConclusion domain.SubstantiveConclusion
	ControlConclusion     domain.ControlConclusion
}

// markSelected transitions Planned → Selected. Any other starting state is
// an invariant violation: selection fixes the plan.
func (p *Plan) markSelected() error {
	if p.State != StatePlanned {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"cannot select sample for plan in state %q", p.State)
	}
	p.State = StateSelected
	return nil
}

// appendEvaluation transitions Selected → Evaluated and attaches the
// result.
func (p *Plan) appendEvaluation(e *Evaluation) error {
	if p.State != StateSelected {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"cannot evaluate plan in state %q", p.State)
	}
	p.Evaluation = e
	p.State = StateEvaluated
	return nil
}

// Close transitions Evaluated → Closed (terminal).
func (p *Plan) Close() error {
	if p.State != StateEvaluated {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"cannot close plan in state %q", p.State)
	}
	p.State = StateClosed
	return nil
}

// PopulationItem is one item of the population being sampled.
type PopulationItem struct {
	ID        string
	BookValue float64
}

// SelectedItem is one item chosen for examination. HighValue items exceed
// the sampling interval and are examined 100%.
type SelectedItem struct {
	ID        string
	BookValue float64
	HighValue bool
}

// AuditedItem carries the audited value back for evaluation.
type AuditedItem struct {
	ID         string
	BookValue  float64
	AuditValue float64
	HighValue  bool
}
