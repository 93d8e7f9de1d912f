package sampling

import (
	"math"

	"veritas/internal/domain"
	"veritas/internal/reftables"
	dErrors "veritas/pkg/domain-errors"
)

// AttributeParams sizes a deviation-rate test of controls.
type AttributeParams struct {
	PopulationSize         int
	TolerableDeviationRate float64
	ExpectedDeviationRate  float64
	// Confidence is the desired assurance level (e.g. 0.95 means a 5%
	// risk of overreliance).
	Confidence float64
}

// PlanAttribute sizes an attribute sample. The statistical table always
// takes precedence; the binomial approximation
//
//	n = ceil(ln(risk) / ln(1 − tolerable) × tolerable/(tolerable − expected))
//
// only serves combinations the table does not carry.
func PlanAttribute(tables *reftables.Tables, p AttributeParams) (*Plan, error) {
	if p.PopulationSize <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "population size must be positive")
	}
	if p.TolerableDeviationRate <= 0 || p.TolerableDeviationRate >= 1 {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "tolerable deviation rate %.4f outside (0, 1)", p.TolerableDeviationRate)
	}
	if p.ExpectedDeviationRate < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "expected deviation rate cannot be negative")
	}
	if p.ExpectedDeviationRate >= p.TolerableDeviationRate {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput,
			"expected deviation rate %.4f must be below tolerable rate %.4f",
			p.ExpectedDeviationRate, p.TolerableDeviationRate)
	}
	risk := 1 - p.Confidence
	if risk <= 0 || risk >= 1 {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "confidence %.4f outside (0, 1)", p.Confidence)
	}

	sampleSize, ok := tables.AttributeSampleSize(risk, p.TolerableDeviationRate, p.ExpectedDeviationRate)
	if !ok {
		base := math.Log(risk) / math.Log(1-p.TolerableDeviationRate)
		adjusted := base * p.TolerableDeviationRate / (p.TolerableDeviationRate - p.ExpectedDeviationRate)
		sampleSize = int(math.Ceil(adjusted))
	}

	return &Plan{
		Method:         domain.MethodAttribute,
		PopulationSize: p.PopulationSize,
		TolerableError: p.TolerableDeviationRate,
		ExpectedError:  p.ExpectedDeviationRate,
		RiskLevel:      risk,
		Confidence:     p.Confidence,
		SampleSize:     sampleSize,
		State:          StatePlanned,
	}, nil
}

// evaluateAttribute derives the achieved upper deviation limit from the
// reliability factor at the observed deviation count:
//
//	upper = RF(deviations) / n
//
// Rely on the control iff the upper limit stays within the tolerable rate.
func evaluateAttribute(tables *reftables.Tables, plan *Plan, deviationsFound int) (*Evaluation, error) {
	if deviationsFound < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "deviations found cannot be negative")
	}
	if deviationsFound > plan.SampleSize {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput,
			"deviations found %d exceeds sample size %d", deviationsFound, plan.SampleSize)
	}

	rf, err := tables.ReliabilityFactor(plan.RiskLevel, deviationsFound)
	if err != nil {
		return nil, err
	}

	n := float64(plan.SampleSize)
	upper := rf / n

	conclusion := domain.ConclusionDoNotRely
	if upper <= plan.TolerableError {
		conclusion = domain.ConclusionRely
	}

	return &Evaluation{
		ProjectedDeviationRate: float64(deviationsFound) / n,
		UpperLimit:             upper,
		ControlConclusion:      conclusion,
	}, nil
}
