package sampling

import (
	"veritas/internal/domain"
	dErrors "veritas/pkg/domain-errors"
)

// Recommendation is the selector's verdict. FullExaminationOption flags
// populations small enough that examining every item may beat sampling;
// the choice stays with the caller.
type Recommendation struct {
	Method                domain.SamplingMethod
	FullExaminationOption bool
}

// RecommendMethod picks a sampling technique for a test. Priority chain,
// first match wins:
//
//  1. control testing            → attribute sampling
//  2. overstatement, errors < 2% → monetary unit sampling
//  3. understatement or errors ≥ 2% → classical variables
//  4. population under 100 items → classical variables
//
// This is pure domain logic - no I/O, no side effects.
func RecommendMethod(populationSize int, populationValue float64, objective domain.TestObjective, expectedErrorRate float64) (Recommendation, error) {
	if populationSize <= 0 {
		return Recommendation{}, dErrors.New(dErrors.CodeInvalidInput, "population size must be positive")
	}
	if expectedErrorRate < 0 || expectedErrorRate >= 1 {
		return Recommendation{}, dErrors.Newf(dErrors.CodeInvalidInput, "expected error rate %.4f outside [0, 1)", expectedErrorRate)
	}

	rec := Recommendation{FullExaminationOption: populationSize < 100}

	switch {
	case objective == domain.ObjectiveControlTesting:
		rec.Method = domain.MethodAttribute
	case objective == domain.ObjectiveSubstantiveOverstatement && expectedErrorRate < 0.02:
		rec.Method = domain.MethodMUS
	case objective == domain.ObjectiveSubstantiveUnderstatement || expectedErrorRate >= 0.02:
		rec.Method = domain.MethodClassical
	case populationSize < 100:
		rec.Method = domain.MethodClassical
	default:
		return Recommendation{}, dErrors.Newf(dErrors.CodeInvalidInput, "unknown test objective %q", objective)
	}

	return rec, nil
}
