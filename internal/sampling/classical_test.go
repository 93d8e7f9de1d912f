package sampling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas/internal/domain"
	dErrors "veritas/pkg/domain-errors"
)

// =============================================================================
// Planning
// =============================================================================

func TestPlanClassical_SampleSizeFormula(t *testing.T) {
	// n = ceil((N x sigma x Z / TM)^2) = ceil((1000 x 50 x 1.96 / 25000)^2)
	//   = ceil(15.3664) = 16; under 5% of N, no correction.
	plan, err := PlanClassical(musTables(t), ClassicalParams{
		PopulationSize:        1000,
		StdDev:                50,
		TolerableMisstatement: 25_000,
		Confidence:            0.95,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MethodClassical, plan.Method)
	assert.Equal(t, 16, plan.SampleSize)
}

func TestPlanClassical_ZeroVarianceFloorsAtOne(t *testing.T) {
	plan, err := PlanClassical(musTables(t), ClassicalParams{
		PopulationSize:        1000,
		StdDev:                0,
		TolerableMisstatement: 10_000,
		Confidence:            0.95,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, plan.SampleSize)
}

func TestPlanClassical_FinitePopulationCorrection(t *testing.T) {
	// Uncorrected n = ceil((200 x 100 x 1.96 / 5000)^2) = ceil(61.47) = 62,
	// well over 5% of 200: corrected = ceil(62 / (1 + 62/200)) = ceil(47.33).
	plan, err := PlanClassical(musTables(t), ClassicalParams{
		PopulationSize:        200,
		StdDev:                100,
		TolerableMisstatement: 5000,
		Confidence:            0.95,
	})
	require.NoError(t, err)

	assert.Equal(t, 48, plan.SampleSize)
	assert.Less(t, plan.SampleSize, 62)
}

func TestPlanClassical_UnknownConfidence(t *testing.T) {
	_, err := PlanClassical(musTables(t), ClassicalParams{
		PopulationSize:        100,
		StdDev:                10,
		TolerableMisstatement: 1000,
		Confidence:            0.93,
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

// =============================================================================
// Random selection (shared with attribute sampling)
// =============================================================================

func TestSelectRandom_Deterministic(t *testing.T) {
	plan := &Plan{Method: domain.MethodClassical, SampleSize: 10, State: StatePlanned}
	population := evenPopulation(50, 100)

	first, err := selectRandom(plan, population, 99)
	require.NoError(t, err)
	second, err := selectRandom(plan, population, 99)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 10)
}

func TestSelectRandom_WithoutReplacement(t *testing.T) {
	plan := &Plan{Method: domain.MethodClassical, SampleSize: 30, State: StatePlanned}
	population := evenPopulation(30, 100)

	selected, err := selectRandom(plan, population, 3)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, item := range selected {
		assert.False(t, seen[item.ID], "item %s drawn twice", item.ID)
		seen[item.ID] = true
	}
	assert.Len(t, seen, 30)
}

func TestSelectRandom_PopulationExhausted(t *testing.T) {
	plan := &Plan{Method: domain.MethodClassical, SampleSize: 51, State: StatePlanned}

	_, err := selectRandom(plan, evenPopulation(50, 100), 1)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodePopulationExhausted))
}

// =============================================================================
// Evaluation
// =============================================================================

func classicalPlan(t *testing.T, populationSize int) *Plan {
	t.Helper()
	plan, err := PlanClassical(musTables(t), ClassicalParams{
		PopulationSize:        populationSize,
		StdDev:                50,
		TolerableMisstatement: 50_000,
		Confidence:            0.95,
	})
	require.NoError(t, err)
	return plan
}

func TestEvaluateClassical_MeanPerUnitProjection(t *testing.T) {
	plan := classicalPlan(t, 1000)

	// Mean audited value 95 projects to 95,000 for 1,000 items.
	items := []AuditedItem{
		{ID: "a", BookValue: 100, AuditValue: 90},
		{ID: "b", BookValue: 100, AuditValue: 100},
	}

	eval, err := evaluateClassical(musTables(t), plan, EstimatorMeanPerUnit, 100_000, items)
	require.NoError(t, err)

	assert.InDelta(t, 5000, eval.ProjectedMisstatement, 1e-6)
	assert.Greater(t, eval.BasicPrecision, 0.0)
}

func TestEvaluateClassical_RatioProjection(t *testing.T) {
	plan := classicalPlan(t, 1000)

	// Audit/book ratio 0.95 against a 100,000 recorded balance.
	items := []AuditedItem{
		{ID: "a", BookValue: 200, AuditValue: 190},
		{ID: "b", BookValue: 200, AuditValue: 190},
	}

	eval, err := evaluateClassical(musTables(t), plan, EstimatorRatio, 100_000, items)
	require.NoError(t, err)

	assert.InDelta(t, 5000, eval.ProjectedMisstatement, 1e-6)
	// Identical residuals mean zero sampling variance.
	assert.InDelta(t, 0, eval.BasicPrecision, 1e-9)
	assert.Equal(t, domain.ConclusionAccept, eval.SubstantiveConclusion)
}

func TestEvaluateClassical_DifferenceProjection(t *testing.T) {
	plan := classicalPlan(t, 1000)

	// Average difference -10 projects to -10,000 against the book value.
	items := []AuditedItem{
		{ID: "a", BookValue: 100, AuditValue: 90},
		{ID: "b", BookValue: 100, AuditValue: 90},
	}

	eval, err := evaluateClassical(musTables(t), plan, EstimatorDifference, 100_000, items)
	require.NoError(t, err)

	assert.InDelta(t, 10_000, eval.ProjectedMisstatement, 1e-6)
	assert.Equal(t, domain.ConclusionAccept, eval.SubstantiveConclusion)
}

func TestEvaluateClassical_RejectsLargeMisstatement(t *testing.T) {
	plan := classicalPlan(t, 1000)

	items := []AuditedItem{
		{ID: "a", BookValue: 100, AuditValue: 20},
		{ID: "b", BookValue: 100, AuditValue: 30},
	}

	eval, err := evaluateClassical(musTables(t), plan, EstimatorDifference, 100_000, items)
	require.NoError(t, err)

	assert.Equal(t, domain.ConclusionReject, eval.SubstantiveConclusion)
	assert.Greater(t, eval.UpperLimit, plan.TolerableError)
}

func TestEvaluateClassical_InvalidInputs(t *testing.T) {
	plan := classicalPlan(t, 1000)

	_, err := evaluateClassical(musTables(t), plan, EstimatorRatio, 1000, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = evaluateClassical(musTables(t), plan, Estimator("regression"), 1000,
		[]AuditedItem{{ID: "a", BookValue: 1, AuditValue: 1}})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	// Ratio estimation needs a positive sample book value.
	_, err = evaluateClassical(musTables(t), plan, EstimatorRatio, 1000,
		[]AuditedItem{{ID: "a", BookValue: 0, AuditValue: 1}})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

// =============================================================================
// Statistical helpers
// =============================================================================

func TestSampleStdDev(t *testing.T) {
	assert.Zero(t, sampleStdDev(nil))
	assert.Zero(t, sampleStdDev([]float64{5}))
	assert.InDelta(t, 1.0, sampleStdDev([]float64{1, 2, 3}), 1e-9)
}

func TestFinitePopulationCorrection(t *testing.T) {
	assert.Zero(t, finitePopulationCorrection(100, 100))
	assert.InDelta(t, math.Sqrt(90.0/99.0), finitePopulationCorrection(100, 10), 1e-12)
}
