package reftables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas/internal/domain"
	dErrors "veritas/pkg/domain-errors"
)

func mustTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := Load()
	require.NoError(t, err, "embedded tables must parse and validate")
	return tables
}

// =============================================================================
// Loading and validation
// =============================================================================

func TestLoad_EmbeddedTablesAreValid(t *testing.T) {
	tables := mustTables(t)
	require.NotNil(t, tables)
}

func TestLoad_IsIdempotent(t *testing.T) {
	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second, "Load caches a single shared instance")
}

// =============================================================================
// MUS reliability and expansion factors
// =============================================================================

func TestReliabilityFactor_KnownValues(t *testing.T) {
	tables := mustTables(t)

	rf, err := tables.ReliabilityFactor(0.05, 0)
	require.NoError(t, err)
	assert.InDelta(t, 3.00, rf, 1e-9)

	rf, err = tables.ReliabilityFactor(0.05, 1)
	require.NoError(t, err)
	assert.InDelta(t, 4.75, rf, 1e-9)

	rf, err = tables.ReliabilityFactor(0.10, 0)
	require.NoError(t, err)
	assert.InDelta(t, 2.31, rf, 1e-9)
}

func TestReliabilityFactor_RowsStrictlyIncrease(t *testing.T) {
	tables := mustTables(t)

	for _, risk := range []float64{0.05, 0.10, 0.15, 0.20} {
		prev := 0.0
		for i := 0; i <= 10; i++ {
			rf, err := tables.ReliabilityFactor(risk, i)
			require.NoError(t, err)
			assert.Greater(t, rf, prev, "reliability factors must increase with misstatement count")
			prev = rf
		}
	}
}

func TestReliabilityFactor_UnknownRisk(t *testing.T) {
	tables := mustTables(t)

	_, err := tables.ReliabilityFactor(0.07, 0)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestExpansionFactor_KnownValues(t *testing.T) {
	tables := mustTables(t)

	ef, err := tables.ExpansionFactor(0.05)
	require.NoError(t, err)
	assert.InDelta(t, 1.6, ef, 1e-9)
}

// =============================================================================
// Z-scores
// =============================================================================

func TestZScore_KnownValues(t *testing.T) {
	tables := mustTables(t)

	for confidence, want := range map[float64]float64{
		0.80: 1.28,
		0.90: 1.645,
		0.95: 1.96,
		0.99: 2.58,
	} {
		z, err := tables.ZScore(confidence)
		require.NoError(t, err)
		assert.InDelta(t, want, z, 1e-9)
	}
}

func TestZScore_UnknownConfidence(t *testing.T) {
	tables := mustTables(t)

	_, err := tables.ZScore(0.42)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

// =============================================================================
// Attribute sample sizes
// =============================================================================

func TestAttributeSampleSize_TablePin(t *testing.T) {
	tables := mustTables(t)

	size, ok := tables.AttributeSampleSize(0.05, 0.05, 0.00)
	require.True(t, ok)
	assert.Equal(t, 93, size)
}

func TestAttributeSampleSize_AbsentCombination(t *testing.T) {
	tables := mustTables(t)

	_, ok := tables.AttributeSampleSize(0.05, 0.09, 0.00)
	assert.False(t, ok, "absent combinations fall back to the binomial approximation")
}

// =============================================================================
// Risk matrix
// =============================================================================

func TestCombinedRisk_Anchors(t *testing.T) {
	tables := mustTables(t)

	lowLow, err := tables.CombinedRisk(domain.RiskLow, domain.RiskLow)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskLow, lowLow.RMM)
	assert.InDelta(t, 0.70, lowLow.SampleSizeMultiplier, 1e-9)

	highHigh, err := tables.CombinedRisk(domain.RiskHigh, domain.RiskHigh)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskSignificant, highHigh.RMM)
	assert.Equal(t, domain.RiskLow, highHigh.DetectionRisk)
	assert.InDelta(t, 1.50, highHigh.SampleSizeMultiplier, 1e-9)

	sigSig, err := tables.CombinedRisk(domain.RiskSignificant, domain.RiskSignificant)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskSignificant, sigSig.RMM)
	assert.InDelta(t, 2.50, sigSig.SampleSizeMultiplier, 1e-9)
}

func TestCombinedRisk_AllSixteenCombinationsPresent(t *testing.T) {
	tables := mustTables(t)

	for _, inherent := range domain.RiskLevels {
		for _, control := range domain.RiskLevels {
			_, err := tables.CombinedRisk(inherent, control)
			assert.NoError(t, err, "combination %s/%s must be present", inherent, control)
		}
	}
}

func TestCombinedRisk_MonotoneInBothAxes(t *testing.T) {
	tables := mustTables(t)

	for _, inherent := range domain.RiskLevels {
		prevMultiplier := 0.0
		prevRank := 0
		for _, control := range domain.RiskLevels {
			combined, err := tables.CombinedRisk(inherent, control)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, combined.SampleSizeMultiplier, prevMultiplier,
				"multiplier must not decrease along control axis at inherent=%s", inherent)
			assert.GreaterOrEqual(t, combined.RMM.Rank(), prevRank,
				"RMM must not decrease along control axis at inherent=%s", inherent)
			prevMultiplier = combined.SampleSizeMultiplier
			prevRank = combined.RMM.Rank()
		}
	}

	for _, control := range domain.RiskLevels {
		prevMultiplier := 0.0
		prevRank := 0
		for _, inherent := range domain.RiskLevels {
			combined, err := tables.CombinedRisk(inherent, control)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, combined.SampleSizeMultiplier, prevMultiplier,
				"multiplier must not decrease along inherent axis at control=%s", control)
			assert.GreaterOrEqual(t, combined.RMM.Rank(), prevRank,
				"RMM must not decrease along inherent axis at control=%s", control)
			prevMultiplier = combined.SampleSizeMultiplier
			prevRank = combined.RMM.Rank()
		}
	}
}

func TestCombinedRisk_UnknownLevel(t *testing.T) {
	tables := mustTables(t)

	_, err := tables.CombinedRisk(domain.RiskLevel("extreme"), domain.RiskLow)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnsupportedRiskCombination))
}

// =============================================================================
// Procedure catalog
// =============================================================================

func TestProcedureTemplates_KnownEntry(t *testing.T) {
	tables := mustTables(t)

	templates, ok := tables.ProcedureTemplates(domain.AccountCash, domain.AssertionExistence)
	require.True(t, ok)
	assert.NotEmpty(t, templates)
}

func TestProcedureTemplates_AbsentEntry(t *testing.T) {
	tables := mustTables(t)

	_, ok := tables.ProcedureTemplates(domain.AccountIntangibles, domain.AssertionCutoff)
	assert.False(t, ok)
}
