package sampling

import (
	"math"
	"math/rand"
	"sort"

	"veritas/internal/domain"
	"veritas/internal/reftables"
	dErrors "veritas/pkg/domain-errors"
)

// MUSParams sizes a monetary unit (probability proportional to size)
// sample for an overstatement test.
type MUSParams struct {
	PopulationValue       float64
	TolerableMisstatement float64
	ExpectedMisstatement  float64
	// Risk is the risk of incorrect acceptance (e.g. 0.05).
	Risk float64
}

// PlanMUS computes the dollar-weighted sample size and sampling interval.
//
//	n = ceil(RF × population / (tolerable − expansion × expected))
//
// A non-positive denominator means the expected misstatement leaves no
// room for sampling risk; that fails loudly rather than clamping.
func PlanMUS(tables *reftables.Tables, p MUSParams) (*Plan, error) {
	if p.PopulationValue <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "population value must be positive")
	}
	if p.TolerableMisstatement <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tolerable misstatement must be positive")
	}
	if p.ExpectedMisstatement < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "expected misstatement cannot be negative")
	}

	rf, err := tables.ReliabilityFactor(p.Risk, 0)
	if err != nil {
		return nil, err
	}
	ef, err := tables.ExpansionFactor(p.Risk)
	if err != nil {
		return nil, err
	}

	denominator := p.TolerableMisstatement - ef*p.ExpectedMisstatement
	if denominator <= 0 {
		return nil, dErrors.Newf(dErrors.CodeExcessiveMisstatement,
			"expected misstatement %.2f exhausts tolerable misstatement %.2f",
			p.ExpectedMisstatement, p.TolerableMisstatement)
	}

	sampleSize := int(math.Ceil(rf * p.PopulationValue / denominator))

	return &Plan{
		Method:           domain.MethodMUS,
		PopulationValue:  p.PopulationValue,
		TolerableError:   p.TolerableMisstatement,
		ExpectedError:    p.ExpectedMisstatement,
		RiskLevel:        p.Risk,
		SampleSize:       sampleSize,
		SamplingInterval: p.PopulationValue / float64(sampleSize),
		State:            StatePlanned,
	}, nil
}

// selectMUS performs systematic dollar-weighted selection with a random
// start. Items with book value at or above the sampling interval are
// extracted for 100% examination; the residual population's interval is
// recomputed and the pass repeats. The loop terminates because the
// residual strictly shrinks on every extracting pass.
func selectMUS(plan *Plan, population []PopulationItem, seed int64) ([]SelectedItem, error) {
	for _, item := range population {
		if item.BookValue < 0 {
			return nil, dErrors.Newf(dErrors.CodeInvalidInput, "item %s has negative book value", item.ID)
		}
	}

	var highValue []SelectedItem
	residual := append([]PopulationItem{}, population...)
	interval := plan.SamplingInterval

	for {
		remaining := plan.SampleSize - len(highValue)
		if remaining <= 0 || len(residual) == 0 {
			// Everything worth sampling is already examined 100%.
			return highValue, nil
		}

		var residualValue float64
		for _, item := range residual {
			residualValue += item.BookValue
		}
		if residualValue <= 0 {
			return highValue, nil
		}

		interval = residualValue / float64(remaining)

		next := residual[:0]
		extracted := false
		for _, item := range residual {
			if item.BookValue >= interval {
				highValue = append(highValue, SelectedItem{ID: item.ID, BookValue: item.BookValue, HighValue: true})
				extracted = true
			} else {
				next = append(next, item)
			}
		}
		residual = next
		if !extracted {
			break
		}
	}

	// Systematic selection over the residual, walking cumulative book
	// value in original population order.
	rng := rand.New(rand.NewSource(seed))
	start := rng.Float64() * interval

	selected := highValue
	target := start
	var cumulative float64
	for _, item := range residual {
		cumulative += item.BookValue
		if cumulative > target {
			selected = append(selected, SelectedItem{ID: item.ID, BookValue: item.BookValue})
			// Skip any further sampling points landing inside this item so
			// each item appears at most once.
			for cumulative > target {
				target += interval
			}
		}
	}

	return selected, nil
}

// evaluateMUS projects sample misstatements over the population and builds
// the upper misstatement limit for an overstatement-only test.
func evaluateMUS(tables *reftables.Tables, plan *Plan, items []AuditedItem) (*Evaluation, error) {
	interval := plan.SamplingInterval

	var taintings []float64
	var projected float64
	for _, item := range items {
		if item.BookValue <= 0 {
			return nil, dErrors.Newf(dErrors.CodeInvalidInput, "item %s has non-positive book value", item.ID)
		}
		misstatement := item.BookValue - item.AuditValue
		if misstatement <= 0 {
			// Understatements are out of scope for an overstatement test.
			continue
		}

		if item.HighValue {
			// 100%-examined items contribute their actual error.
			projected += misstatement
			continue
		}

		tainting := misstatement / item.BookValue
		if tainting > 1.0 {
			tainting = 1.0
		}
		taintings = append(taintings, tainting)
		projected += tainting * interval
	}

	basicRF, err := tables.ReliabilityFactor(plan.RiskLevel, 0)
	if err != nil {
		return nil, err
	}
	basicPrecision := basicRF * interval

	// Incremental allowance ranks taintings descending and weights each by
	// the marginal reliability factor increment.
	sort.Sort(sort.Reverse(sort.Float64Slice(taintings)))
	var incremental float64
	prev := basicRF
	for i, tainting := range taintings {
		rf, err := tables.ReliabilityFactor(plan.RiskLevel, i+1)
		if err != nil {
			return nil, err
		}
		incremental += (rf - prev - 1) * tainting * interval
		prev = rf
	}

	upperLimit := projected + basicPrecision + incremental

	// The relative tolerance keeps exact-division plans (where basic
	// precision equals tolerable misstatement mathematically) from flipping
	// on float rounding.
	conclusion := domain.ConclusionReject
	if upperLimit <= plan.TolerableError*(1+1e-9) {
		conclusion = domain.ConclusionAccept
	}

	return &Evaluation{
		ProjectedMisstatement: projected,
		BasicPrecision:        basicPrecision,
		IncrementalAllowance:  incremental,
		UpperLimit:            upperLimit,
		SubstantiveConclusion: conclusion,
	}, nil
}
