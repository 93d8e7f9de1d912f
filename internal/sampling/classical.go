package sampling

import (
	"math"
	"math/rand"

	"veritas/internal/domain"
	"veritas/internal/reftables"
	dErrors "veritas/pkg/domain-errors"
)

// Estimator selects the classical variables point estimate.
type Estimator string

const (
	EstimatorMeanPerUnit Estimator = "mean_per_unit"
	EstimatorRatio       Estimator = "ratio"
	EstimatorDifference  Estimator = "difference"
)

func (e Estimator) Valid() bool {
	switch e {
	case EstimatorMeanPerUnit, EstimatorRatio, EstimatorDifference:
		return true
	}
	return false
}

// ParseEstimator converts a wire value into an Estimator.
func ParseEstimator(s string) (Estimator, error) {
	e := Estimator(s)
	if !e.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown estimator %q", s)
	}
	return e, nil
}

// ClassicalParams sizes a normal-distribution-based sample.
type ClassicalParams struct {
	PopulationSize        int
	StdDev                float64
	TolerableMisstatement float64
	// Confidence is the confidence level (e.g. 0.95).
	Confidence float64
}

// minClassicalSampleSize floors corrected sizes; a zero-variance
// population still needs one observation.
const minClassicalSampleSize = 1

// PlanClassical computes the mean-per-unit sample size
//
//	n = ceil((N × σ × Z / TM)²)
//
// with the finite population correction n' = n / (1 + n/N) applied when
// the uncorrected size exceeds 5% of the population.
func PlanClassical(tables *reftables.Tables, p ClassicalParams) (*Plan, error) {
	if p.PopulationSize <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "population size must be positive")
	}
	if p.StdDev < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "standard deviation cannot be negative")
	}
	if p.TolerableMisstatement <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tolerable misstatement must be positive")
	}

	z, err := tables.ZScore(p.Confidence)
	if err != nil {
		return nil, err
	}

	nFloat := math.Pow(float64(p.PopulationSize)*p.StdDev*z/p.TolerableMisstatement, 2)
	n := int(math.Ceil(nFloat))

	if float64(n) > 0.05*float64(p.PopulationSize) {
		corrected := float64(n) / (1 + float64(n)/float64(p.PopulationSize))
		n = int(math.Ceil(corrected))
	}
	if n < minClassicalSampleSize {
		n = minClassicalSampleSize
	}

	return &Plan{
		Method:         domain.MethodClassical,
		PopulationSize: p.PopulationSize,
		StdDev:         p.StdDev,
		TolerableError: p.TolerableMisstatement,
		Confidence:     p.Confidence,
		SampleSize:     n,
		State:          StatePlanned,
	}, nil
}

// selectRandom draws a simple random sample without replacement, in
// population order, from a seeded generator. Used by the classical and
// attribute methods.
func selectRandom(plan *Plan, population []PopulationItem, seed int64) ([]SelectedItem, error) {
	if plan.SampleSize > len(population) {
		return nil, dErrors.Newf(dErrors.CodePopulationExhausted,
			"sample size %d exceeds population of %d items", plan.SampleSize, len(population))
	}

	rng := rand.New(rand.NewSource(seed))
	indexes := rng.Perm(len(population))[:plan.SampleSize]

	chosen := make(map[int]struct{}, len(indexes))
	for _, idx := range indexes {
		chosen[idx] = struct{}{}
	}

	selected := make([]SelectedItem, 0, plan.SampleSize)
	for i, item := range population {
		if _, ok := chosen[i]; ok {
			selected = append(selected, SelectedItem{ID: item.ID, BookValue: item.BookValue})
		}
	}
	return selected, nil
}

// evaluateClassical projects the population value with the requested
// estimator and applies the shared acceptance frame:
//
//	accept iff |book − projected| + precision ≤ tolerable
func evaluateClassical(tables *reftables.Tables, plan *Plan, estimator Estimator, bookValue float64, items []AuditedItem) (*Evaluation, error) {
	if len(items) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "no audited items supplied")
	}
	if !estimator.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown estimator %q", estimator)
	}

	z, err := tables.ZScore(plan.Confidence)
	if err != nil {
		return nil, err
	}

	n := float64(len(items))
	populationN := float64(plan.PopulationSize)

	var projected float64
	var basis []float64
	switch estimator {
	case EstimatorMeanPerUnit:
		var sum float64
		for _, item := range items {
			sum += item.AuditValue
			basis = append(basis, item.AuditValue)
		}
		projected = sum / n * populationN

	case EstimatorRatio:
		var auditSum, bookSum float64
		for _, item := range items {
			auditSum += item.AuditValue
			bookSum += item.BookValue
		}
		if bookSum <= 0 {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "sample book value must be positive for ratio estimation")
		}
		ratio := auditSum / bookSum
		projected = bookValue * ratio
		for _, item := range items {
			basis = append(basis, item.AuditValue-ratio*item.BookValue)
		}

	case EstimatorDifference:
		var diffSum float64
		for _, item := range items {
			diff := item.AuditValue - item.BookValue
			diffSum += diff
			basis = append(basis, diff)
		}
		projected = bookValue + diffSum/n*populationN
	}

	stdDev := sampleStdDev(basis)
	precision := z * (stdDev / math.Sqrt(n)) * populationN * finitePopulationCorrection(populationN, n)

	misstatement := math.Abs(bookValue - projected)

	conclusion := domain.ConclusionReject
	if misstatement+precision <= plan.TolerableError {
		conclusion = domain.ConclusionAccept
	}

	return &Evaluation{
		ProjectedMisstatement: misstatement,
		BasicPrecision:        precision,
		UpperLimit:            misstatement + precision,
		SubstantiveConclusion: conclusion,
	}, nil
}

// sampleStdDev is the n-1 (Bessel-corrected) standard deviation.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

func finitePopulationCorrection(populationN, n float64) float64 {
	if populationN <= 1 || n >= populationN {
		return 0
	}
	return math.Sqrt((populationN - n) / (populationN - 1))
}
