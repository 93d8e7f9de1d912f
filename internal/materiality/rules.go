package materiality

import (
	"github.com/shopspring/decimal"

	"veritas/internal/domain"
	dErrors "veritas/pkg/domain-errors"
)

// Benchmark names as reported in Result.AllBenchmarks.
const (
	BenchmarkPretaxIncome = "pretax_income"
	BenchmarkRevenue      = "total_revenue"
	BenchmarkAssets       = "total_assets"
	BenchmarkEquity       = "total_equity"
)

// Firm methodology rates. Guidance permits ranges (income 3-5%, revenue and
// assets 0.5-1%, equity 1-2%); these are the fixed points the methodology
// owner signed off on.
var (
	rateIncome  = decimal.RequireFromString("0.05")
	rateRevenue = decimal.RequireFromString("0.005")
	rateAssets  = decimal.RequireFromString("0.005")
	rateEquity  = decimal.RequireFromString("0.01")

	privateDiscount   = decimal.RequireFromString("0.8")
	performanceFactor = decimal.RequireFromString("0.65")
	trivialFactor     = decimal.RequireFromString("0.04")
)

// compute is pure domain logic: no I/O, no side effects.
//
// Candidate precedence is income > revenue > assets > equity; the first
// positive candidate wins. The pretax income candidate is only computed
// when income is stable. Private entities take a 20% haircut on the
// selected raw value before performance and trivial figures are derived.
func compute(b Benchmarks) (*Result, error) {
	type candidate struct {
		name  string
		value decimal.Decimal
	}

	var candidates []candidate
	if b.IncomeIsStable {
		candidates = append(candidates, candidate{BenchmarkPretaxIncome, b.PretaxIncome.Mul(rateIncome)})
	}
	candidates = append(candidates,
		candidate{BenchmarkRevenue, b.TotalRevenue.Mul(rateRevenue)},
		candidate{BenchmarkAssets, b.TotalAssets.Mul(rateAssets)},
		candidate{BenchmarkEquity, b.TotalEquity.Mul(rateEquity)},
	)

	all := make(map[string]decimal.Decimal, len(candidates))
	var selected *candidate
	for i := range candidates {
		all[candidates[i].name] = candidates[i].value
		if selected == nil && candidates[i].value.IsPositive() {
			selected = &candidates[i]
		}
	}

	if selected == nil {
		return nil, dErrors.New(dErrors.CodeInsufficientData,
			"no positive materiality benchmark available")
	}

	overall := selected.value
	if b.EntityType == domain.EntityPrivate {
		overall = overall.Mul(privateDiscount)
	}

	return &Result{
		OverallMateriality:     overall,
		PerformanceMateriality: overall.Mul(performanceFactor),
		TrivialThreshold:       overall.Mul(trivialFactor),
		BenchmarkUsed:          selected.name,
		AllBenchmarks:          all,
	}, nil
}
