// Package materiality turns financial statement benchmarks into the
// quantitative thresholds used across the engagement: overall materiality,
// performance materiality, and the clearly-trivial threshold.
package materiality

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"veritas/internal/domain"
	dErrors "veritas/pkg/domain-errors"
)

// Benchmarks is the immutable financial input to a materiality calculation.
type Benchmarks struct {
	TotalAssets    decimal.Decimal
	TotalRevenue   decimal.Decimal
	PretaxIncome   decimal.Decimal
	TotalEquity    decimal.Decimal
	EntityType     domain.EntityType
	IncomeIsStable bool
}

// Result holds the derived thresholds plus every computed candidate for
// audit transparency. A Result is created once per planning cycle and
// recreated, never mutated, when benchmarks change.
type Result struct {
	OverallMateriality     decimal.Decimal
	PerformanceMateriality decimal.Decimal
	TrivialThreshold       decimal.Decimal
	BenchmarkUsed          string
	AllBenchmarks          map[string]decimal.Decimal
}

// Service computes materiality. It is stateless; the logger is the only
// dependency.
type Service struct {
	logger *slog.Logger
}

// NewService constructs a materiality service.
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// Calculate derives materiality thresholds from benchmarks. It fails with
// an insufficient-data error when no benchmark candidate is positive —
// never with a silently defaulted number.
func (s *Service) Calculate(ctx context.Context, b Benchmarks) (*Result, error) {
	if !b.EntityType.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown entity type %q", b.EntityType)
	}

	result, err := compute(b)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "materiality calculation failed",
				"entity_type", b.EntityType,
				"error", err,
			)
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "materiality calculated",
			"entity_type", b.EntityType,
			"benchmark_used", result.BenchmarkUsed,
			"overall", result.OverallMateriality.String(),
		)
	}
	return result, nil
}
