// Package planning runs the one-shot engagement planning orchestration:
// materiality, fraud risk factors, and per-account combined risk with a
// generated audit program.
package planning

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"veritas/internal/materiality"
	"veritas/internal/planning/metrics"
	"veritas/internal/program"
	"veritas/internal/risk"
	dErrors "veritas/pkg/domain-errors"
)

const tracerName = "veritas/planning"

// maxConcurrentAccounts bounds the per-account fan-out.
const maxConcurrentAccounts = 8

// Service orchestrates the planning engines for an engagement snapshot.
type Service struct {
	materiality *materiality.Service
	risk        *risk.Service
	program     *program.Service
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

// NewService constructs a planning service. All three engine services are
// required.
func NewService(m *materiality.Service, r *risk.Service, p *program.Service, logger *slog.Logger, pm *metrics.Metrics) (*Service, error) {
	if m == nil {
		return nil, errors.New("materiality service is required")
	}
	if r == nil {
		return nil, errors.New("risk service is required")
	}
	if p == nil {
		return nil, errors.New("program service is required")
	}
	return &Service{
		materiality: m,
		risk:        r,
		program:     p,
		logger:      logger,
		metrics:     pm,
		tracer:      otel.Tracer(tracerName),
	}, nil
}

// Plan derives the full planning summary for one engagement snapshot.
// Account contexts are independent (account, assertion) pairs, so combined
// risk and program generation fan out in parallel.
func (s *Service) Plan(ctx context.Context, req PlanRequest) (*PlanSummary, error) {
	ctx, span := s.tracer.Start(ctx, "planning.Plan", trace.WithAttributes(
		attribute.String("engagement_id", req.EngagementID),
		attribute.Int("accounts", len(req.Accounts)),
	))
	defer span.End()
	start := time.Now()

	summary, err := s.plan(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.metrics.IncrementPlans("error")
		return nil, err
	}

	s.metrics.IncrementPlans("ok")
	s.metrics.ObservePlanLatency(time.Since(start))
	if s.logger != nil {
		s.logger.InfoContext(ctx, "engagement plan built",
			"engagement_id", req.EngagementID,
			"accounts", len(summary.Accounts),
			"fraud_factors", len(summary.FraudRiskFactors),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return summary, nil
}

func (s *Service) plan(ctx context.Context, req PlanRequest) (*PlanSummary, error) {
	if req.EngagementID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "engagement id is required")
	}
	if len(req.Accounts) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one account is required")
	}

	mat, err := s.materiality.Calculate(ctx, req.Benchmarks)
	if err != nil {
		return nil, err
	}

	factors := s.risk.IdentifyFraudRiskFactors(ctx, req.FraudInputs)

	plans := make([]AccountPlan, len(req.Accounts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentAccounts)
	for i, account := range req.Accounts {
		g.Go(func() error {
			combined, err := s.risk.AssessCombinedRisk(account.InherentRisk, account.ControlRisk)
			if err != nil {
				return err
			}

			procedures, err := s.program.Generate(ctx,
				account.AccountType, account.Assertion, combined.RMM,
				account.Balance, mat.OverallMateriality)
			if err != nil {
				return err
			}

			plans[i] = AccountPlan{
				Name:         account.Name,
				AccountType:  account.AccountType,
				Assertion:    account.Assertion,
				InherentRisk: account.InherentRisk,
				ControlRisk:  account.ControlRisk,
				Combined:     combined,
				Procedures:   procedures,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &PlanSummary{
		EngagementID:     req.EngagementID,
		Materiality:      *mat,
		FraudRiskFactors: factors,
		Accounts:         plans,
	}, nil
}
