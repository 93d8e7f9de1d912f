package sampling

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"veritas/internal/domain"
	"veritas/internal/reftables"
	"veritas/internal/sampling/metrics"
	dErrors "veritas/pkg/domain-errors"
)

// Service fronts the three sampling engines with shared reference tables,
// logging, and metrics. All operations are synchronous and in-memory; the
// caller owns plan persistence and population retrieval.
type Service struct {
	tables  *reftables.Tables
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService constructs a sampling service. Reference tables are required.
func NewService(tables *reftables.Tables, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if tables == nil {
		return nil, errors.New("reference tables are required")
	}
	return &Service{tables: tables, logger: logger, metrics: m}, nil
}

// Recommend picks a sampling method for a test objective.
func (s *Service) Recommend(ctx context.Context, populationSize int, populationValue float64, objective domain.TestObjective, expectedErrorRate float64) (Recommendation, error) {
	rec, err := RecommendMethod(populationSize, populationValue, objective, expectedErrorRate)
	if err != nil {
		return Recommendation{}, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "sampling method recommended",
			"method", rec.Method,
			"objective", objective,
			"population_size", populationSize,
		)
	}
	return rec, nil
}

// PlanMUS builds a monetary unit sampling plan.
func (s *Service) PlanMUS(ctx context.Context, p MUSParams) (*Plan, error) {
	plan, err := PlanMUS(s.tables, p)
	if err != nil {
		return nil, err
	}
	s.logPlan(ctx, plan)
	return plan, nil
}

// PlanClassical builds a classical variables sampling plan.
func (s *Service) PlanClassical(ctx context.Context, p ClassicalParams) (*Plan, error) {
	plan, err := PlanClassical(s.tables, p)
	if err != nil {
		return nil, err
	}
	s.logPlan(ctx, plan)
	return plan, nil
}

// PlanAttribute builds an attribute sampling plan.
func (s *Service) PlanAttribute(ctx context.Context, p AttributeParams) (*Plan, error) {
	plan, err := PlanAttribute(s.tables, p)
	if err != nil {
		return nil, err
	}
	s.logPlan(ctx, plan)
	return plan, nil
}

func (s *Service) logPlan(ctx context.Context, plan *Plan) {
	s.metrics.IncrementPlans(string(plan.Method))
	if s.logger != nil {
		s.logger.InfoContext(ctx, "sampling plan built",
			"method", plan.Method,
			"sample_size", plan.SampleSize,
			"sampling_interval", plan.SamplingInterval,
		)
	}
}

// Select chooses the sample items for a planned sample and transitions the
// plan to Selected. The seed makes every selection exactly reproducible.
func (s *Service) Select(ctx context.Context, plan *Plan, population []PopulationItem, seed int64) ([]SelectedItem, error) {
	if plan == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "plan is required")
	}

	var (
		selected []SelectedItem
		err      error
	)
	switch plan.Method {
	case domain.MethodMUS:
		selected, err = selectMUS(plan, population, seed)
	case domain.MethodClassical, domain.MethodAttribute:
		selected, err = selectRandom(plan, population, seed)
	default:
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown sampling method %q", plan.Method)
	}
	if err != nil {
		return nil, err
	}

	if err := plan.markSelected(); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "sample selected",
			"method", plan.Method,
			"items", len(selected),
			"seed", seed,
		)
	}
	return selected, nil
}

// EvaluateInputs carries audited results back for evaluation. Items serve
// the substantive methods; DeviationsFound serves attribute sampling;
// Estimator and BookValue apply to classical variables only.
type EvaluateInputs struct {
	Items           []AuditedItem
	BookValue       float64
	Estimator       Estimator
	DeviationsFound int
}

// Evaluate appends an evaluation to a selected plan and returns it.
func (s *Service) Evaluate(ctx context.Context, plan *Plan, in EvaluateInputs) (*Evaluation, error) {
	if plan == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "plan is required")
	}
	start := time.Now()

	var (
		eval *Evaluation
		err  error
	)
	switch plan.Method {
	case domain.MethodMUS:
		eval, err = evaluateMUS(s.tables, plan, in.Items)
	case domain.MethodClassical:
		eval, err = evaluateClassical(s.tables, plan, in.Estimator, in.BookValue, in.Items)
	case domain.MethodAttribute:
		eval, err = evaluateAttribute(s.tables, plan, in.DeviationsFound)
	default:
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown sampling method %q", plan.Method)
	}
	if err != nil {
		return nil, err
	}

	if err := plan.appendEvaluation(eval); err != nil {
		return nil, err
	}

	conclusion := string(eval.SubstantiveConclusion)
	if plan.Method == domain.MethodAttribute {
		conclusion = string(eval.ControlConclusion)
	}
	s.metrics.IncrementEvaluations(string(plan.Method), conclusion)
	s.metrics.ObserveEvaluateLatency(time.Since(start))

	if s.logger != nil {
		s.logger.InfoContext(ctx, "sample evaluated",
			"method", plan.Method,
			"upper_limit", eval.UpperLimit,
			"conclusion", conclusion,
		)
	}
	return eval, nil
}
