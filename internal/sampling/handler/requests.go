package handler

import (
	"veritas/internal/domain"
	"veritas/internal/sampling"
	dErrors "veritas/pkg/domain-errors"
)

// RecommendRequest is the HTTP request body for POST /sampling/recommend.
type RecommendRequest struct {
	PopulationSize    int     `json:"population_size" validate:"required,gt=0"`
	PopulationValue   float64 `json:"population_value"`
	TestObjective     string  `json:"test_objective" validate:"required"`
	ExpectedErrorRate float64 `json:"expected_error_rate"`
}

// PlanRequest is the HTTP request body for POST /sampling/plan. Exactly one
// params block must match the method.
type PlanRequest struct {
	Method    string                  `json:"method" validate:"required"`
	MUS       *MUSParamsRequest       `json:"mus,omitempty"`
	Classical *ClassicalParamsRequest `json:"classical,omitempty"`
	Attribute *AttributeParamsRequest `json:"attribute,omitempty"`
}

// MUSParamsRequest carries monetary unit sampling parameters.
type MUSParamsRequest struct {
	PopulationValue       float64 `json:"population_value"`
	TolerableMisstatement float64 `json:"tolerable_misstatement"`
	ExpectedMisstatement  float64 `json:"expected_misstatement"`
	Risk                  float64 `json:"risk"`
}

// ClassicalParamsRequest carries classical variables sampling parameters.
type ClassicalParamsRequest struct {
	PopulationSize        int     `json:"population_size"`
	StdDev                float64 `json:"std_dev"`
	TolerableMisstatement float64 `json:"tolerable_misstatement"`
	Confidence            float64 `json:"confidence"`
}

// AttributeParamsRequest carries attribute sampling parameters.
type AttributeParamsRequest struct {
	PopulationSize         int     `json:"population_size"`
	TolerableDeviationRate float64 `json:"tolerable_deviation_rate"`
	ExpectedDeviationRate  float64 `json:"expected_deviation_rate"`
	Confidence             float64 `json:"confidence"`
}

// SelectRequest is the HTTP request body for POST /sampling/select. The
// caller round-trips the plan; the engine holds no plan state.
type SelectRequest struct {
	Plan       PlanPayload             `json:"plan" validate:"required"`
	Population []PopulationItemRequest `json:"population" validate:"required,dive"`
	Seed       int64                   `json:"seed"`
}

// PopulationItemRequest is one population item on the wire.
type PopulationItemRequest struct {
	ID        string  `json:"id" validate:"required"`
	BookValue float64 `json:"book_value"`
}

// EvaluateRequest is the HTTP request body for POST /sampling/evaluate.
type EvaluateRequest struct {
	Plan            PlanPayload          `json:"plan" validate:"required"`
	Items           []AuditedItemRequest `json:"items,omitempty" validate:"dive"`
	BookValue       float64              `json:"book_value,omitempty"`
	Estimator       string               `json:"estimator,omitempty"`
	DeviationsFound int                  `json:"deviations_found,omitempty"`
}

// AuditedItemRequest is one audited sample item on the wire.
type AuditedItemRequest struct {
	ID         string  `json:"id" validate:"required"`
	BookValue  float64 `json:"book_value"`
	AuditValue float64 `json:"audit_value"`
	HighValue  bool    `json:"high_value"`
}

// PlanPayload is the wire form of a sampling plan, round-tripped between
// the plan, select, and evaluate endpoints.
type PlanPayload struct {
	Method           string  `json:"method" validate:"required"`
	PopulationSize   int     `json:"population_size"`
	PopulationValue  float64 `json:"population_value"`
	StdDev           float64 `json:"std_dev"`
	TolerableError   float64 `json:"tolerable_error"`
	ExpectedError    float64 `json:"expected_error"`
	RiskLevel        float64 `json:"risk_level"`
	Confidence       float64 `json:"confidence"`
	SampleSize       int     `json:"sample_size"`
	SamplingInterval float64 `json:"sampling_interval"`
	State            string  `json:"state"`
}

// ToPlan parses the payload into a domain plan.
func (p PlanPayload) ToPlan() (*sampling.Plan, error) {
	method, err := domain.ParseSamplingMethod(p.Method)
	if err != nil {
		return nil, err
	}

	state := sampling.PlanState(p.State)
	switch state {
	case sampling.StatePlanned, sampling.StateSelected, sampling.StateEvaluated, sampling.StateClosed:
	default:
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown plan state %q", p.State)
	}

	return &sampling.Plan{
		Method:           method,
		PopulationSize:   p.PopulationSize,
		PopulationValue:  p.PopulationValue,
		StdDev:           p.StdDev,
		TolerableError:   p.TolerableError,
		ExpectedError:    p.ExpectedError,
		RiskLevel:        p.RiskLevel,
		Confidence:       p.Confidence,
		SampleSize:       p.SampleSize,
		SamplingInterval: p.SamplingInterval,
		State:            state,
	}, nil
}

func toPopulation(items []PopulationItemRequest) []sampling.PopulationItem {
	population := make([]sampling.PopulationItem, 0, len(items))
	for _, item := range items {
		population = append(population, sampling.PopulationItem{ID: item.ID, BookValue: item.BookValue})
	}
	return population
}

func toAuditedItems(items []AuditedItemRequest) []sampling.AuditedItem {
	audited := make([]sampling.AuditedItem, 0, len(items))
	for _, item := range items {
		audited = append(audited, sampling.AuditedItem{
			ID:         item.ID,
			BookValue:  item.BookValue,
			AuditValue: item.AuditValue,
			HighValue:  item.HighValue,
		})
	}
	return audited
}
