package handler

import (
	"veritas/internal/sampling"
)

// RecommendResponse is the HTTP response for POST /sampling/recommend.
type RecommendResponse struct {
	Method                string `json:"method"`
	FullExaminationOption bool   `json:"full_examination_option"`
}

// PlanResponse is the HTTP response carrying a sampling plan.
type PlanResponse struct {
	Plan PlanPayload `json:"plan"`
}

// FromPlan converts a domain plan to its wire form.
func FromPlan(p *sampling.Plan) PlanPayload {
	return PlanPayload{
		Method:           string(p.Method),
		PopulationSize:   p.PopulationSize,
		PopulationValue:  p.PopulationValue,
		StdDev:           p.StdDev,
		TolerableError:   p.TolerableError,
		ExpectedError:    p.ExpectedError,
		RiskLevel:        p.RiskLevel,
		Confidence:       p.Confidence,
		SampleSize:       p.SampleSize,
		SamplingInterval: p.SamplingInterval,
		State:            string(p.State),
	}
}

// SelectedItemResponse is one selected sample item.
type SelectedItemResponse struct {
	ID        string  `json:"id"`
	BookValue float64 `json:"book_value"`
	HighValue bool    `json:"high_value"`
}

// SelectResponse is the HTTP response for POST /sampling/select.
type SelectResponse struct {
	Plan  PlanPayload            `json:"plan"`
	Items []SelectedItemResponse `json:"items"`
}

// FromSelection converts the updated plan and selected items to a response.
func FromSelection(p *sampling.Plan, items []sampling.SelectedItem) *SelectResponse {
	out := make([]SelectedItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, SelectedItemResponse{
			ID:        item.ID,
			BookValue: item.BookValue,
			HighValue: item.HighValue,
		})
	}
	return &SelectResponse{Plan: FromPlan(p), Items: out}
}

// EvaluationResponse is the appended evaluation result.
type EvaluationResponse struct {
	ProjectedMisstatement  float64 `json:"projected_misstatement"`
	BasicPrecision         float64 `json:"basic_precision"`
	IncrementalAllowance   float64 `json:"incremental_allowance"`
	ProjectedDeviationRate float64 `json:"projected_deviation_rate"`
	UpperLimit             float64 `json:"upper_limit"`
	SubstantiveConclusion  string  `json:"substantive_conclusion,omitempty"`
	ControlConclusion      string  `json:"control_conclusion,omitempty"`
}

// EvaluateResponse is the HTTP response for POST /sampling/evaluate.
type EvaluateResponse struct {
	Plan       PlanPayload        `json:"plan"`
	Evaluation EvaluationResponse `json:"evaluation"`
}

// FromEvaluation converts the updated plan and evaluation to a response.
func FromEvaluation(p *sampling.Plan, e *sampling.Evaluation) *EvaluateResponse {
	return &EvaluateResponse{
		Plan: FromPlan(p),
		Evaluation: EvaluationResponse{
			ProjectedMisstatement:  e.ProjectedMisstatement,
			BasicPrecision:         e.BasicPrecision,
			IncrementalAllowance:   e.IncrementalAllowance,
			ProjectedDeviationRate: e.ProjectedDeviationRate,
			UpperLimit:             e.UpperLimit,
			SubstantiveConclusion:  string(e.SubstantiveConclusion),
			ControlConclusion:      string(e.ControlConclusion),
		},
	}
}
