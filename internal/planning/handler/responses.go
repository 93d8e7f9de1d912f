package handler

import (
	"veritas/internal/planning"
)

// PlanResponse is the HTTP response for POST /planning/plan.
type PlanResponse struct {
	EngagementID     string                `json:"engagement_id"`
	Materiality      MaterialityResponse   `json:"materiality"`
	FraudRiskFactors []FraudFactorResponse `json:"fraud_risk_factors"`
	Accounts         []AccountPlanResponse `json:"accounts"`
}

// MaterialityResponse is the materiality portion of the plan.
type MaterialityResponse struct {
	OverallMateriality     string `json:"overall_materiality"`
	PerformanceMateriality string `json:"performance_materiality"`
	TrivialThreshold       string `json:"trivial_threshold"`
	BenchmarkUsed          string `json:"benchmark_used"`
}

// FraudFactorResponse is one identified fraud risk factor.
type FraudFactorResponse struct {
	Category        string `json:"category"`
	Description     string `json:"description"`
	Likelihood      string `json:"likelihood"`
	Impact          string `json:"impact"`
	PlannedResponse string `json:"planned_response"`
}

// AccountPlanResponse is the planning outcome for one account.
type AccountPlanResponse struct {
	Name                 string              `json:"name"`
	AccountType          string              `json:"account_type"`
	Assertion            string              `json:"assertion"`
	InherentRisk         string              `json:"inherent_risk"`
	ControlRisk          string              `json:"control_risk"`
	RMM                  string              `json:"rmm"`
	DetectionRisk        string              `json:"detection_risk"`
	SampleSizeMultiplier float64             `json:"sample_size_multiplier"`
	Procedures           []ProcedureResponse `json:"procedures"`
}

// ProcedureResponse is one generated audit procedure.
type ProcedureResponse struct {
	Description string `json:"description"`
	Extent      string `json:"extent"`
	Timing      string `json:"timing"`
}

// FromSummary converts a planning summary to an HTTP response.
func FromSummary(s *planning.PlanSummary) *PlanResponse {
	factors := make([]FraudFactorResponse, 0, len(s.FraudRiskFactors))
	for _, f := range s.FraudRiskFactors {
		factors = append(factors, FraudFactorResponse{
			Category:        string(f.Category),
			Description:     f.Description,
			Likelihood:      string(f.Likelihood),
			Impact:          string(f.Impact),
			PlannedResponse: f.PlannedResponse,
		})
	}

	accounts := make([]AccountPlanResponse, 0, len(s.Accounts))
	for _, a := range s.Accounts {
		procedures := make([]ProcedureResponse, 0, len(a.Procedures))
		for _, p := range a.Procedures {
			procedures = append(procedures, ProcedureResponse{
				Description: p.Description,
				Extent:      p.Extent,
				Timing:      string(p.Timing),
			})
		}
		accounts = append(accounts, AccountPlanResponse{
			Name:                 a.Name,
			AccountType:          string(a.AccountType),
			Assertion:            string(a.Assertion),
			InherentRisk:         string(a.InherentRisk),
			ControlRisk:          string(a.ControlRisk),
			RMM:                  string(a.Combined.RMM),
			DetectionRisk:        string(a.Combined.DetectionRisk),
			SampleSizeMultiplier: a.Combined.SampleSizeMultiplier,
			Procedures:           procedures,
		})
	}

	return &PlanResponse{
		EngagementID: s.EngagementID,
		Materiality: MaterialityResponse{
			OverallMateriality:     s.Materiality.OverallMateriality.String(),
			PerformanceMateriality: s.Materiality.PerformanceMateriality.String(),
			TrivialThreshold:       s.Materiality.TrivialThreshold.String(),
			BenchmarkUsed:          s.Materiality.BenchmarkUsed,
		},
		FraudRiskFactors: factors,
		Accounts:         accounts,
	}
}
