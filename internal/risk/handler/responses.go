package handler

import (
	"time"

	"veritas/internal/risk"
)

// AssessmentResponse is the HTTP representation of one assessment version.
type AssessmentResponse struct {
	VersionID            string    `json:"version_id"`
	Version              int       `json:"version"`
	EngagementID         string    `json:"engagement_id"`
	AccountName          string    `json:"account_name"`
	Assertion            string    `json:"assertion"`
	AccountType          string    `json:"account_type"`
	InherentRisk         string    `json:"inherent_risk"`
	ControlRisk          string    `json:"control_risk"`
	RMM                  string    `json:"rmm"`
	DetectionRisk        string    `json:"detection_risk"`
	SampleSizeMultiplier float64   `json:"sample_size_multiplier"`
	FraudRiskFlag        bool      `json:"fraud_risk_flag"`
	State                string    `json:"state"`
	CreatedAt            time.Time `json:"created_at"`
}

// FromAssessment converts a domain assessment to an HTTP response.
func FromAssessment(a *risk.Assessment) *AssessmentResponse {
	return &AssessmentResponse{
		VersionID:            a.VersionID.String(),
		Version:              a.Version,
		EngagementID:         a.Key.EngagementID,
		AccountName:          a.Key.AccountName,
		Assertion:            string(a.Key.Assertion),
		AccountType:          string(a.AccountType),
		InherentRisk:         string(a.InherentRisk),
		ControlRisk:          string(a.ControlRisk),
		RMM:                  string(a.Combined.RMM),
		DetectionRisk:        string(a.Combined.DetectionRisk),
		SampleSizeMultiplier: a.Combined.SampleSizeMultiplier,
		FraudRiskFlag:        a.FraudRiskFlag,
		State:                string(a.State),
		CreatedAt:            a.CreatedAt,
	}
}

// HistoryResponse is the HTTP response for the assessment history endpoint.
type HistoryResponse struct {
	Versions []AssessmentResponse `json:"versions"`
}

// FromHistory converts a version chain to an HTTP response, oldest first.
func FromHistory(chain []risk.Assessment) *HistoryResponse {
	versions := make([]AssessmentResponse, 0, len(chain))
	for i := range chain {
		versions = append(versions, *FromAssessment(&chain[i]))
	}
	return &HistoryResponse{Versions: versions}
}

// FraudFactorResponse is one identified fraud risk factor.
type FraudFactorResponse struct {
	Category        string `json:"category"`
	Description     string `json:"description"`
	Likelihood      string `json:"likelihood"`
	Impact          string `json:"impact"`
	PlannedResponse string `json:"planned_response"`
}

// FraudFactorsResponse is the HTTP response for POST /risk/fraud-factors.
type FraudFactorsResponse struct {
	Factors []FraudFactorResponse `json:"factors"`
}

// FromFraudFactors converts identified factors to an HTTP response.
func FromFraudFactors(factors []risk.FraudRiskFactor) *FraudFactorsResponse {
	out := make([]FraudFactorResponse, 0, len(factors))
	for _, f := range factors {
		out = append(out, FraudFactorResponse{
			Category:        string(f.Category),
			Description:     f.Description,
			Likelihood:      string(f.Likelihood),
			Impact:          string(f.Impact),
			PlannedResponse: f.PlannedResponse,
		})
	}
	return &FraudFactorsResponse{Factors: out}
}
