package handler

import (
	"veritas/internal/domain"
	"veritas/internal/risk"
)

// AssessRequest is the HTTP request body for POST /risk/assess.
type AssessRequest struct {
	EngagementID  string `json:"engagement_id" validate:"required"`
	AccountName   string `json:"account_name" validate:"required"`
	Assertion     string `json:"assertion" validate:"required"`
	AccountType   string `json:"account_type" validate:"required"`
	InherentRisk  string `json:"inherent_risk" validate:"required"`
	ControlRisk   string `json:"control_risk" validate:"required"`
	FraudRiskFlag bool   `json:"fraud_risk_flag"`
}

// Domain parses the request into a domain assess request.
func (r AssessRequest) Domain() (risk.AssessRequest, error) {
	assertion, err := domain.ParseAssertion(r.Assertion)
	if err != nil {
		return risk.AssessRequest{}, err
	}
	accountType, err := domain.ParseAccountType(r.AccountType)
	if err != nil {
		return risk.AssessRequest{}, err
	}
	inherent, err := domain.ParseRiskLevel(r.InherentRisk)
	if err != nil {
		return risk.AssessRequest{}, err
	}
	control, err := domain.ParseRiskLevel(r.ControlRisk)
	if err != nil {
		return risk.AssessRequest{}, err
	}

	return risk.AssessRequest{
		Key: risk.Key{
			EngagementID: r.EngagementID,
			AccountName:  r.AccountName,
			Assertion:    assertion,
		},
		AccountType:   accountType,
		InherentRisk:  inherent,
		ControlRisk:   control,
		FraudRiskFlag: r.FraudRiskFlag,
	}, nil
}

// ReviseRequest is the HTTP request body for POST /risk/revise.
type ReviseRequest struct {
	EngagementID  string `json:"engagement_id" validate:"required"`
	AccountName   string `json:"account_name" validate:"required"`
	Assertion     string `json:"assertion" validate:"required"`
	InherentRisk  string `json:"inherent_risk" validate:"required"`
	ControlRisk   string `json:"control_risk" validate:"required"`
	FraudRiskFlag bool   `json:"fraud_risk_flag"`
}

// Domain parses the request into a domain revise request.
func (r ReviseRequest) Domain() (risk.ReviseRequest, error) {
	assertion, err := domain.ParseAssertion(r.Assertion)
	if err != nil {
		return risk.ReviseRequest{}, err
	}
	inherent, err := domain.ParseRiskLevel(r.InherentRisk)
	if err != nil {
		return risk.ReviseRequest{}, err
	}
	control, err := domain.ParseRiskLevel(r.ControlRisk)
	if err != nil {
		return risk.ReviseRequest{}, err
	}

	return risk.ReviseRequest{
		Key: risk.Key{
			EngagementID: r.EngagementID,
			AccountName:  r.AccountName,
			Assertion:    assertion,
		},
		InherentRisk:  inherent,
		ControlRisk:   control,
		FraudRiskFlag: r.FraudRiskFlag,
	}, nil
}

// FinalizeRequest is the HTTP request body for POST /risk/finalize.
type FinalizeRequest struct {
	EngagementID string `json:"engagement_id" validate:"required"`
	AccountName  string `json:"account_name" validate:"required"`
	Assertion    string `json:"assertion" validate:"required"`
}

// Key parses the request into a chain key.
func (r FinalizeRequest) Key() (risk.Key, error) {
	assertion, err := domain.ParseAssertion(r.Assertion)
	if err != nil {
		return risk.Key{}, err
	}
	return risk.Key{
		EngagementID: r.EngagementID,
		AccountName:  r.AccountName,
		Assertion:    assertion,
	}, nil
}

// FraudFactorsRequest is the HTTP request body for POST /risk/fraud-factors.
type FraudFactorsRequest struct {
	Industry            string   `json:"industry"`
	CurrentRatio        float64  `json:"current_ratio"`
	DebtToEquity        float64  `json:"debt_to_equity"`
	ReturnOnEquity      float64  `json:"return_on_equity"`
	RevenueGrowthYoY    float64  `json:"revenue_growth_yoy"`
	ManagementTurnover  bool     `json:"management_turnover"`
	UnusualTransactions []string `json:"unusual_transactions"`
	ComplexStructure    bool     `json:"complex_structure"`
}

// Domain converts the request into fraud rule inputs.
func (r FraudFactorsRequest) Domain() risk.FraudInputs {
	return risk.FraudInputs{
		Industry:            r.Industry,
		CurrentRatio:        r.CurrentRatio,
		DebtToEquity:        r.DebtToEquity,
		ReturnOnEquity:      r.ReturnOnEquity,
		RevenueGrowthYoY:    r.RevenueGrowthYoY,
		ManagementTurnover:  r.ManagementTurnover,
		UnusualTransactions: r.UnusualTransactions,
		ComplexStructure:    r.ComplexStructure,
	}
}
