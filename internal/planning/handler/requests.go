package handler

import (
	"github.com/shopspring/decimal"

	"veritas/internal/domain"
	"veritas/internal/materiality"
	"veritas/internal/planning"
	"veritas/internal/risk"
	dErrors "veritas/pkg/domain-errors"
)

// PlanRequest is the HTTP request body for POST /planning/plan.
type PlanRequest struct {
	EngagementID string             `json:"engagement_id" validate:"required"`
	Benchmarks   BenchmarksRequest  `json:"benchmarks" validate:"required"`
	FraudInputs  FraudInputsRequest `json:"fraud_inputs"`
	Accounts     []AccountRequest   `json:"accounts" validate:"required,min=1,dive"`
}

// BenchmarksRequest carries the financial statement benchmarks. Monetary
// amounts travel as strings to preserve exact decimal values.
type BenchmarksRequest struct {
	TotalAssets    string `json:"total_assets" validate:"required"`
	TotalRevenue   string `json:"total_revenue" validate:"required"`
	PretaxIncome   string `json:"pretax_income" validate:"required"`
	TotalEquity    string `json:"total_equity" validate:"required"`
	EntityType     string `json:"entity_type" validate:"required"`
	IncomeIsStable bool   `json:"income_is_stable"`
}

// FraudInputsRequest carries the engagement fraud signals.
type FraudInputsRequest struct {
	Industry            string   `json:"industry"`
	CurrentRatio        float64  `json:"current_ratio"`
	DebtToEquity        float64  `json:"debt_to_equity"`
	ReturnOnEquity      float64  `json:"return_on_equity"`
	RevenueGrowthYoY    float64  `json:"revenue_growth_yoy"`
	ManagementTurnover  bool     `json:"management_turnover"`
	UnusualTransactions []string `json:"unusual_transactions"`
	ComplexStructure    bool     `json:"complex_structure"`
}

// AccountRequest is one account planning context.
type AccountRequest struct {
	Name         string `json:"name" validate:"required"`
	AccountType  string `json:"account_type" validate:"required"`
	Assertion    string `json:"assertion" validate:"required"`
	InherentRisk string `json:"inherent_risk" validate:"required"`
	ControlRisk  string `json:"control_risk" validate:"required"`
	Balance      string `json:"balance" validate:"required"`
}

// Domain parses the request into a planning request.
func (r PlanRequest) Domain() (planning.PlanRequest, error) {
	entityType, err := domain.ParseEntityType(r.Benchmarks.EntityType)
	if err != nil {
		return planning.PlanRequest{}, err
	}

	parse := func(name, value string) (decimal.Decimal, error) {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Decimal{}, dErrors.Newf(dErrors.CodeValidation, "%s is not a valid decimal amount", name)
		}
		return d, nil
	}

	assets, err := parse("benchmarks.total_assets", r.Benchmarks.TotalAssets)
	if err != nil {
		return planning.PlanRequest{}, err
	}
	revenue, err := parse("benchmarks.total_revenue", r.Benchmarks.TotalRevenue)
	if err != nil {
		return planning.PlanRequest{}, err
	}
	income, err := parse("benchmarks.pretax_income", r.Benchmarks.PretaxIncome)
	if err != nil {
		return planning.PlanRequest{}, err
	}
	equity, err := parse("benchmarks.total_equity", r.Benchmarks.TotalEquity)
	if err != nil {
		return planning.PlanRequest{}, err
	}

	accounts := make([]planning.AccountInput, 0, len(r.Accounts))
	for _, a := range r.Accounts {
		accountType, err := domain.ParseAccountType(a.AccountType)
		if err != nil {
			return planning.PlanRequest{}, err
		}
		assertion, err := domain.ParseAssertion(a.Assertion)
		if err != nil {
			return planning.PlanRequest{}, err
		}
		inherent, err := domain.ParseRiskLevel(a.InherentRisk)
		if err != nil {
			return planning.PlanRequest{}, err
		}
		control, err := domain.ParseRiskLevel(a.ControlRisk)
		if err != nil {
			return planning.PlanRequest{}, err
		}
		balance, err := parse("accounts.balance", a.Balance)
		if err != nil {
			return planning.PlanRequest{}, err
		}

		accounts = append(accounts, planning.AccountInput{
			Name:         a.Name,
			AccountType:  accountType,
			Assertion:    assertion,
			InherentRisk: inherent,
			ControlRisk:  control,
			Balance:      balance,
		})
	}

	return planning.PlanRequest{
		EngagementID: r.EngagementID,
		Benchmarks: materiality.Benchmarks{
			TotalAssets:    assets,
			TotalRevenue:   revenue,
			PretaxIncome:   income,
			TotalEquity:    equity,
			EntityType:     entityType,
			IncomeIsStable: r.Benchmarks.IncomeIsStable,
		},
		FraudInputs: risk.FraudInputs{
			Industry:            r.FraudInputs.Industry,
			CurrentRatio:        r.FraudInputs.CurrentRatio,
			DebtToEquity:        r.FraudInputs.DebtToEquity,
			ReturnOnEquity:      r.FraudInputs.ReturnOnEquity,
			RevenueGrowthYoY:    r.FraudInputs.RevenueGrowthYoY,
			ManagementTurnover:  r.FraudInputs.ManagementTurnover,
			UnusualTransactions: r.FraudInputs.UnusualTransactions,
			ComplexStructure:    r.FraudInputs.ComplexStructure,
		},
		Accounts: accounts,
	}, nil
}
