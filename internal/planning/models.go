package planning

import (
	"github.com/shopspring/decimal"

	"veritas/internal/domain"
	"veritas/internal/materiality"
	"veritas/internal/program"
	"veritas/internal/risk"
)

// PlanRequest is one engagement snapshot to plan against.
type PlanRequest struct {
	EngagementID string
	Benchmarks   materiality.Benchmarks
	FraudInputs  risk.FraudInputs
	Accounts     []AccountInput
}

// AccountInput is one (account, assertion) planning context with the
// auditor's risk judgments and the recorded balance.
type AccountInput struct {
	Name         string
	AccountType  domain.AccountType
	Assertion    domain.Assertion
	InherentRisk domain.RiskLevel
	ControlRisk  domain.RiskLevel
	Balance      decimal.Decimal
}

// AccountPlan is the planning outcome for one account input.
type AccountPlan struct {
	Name         string
	AccountType  domain.AccountType
	Assertion    domain.Assertion
	InherentRisk domain.RiskLevel
	ControlRisk  domain.RiskLevel
	Combined     domain.CombinedRisk
	Procedures   []program.AuditProcedure
}

// PlanSummary is the full planning result for an engagement snapshot.
type PlanSummary struct {
	EngagementID     string
	Materiality      materiality.Result
	FraudRiskFactors []risk.FraudRiskFactor
	Accounts         []AccountPlan
}
