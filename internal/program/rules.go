package program

import (
	"github.com/shopspring/decimal"

	"veritas/internal/domain"
)

// AuditProcedure is one generated line of an audit program. The list is
// read-only for downstream consumers.
type AuditProcedure struct {
	AccountType domain.AccountType `json:"account_type"`
	Assertion   domain.Assertion   `json:"assertion"`
	RiskLevel   domain.RiskLevel   `json:"risk_level"`
	Description string             `json:"description"`
	Extent      string             `json:"extent"`
	Timing      domain.Timing      `json:"timing"`
}

// extentByRisk holds the testing extent band for each risk level.
var extentByRisk = map[domain.RiskLevel]string{
	domain.RiskLow:         "10-15 items or 25% of population",
	domain.RiskModerate:    "20-30 items or 50% of population",
	domain.RiskHigh:        "40-60 items or 75% of population",
	domain.RiskSignificant: "60+ items",
}

const extentFullPopulation = "100% of population"

// extentFor widens significant-risk testing to the full population when the
// balance itself is material.
func extentFor(riskLevel domain.RiskLevel, balance, materiality decimal.Decimal) string {
	if riskLevel == domain.RiskSignificant && balance.GreaterThan(materiality) {
		return extentFullPopulation
	}
	return extentByRisk[riskLevel]
}

// timingFor defers high and significant risk procedures to year end; lower
// risk work may be performed at an interim date.
func timingFor(riskLevel domain.RiskLevel) domain.Timing {
	if riskLevel.AtLeast(domain.RiskHigh) {
		return domain.TimingYearEnd
	}
	return domain.TimingInterim
}
