package risk

import (
	"fmt"

	"veritas/internal/domain"
)

// IdentifyFraudRiskFactors applies the fraud-triangle rules to engagement
// signals. This is pure domain logic - no I/O, no side effects. Each rule
// fires independently; any subset may co-occur, and nothing deduplicates
// the output.
func IdentifyFraudRiskFactors(in FraudInputs) []FraudRiskFactor {
	var factors []FraudRiskFactor

	// Liquidity pressure: working capital below water incentivizes
	// overstating current assets.
	if in.CurrentRatio > 0 && in.CurrentRatio < 1.0 {
		factors = append(factors, FraudRiskFactor{
			Category:        domain.FraudIncentive,
			Description:     fmt.Sprintf("current ratio of %.2f indicates liquidity pressure", in.CurrentRatio),
			Likelihood:      domain.RiskHigh,
			Impact:          domain.RiskHigh,
			PlannedResponse: "extend substantive testing of current asset valuation and classification",
		})
	}

	// Covenant pressure: high leverage incentivizes misstating the ratios
	// lenders monitor.
	if in.DebtToEquity > 2.0 {
		factors = append(factors, FraudRiskFactor{
			Category:        domain.FraudIncentive,
			Description:     fmt.Sprintf("debt-to-equity of %.2f suggests covenant compliance pressure", in.DebtToEquity),
			Likelihood:      domain.RiskModerate,
			Impact:          domain.RiskHigh,
			PlannedResponse: "recompute covenant ratios and review debt agreement disclosures",
		})
	}

	// Negative returns pressure management to show a turnaround.
	if in.ReturnOnEquity < 0 {
		factors = append(factors, FraudRiskFactor{
			Category:        domain.FraudIncentive,
			Description:     fmt.Sprintf("negative return on equity (%.2f) pressures reported performance", in.ReturnOnEquity),
			Likelihood:      domain.RiskModerate,
			Impact:          domain.RiskModerate,
			PlannedResponse: "apply heightened skepticism to estimates affecting reported earnings",
		})
	}

	// Abnormal growth raises the bar the next period has to clear.
	if in.RevenueGrowthYoY > 0.5 {
		factors = append(factors, FraudRiskFactor{
			Category:        domain.FraudIncentive,
			Description:     fmt.Sprintf("year-over-year revenue growth of %.0f%% is inconsistent with industry norms", in.RevenueGrowthYoY*100),
			Likelihood:      domain.RiskModerate,
			Impact:          domain.RiskHigh,
			PlannedResponse: "perform detailed revenue cutoff and side-agreement procedures",
		})
	}

	// Turnover in key positions weakens the control environment.
	if in.ManagementTurnover {
		factors = append(factors, FraudRiskFactor{
			Category:        domain.FraudOpportunity,
			Description:     "recent turnover in key management positions weakens oversight",
			Likelihood:      domain.RiskModerate,
			Impact:          domain.RiskModerate,
			PlannedResponse: "evaluate the control environment and interview incoming management",
		})
	}

	// Large one-off transactions create both the opening and the story.
	for _, tx := range in.UnusualTransactions {
		factors = append(factors,
			FraudRiskFactor{
				Category:        domain.FraudOpportunity,
				Description:     fmt.Sprintf("unusual transaction outside the normal course of business: %s", tx),
				Likelihood:      domain.RiskHigh,
				Impact:          domain.RiskHigh,
				PlannedResponse: "examine the business rationale, approval, and accounting for the transaction",
			},
			FraudRiskFactor{
				Category:        domain.FraudRationalization,
				Description:     fmt.Sprintf("one-off transaction may be rationalized as exceptional: %s", tx),
				Likelihood:      domain.RiskModerate,
				Impact:          domain.RiskHigh,
				PlannedResponse: "corroborate management's stated rationale with external evidence",
			},
		)
	}

	// Complex structures obscure the substance of arrangements.
	if in.ComplexStructure {
		factors = append(factors, FraudRiskFactor{
			Category:        domain.FraudOpportunity,
			Description:     "complex organizational or transaction structure obscures substance",
			Likelihood:      domain.RiskModerate,
			Impact:          domain.RiskHigh,
			PlannedResponse: "map the structure and test intercompany eliminations and related parties",
		})
	}

	return factors
}
