package domain

import (
	dErrors "veritas/pkg/domain-errors"
)

// EntityType distinguishes reporting entities for materiality purposes.
// Private entities get a 20% haircut on the selected benchmark.
type EntityType string

const (
	EntityPublic     EntityType = "public"
	EntityPrivate    EntityType = "private"
	EntityNonprofit  EntityType = "nonprofit"
	EntityGovernment EntityType = "government"
)

func (e EntityType) Valid() bool {
	switch e {
	case EntityPublic, EntityPrivate, EntityNonprofit, EntityGovernment:
		return true
	}
	return false
}

// ParseEntityType converts a wire value into an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	e := EntityType(s)
	if !e.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown entity type %q", s)
	}
	return e, nil
}

// AccountType identifies a financial statement caption for risk assessment
// and procedure generation.
type AccountType string

const (
	AccountCash        AccountType = "cash"
	AccountReceivables AccountType = "receivables"
	AccountInventory   AccountType = "inventory"
	AccountFixedAssets AccountType = "fixed_assets"
	AccountInvestments AccountType = "investments"
	AccountIntangibles AccountType = "intangibles"
	AccountPayables    AccountType = "payables"
	AccountRevenue     AccountType = "revenue"
	AccountExpenses    AccountType = "expenses"
	AccountEquity      AccountType = "equity"
)

func (a AccountType) Valid() bool {
	switch a {
	case AccountCash, AccountReceivables, AccountInventory, AccountFixedAssets,
		AccountInvestments, AccountIntangibles, AccountPayables, AccountRevenue,
		AccountExpenses, AccountEquity:
		return true
	}
	return false
}

// ParseAccountType converts a wire value into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	a := AccountType(s)
	if !a.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown account type %q", s)
	}
	return a, nil
}

// Assertion is the management assertion a procedure or risk assessment
// addresses. One RiskAssessment exists per (account, assertion).
type Assertion string

const (
	AssertionExistence         Assertion = "existence"
	AssertionCompleteness      Assertion = "completeness"
	AssertionAccuracy          Assertion = "accuracy"
	AssertionValuation         Assertion = "valuation"
	AssertionCutoff            Assertion = "cutoff"
	AssertionClassification    Assertion = "classification"
	AssertionRightsObligations Assertion = "rights_and_obligations"
	AssertionOccurrence        Assertion = "occurrence"
	AssertionPresentation      Assertion = "presentation"
)

func (a Assertion) Valid() bool {
	switch a {
	case AssertionExistence, AssertionCompleteness, AssertionAccuracy,
		AssertionValuation, AssertionCutoff, AssertionClassification,
		AssertionRightsObligations, AssertionOccurrence, AssertionPresentation:
		return true
	}
	return false
}

// ParseAssertion converts a wire value into an Assertion.
func ParseAssertion(s string) (Assertion, error) {
	a := Assertion(s)
	if !a.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown assertion %q", s)
	}
	return a, nil
}

// Timing states when a procedure is performed.
type Timing string

const (
	TimingInterim Timing = "interim"
	TimingYearEnd Timing = "year_end"
)
