// Package risk combines auditor risk judgments into a risk of material
// misstatement rating, maintains the append-only version history of each
// assessment, and identifies fraud risk factors from engagement signals.
package risk

import (
	"time"

	"github.com/google/uuid"

	"veritas/internal/domain"
)

// State tracks an assessment version through its lifecycle. Versions are
// append-only: fieldwork evidence produces a new version superseding the
// prior, which stays archived in the chain.
type State string

const (
	StateDraft     State = "draft"
	StateAssessed  State = "assessed"
	StateRevised   State = "revised"
	StateFinalized State = "finalized"
)

// Key identifies an assessment chain. One chain exists per
// (engagement, account, assertion).
type Key struct {
	EngagementID string
	AccountName  string
	Assertion    domain.Assertion
}

// Assessment is one version in a chain. Derived fields (RMM, detection
// risk, multiplier) come from the risk matrix, never from caller input.
type Assessment struct {
	VersionID   uuid.UUID
	Version     int
	Key         Key
	AccountType domain.AccountType

	InherentRisk domain.RiskLevel
	ControlRisk  domain.RiskLevel
	Combined     domain.CombinedRisk

	FraudRiskFlag bool
	State         State
	CreatedAt     time.Time
}

// FraudRiskFactor is one identified fraud condition. Factors are generated
// independently and never deduplicated automatically: two rules describing
// the same pressure are two data points for the engagement team.
type FraudRiskFactor struct {
	Category        domain.FraudCategory
	Description     string
	Likelihood      domain.RiskLevel
	Impact          domain.RiskLevel
	PlannedResponse string
}

// FraudInputs are the engagement signals the fraud rules inspect.
type FraudInputs struct {
	Industry            string
	CurrentRatio        float64
	DebtToEquity        float64
	ReturnOnEquity      float64
	RevenueGrowthYoY    float64
	ManagementTurnover  bool
	UnusualTransactions []string
	ComplexStructure    bool
}
