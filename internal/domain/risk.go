// Package domain holds the shared vocabulary of the audit decision engine:
// risk levels, account types, assertions, sampling methods, and the other
// enums every component agrees on. Keeping them here avoids import cycles
// between the engine packages.
package domain

import (
	dErrors "veritas/pkg/domain-errors"
)

// RiskLevel grades inherent risk, control risk, the combined risk of
// material misstatement, and detection risk.
type RiskLevel string

const (
	RiskLow         RiskLevel = "low"
	RiskModerate    RiskLevel = "moderate"
	RiskHigh        RiskLevel = "high"
	RiskSignificant RiskLevel = "significant"
)

// RiskLevels lists all levels in ascending severity order.
var RiskLevels = []RiskLevel{RiskLow, RiskModerate, RiskHigh, RiskSignificant}

var riskRank = map[RiskLevel]int{
	RiskLow:         1,
	RiskModerate:    2,
	RiskHigh:        3,
	RiskSignificant: 4,
}

// Rank returns the severity rank (1..4). Zero means unknown level.
func (r RiskLevel) Rank() int {
	return riskRank[r]
}

// Valid reports whether r is a known risk level.
func (r RiskLevel) Valid() bool {
	return r.Rank() != 0
}

// AtLeast reports whether r is as severe as other or more.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return r.Rank() >= other.Rank()
}

// ParseRiskLevel converts a wire value into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	r := RiskLevel(s)
	if !r.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown risk level %q", s)
	}
	return r, nil
}
