package domain

import (
	dErrors "veritas/pkg/domain-errors"
)

// SamplingMethod identifies the statistical technique behind a plan.
type SamplingMethod string

const (
	MethodMUS       SamplingMethod = "monetary_unit"
	MethodClassical SamplingMethod = "classical_variables"
	MethodAttribute SamplingMethod = "attribute"
)

func (m SamplingMethod) Valid() bool {
	switch m {
	case MethodMUS, MethodClassical, MethodAttribute:
		return true
	}
	return false
}

// ParseSamplingMethod converts a wire value into a SamplingMethod.
func ParseSamplingMethod(s string) (SamplingMethod, error) {
	m := SamplingMethod(s)
	if !m.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown sampling method %q", s)
	}
	return m, nil
}

// TestObjective drives sampling method selection.
type TestObjective string

const (
	ObjectiveControlTesting            TestObjective = "control_testing"
	ObjectiveSubstantiveOverstatement  TestObjective = "substantive_overstatement"
	ObjectiveSubstantiveUnderstatement TestObjective = "substantive_understatement"
)

func (o TestObjective) Valid() bool {
	switch o {
	case ObjectiveControlTesting, ObjectiveSubstantiveOverstatement, ObjectiveSubstantiveUnderstatement:
		return true
	}
	return false
}

// ParseTestObjective converts a wire value into a TestObjective.
func ParseTestObjective(s string) (TestObjective, error) {
	o := TestObjective(s)
	if !o.Valid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown test objective %q", s)
	}
	return o, nil
}

// SubstantiveConclusion is the verdict of a substantive sample evaluation.
type SubstantiveConclusion string

const (
	ConclusionAccept SubstantiveConclusion = "accept"
	ConclusionReject SubstantiveConclusion = "reject"
)

// ControlConclusion is the verdict of an attribute (control) evaluation.
type ControlConclusion string

const (
	ConclusionRely      ControlConclusion = "rely"
	ConclusionDoNotRely ControlConclusion = "do_not_rely"
)

// FraudCategory buckets fraud risk factors by the fraud triangle.
type FraudCategory string

const (
	FraudIncentive       FraudCategory = "incentive"
	FraudOpportunity     FraudCategory = "opportunity"
	FraudRationalization FraudCategory = "rationalization"
)
