package handler

import (
	"github.com/shopspring/decimal"

	dErrors "veritas/pkg/domain-errors"
)

// GenerateRequest is the HTTP request body for POST /program/generate.
// Monetary amounts travel as strings to preserve exact decimal values.
type GenerateRequest struct {
	AccountType string `json:"account_type" validate:"required"`
	Assertion   string `json:"assertion" validate:"required"`
	RiskLevel   string `json:"risk_level" validate:"required"`
	Balance     string `json:"balance" validate:"required"`
	Materiality string `json:"materiality" validate:"required"`
}

func parseAmount(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, dErrors.Newf(dErrors.CodeValidation, "%s is not a valid decimal amount", name)
	}
	return d, nil
}
