package handler

import (
	"github.com/shopspring/decimal"

	"veritas/internal/domain"
	"veritas/internal/materiality"
	dErrors "veritas/pkg/domain-errors"
)

// CalculateRequest is the HTTP request body for POST /materiality/calculate.
// Monetary amounts travel as strings to preserve exact decimal values.
type CalculateRequest struct {
	TotalAssets    string `json:"total_assets" validate:"required"`
	TotalRevenue   string `json:"total_revenue" validate:"required"`
	PretaxIncome   string `json:"pretax_income" validate:"required"`
	TotalEquity    string `json:"total_equity" validate:"required"`
	EntityType     string `json:"entity_type" validate:"required"`
	IncomeIsStable bool   `json:"income_is_stable"`
}

// Benchmarks parses the request into domain benchmarks.
func (r CalculateRequest) Benchmarks() (materiality.Benchmarks, error) {
	entityType, err := domain.ParseEntityType(r.EntityType)
	if err != nil {
		return materiality.Benchmarks{}, err
	}

	amounts := make([]decimal.Decimal, 4)
	for i, field := range []struct {
		name  string
		value string
	}{
		{"total_assets", r.TotalAssets},
		{"total_revenue", r.TotalRevenue},
		{"pretax_income", r.PretaxIncome},
		{"total_equity", r.TotalEquity},
	} {
		d, err := decimal.NewFromString(field.value)
		if err != nil {
			return materiality.Benchmarks{}, dErrors.Newf(dErrors.CodeValidation, "%s is not a valid decimal amount", field.name)
		}
		amounts[i] = d
	}

	return materiality.Benchmarks{
		TotalAssets:    amounts[0],
		TotalRevenue:   amounts[1],
		PretaxIncome:   amounts[2],
		TotalEquity:    amounts[3],
		EntityType:     entityType,
		IncomeIsStable: r.IncomeIsStable,
	}, nil
}
