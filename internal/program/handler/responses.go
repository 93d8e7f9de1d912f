package handler

import (
	"veritas/internal/program"
)

// ProcedureResponse is one generated audit procedure.
type ProcedureResponse struct {
	AccountType string `json:"account_type"`
	Assertion   string `json:"assertion"`
	RiskLevel   string `json:"risk_level"`
	Description string `json:"description"`
	Extent      string `json:"extent"`
	Timing      string `json:"timing"`
}

// GenerateResponse is the HTTP response for POST /program/generate.
type GenerateResponse struct {
	Procedures []ProcedureResponse `json:"procedures"`
}

// FromProcedures converts generated procedures to an HTTP response.
func FromProcedures(procedures []program.AuditProcedure) *GenerateResponse {
	out := make([]ProcedureResponse, 0, len(procedures))
	for _, p := range procedures {
		out = append(out, ProcedureResponse{
			AccountType: string(p.AccountType),
			Assertion:   string(p.Assertion),
			RiskLevel:   string(p.RiskLevel),
			Description: p.Description,
			Extent:      p.Extent,
			Timing:      string(p.Timing),
		})
	}
	return &GenerateResponse{Procedures: out}
}
