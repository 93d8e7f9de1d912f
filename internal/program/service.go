package program

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"veritas/internal/domain"
	"veritas/internal/program/metrics"
	"veritas/internal/reftables"
	dErrors "veritas/pkg/domain-errors"
	pStrings "veritas/pkg/platform/strings"
)

// Service generates audit programs from the procedure catalog.
type Service struct {
	tables  *reftables.Tables
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService constructs an audit program service. Reference tables are required.
func NewService(tables *reftables.Tables, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if tables == nil {
		return nil, errors.New("reference tables are required")
	}
	return &Service{tables: tables, logger: logger, metrics: m}, nil
}

// Generate builds the audit procedures for one account/assertion at the
// assessed risk level. Extent and timing follow the risk level; a material
// balance at significant risk forces full-population, year-end testing.
func (s *Service) Generate(ctx context.Context, accountType domain.AccountType, assertion domain.Assertion, riskLevel domain.RiskLevel, balance, materiality decimal.Decimal) ([]AuditProcedure, error) {
	if !accountType.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown account type %q", accountType)
	}
	if !assertion.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown assertion %q", assertion)
	}
	if !riskLevel.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown risk level %q", riskLevel)
	}

	templates, ok := s.tables.ProcedureTemplates(accountType, assertion)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput,
			"no procedures cataloged for %s/%s", accountType, assertion)
	}
	templates = pStrings.DedupeAndTrim(templates)

	extent := extentFor(riskLevel, balance, materiality)
	timing := timingFor(riskLevel)

	procedures := make([]AuditProcedure, 0, len(templates))
	for _, description := range templates {
		procedures = append(procedures, AuditProcedure{
			AccountType: accountType,
			Assertion:   assertion,
			RiskLevel:   riskLevel,
			Description: description,
			Extent:      extent,
			Timing:      timing,
		})
	}

	s.metrics.IncrementProcedures(string(riskLevel), len(procedures))
	if s.logger != nil {
		s.logger.InfoContext(ctx, "audit program generated",
			"account_type", accountType,
			"assertion", assertion,
			"risk_level", riskLevel,
			"procedures", len(procedures),
			"timing", timing,
		)
	}
	return procedures, nil
}
