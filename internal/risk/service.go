package risk

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"veritas/internal/domain"
	"veritas/internal/reftables"
	"veritas/internal/risk/metrics"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/sentinel"
	"veritas/pkg/requestcontext"
)

// Service derives combined risk from the matrix and manages assessment
// version chains.
type Service struct {
	tables  *reftables.Tables
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewService constructs a risk service. The reference tables and store are
// required; logger and metrics are optional.
func NewService(tables *reftables.Tables, store Store, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if tables == nil {
		return nil, errors.New("reference tables are required")
	}
	if store == nil {
		return nil, errors.New("assessment store is required")
	}
	return &Service{tables: tables, store: store, logger: logger, metrics: m}, nil
}

// AssessCombinedRisk resolves an IR×CR pair against the risk matrix. A
// missing entry fails with an unsupported-combination error; the matrix
// never interpolates.
func (s *Service) AssessCombinedRisk(inherent, control domain.RiskLevel) (domain.CombinedRisk, error) {
	if !inherent.Valid() {
		return domain.CombinedRisk{}, dErrors.Newf(dErrors.CodeInvalidInput, "unknown inherent risk level %q", inherent)
	}
	if !control.Valid() {
		return domain.CombinedRisk{}, dErrors.Newf(dErrors.CodeInvalidInput, "unknown control risk level %q", control)
	}
	return s.tables.CombinedRisk(inherent, control)
}

// AssessRequest creates the first version of an assessment chain.
type AssessRequest struct {
	Key           Key
	AccountType   domain.AccountType
	InherentRisk  domain.RiskLevel
	ControlRisk   domain.RiskLevel
	FraudRiskFlag bool
}

// Assess creates version 1 of the (engagement, account, assertion) chain.
// Re-assessing an existing chain is a conflict; fieldwork updates go
// through Revise.
func (s *Service) Assess(ctx context.Context, req AssessRequest) (*Assessment, error) {
	combined, err := s.AssessCombinedRisk(req.InherentRisk, req.ControlRisk)
	if err != nil {
		return nil, err
	}
	if !req.AccountType.Valid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown account type %q", req.AccountType)
	}

	a := Assessment{
		VersionID:     uuid.New(),
		Version:       1,
		Key:           req.Key,
		AccountType:   req.AccountType,
		InherentRisk:  req.InherentRisk,
		ControlRisk:   req.ControlRisk,
		Combined:      combined,
		FraudRiskFlag: req.FraudRiskFlag,
		State:         StateAssessed,
		CreatedAt:     requestcontext.Now(ctx),
	}

	if err := s.store.Append(ctx, a); err != nil {
		return nil, s.translateStoreErr(err, "assessment already exists; revise instead")
	}

	s.metrics.IncrementAssessments(string(combined.RMM))
	if s.logger != nil {
		s.logger.InfoContext(ctx, "risk assessed",
			"engagement_id", req.Key.EngagementID,
			"account", req.Key.AccountName,
			"assertion", req.Key.Assertion,
			"rmm", combined.RMM,
			"multiplier", combined.SampleSizeMultiplier,
		)
	}
	return &a, nil
}

// ReviseRequest supersedes the current version with new risk judgments.
type ReviseRequest struct {
	Key           Key
	InherentRisk  domain.RiskLevel
	ControlRisk   domain.RiskLevel
	FraudRiskFlag bool
}

// Revise appends a new version superseding the prior one. The prior
// version stays archived in the chain; nothing is overwritten.
func (s *Service) Revise(ctx context.Context, req ReviseRequest) (*Assessment, error) {
	combined, err := s.AssessCombinedRisk(req.InherentRisk, req.ControlRisk)
	if err != nil {
		return nil, err
	}

	latest, err := s.store.Latest(ctx, req.Key)
	if err != nil {
		return nil, s.translateStoreErr(err, "assessment chain conflict")
	}

	a := Assessment{
		VersionID:     uuid.New(),
		Version:       latest.Version + 1,
		Key:           req.Key,
		AccountType:   latest.AccountType,
		InherentRisk:  req.InherentRisk,
		ControlRisk:   req.ControlRisk,
		Combined:      combined,
		FraudRiskFlag: req.FraudRiskFlag,
		State:         StateRevised,
		CreatedAt:     requestcontext.Now(ctx),
	}

	if err := s.store.Append(ctx, a); err != nil {
		return nil, s.translateStoreErr(err, "assessment chain conflict")
	}

	s.metrics.IncrementRevisions()
	if s.logger != nil {
		s.logger.InfoContext(ctx, "risk assessment revised",
			"engagement_id", req.Key.EngagementID,
			"account", req.Key.AccountName,
			"assertion", req.Key.Assertion,
			"version", a.Version,
			"rmm", combined.RMM,
		)
	}
	return &a, nil
}

// Finalize locks the chain at engagement close by appending a terminal
// version. Finalized chains reject any further revision.
func (s *Service) Finalize(ctx context.Context, key Key) (*Assessment, error) {
	latest, err := s.store.Latest(ctx, key)
	if err != nil {
		return nil, s.translateStoreErr(err, "assessment chain conflict")
	}

	a := latest
	a.VersionID = uuid.New()
	a.Version = latest.Version + 1
	a.State = StateFinalized
	a.CreatedAt = requestcontext.Now(ctx)

	if err := s.store.Append(ctx, a); err != nil {
		return nil, s.translateStoreErr(err, "assessment chain conflict")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "risk assessment finalized",
			"engagement_id", key.EngagementID,
			"account", key.AccountName,
			"assertion", key.Assertion,
			"version", a.Version,
		)
	}
	return &a, nil
}

// History returns the full version chain, oldest first.
func (s *Service) History(ctx context.Context, key Key) ([]Assessment, error) {
	chain, err := s.store.History(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "assessment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load assessment history")
	}
	return chain, nil
}

// IdentifyFraudRiskFactors runs the fraud rules and records metrics.
func (s *Service) IdentifyFraudRiskFactors(ctx context.Context, in FraudInputs) []FraudRiskFactor {
	factors := IdentifyFraudRiskFactors(in)
	for _, f := range factors {
		s.metrics.IncrementFraudFactors(string(f.Category))
	}
	if s.logger != nil && len(factors) > 0 {
		s.logger.InfoContext(ctx, "fraud risk factors identified",
			"industry", in.Industry,
			"count", len(factors),
		)
	}
	return factors
}

func (s *Service) translateStoreErr(err error, conflictMsg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "assessment not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, conflictMsg)
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeInvariantViolation, "assessment chain is finalized")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "assessment store failure")
	}
}
