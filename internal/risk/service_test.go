package risk_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"veritas/internal/domain"
	"veritas/internal/reftables"
	"veritas/internal/risk"
	"veritas/internal/risk/store"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/requestcontext"
)

// ServiceSuite provides shared test setup for risk service tests. It uses
// the real embedded tables and the real in-memory store.
type ServiceSuite struct {
	suite.Suite
	service *risk.Service
	ctx     context.Context
	key     risk.Key
}

func (s *ServiceSuite) SetupTest() {
	tables, err := reftables.Load()
	require.NoError(s.T(), err)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.service, err = risk.NewService(tables, store.NewInMemoryAssessmentStore(), logger, nil)
	require.NoError(s.T(), err)

	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))
	s.key = risk.Key{
		EngagementID: "ENG-2026-001",
		AccountName:  "Trade receivables",
		Assertion:    domain.AssertionExistence,
	}
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) assess() *risk.Assessment {
	a, err := s.service.Assess(s.ctx, risk.AssessRequest{
		Key:          s.key,
		AccountType:  domain.AccountReceivables,
		InherentRisk: domain.RiskHigh,
		ControlRisk:  domain.RiskModerate,
	})
	require.NoError(s.T(), err)
	return a
}

// =============================================================================
// Combined risk resolution
// =============================================================================

func (s *ServiceSuite) TestAssessCombinedRisk_MatrixLookup() {
	combined, err := s.service.AssessCombinedRisk(domain.RiskHigh, domain.RiskModerate)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), domain.RiskHigh, combined.RMM)
	assert.Equal(s.T(), domain.RiskLow, combined.DetectionRisk)
	assert.InDelta(s.T(), 1.20, combined.SampleSizeMultiplier, 1e-9)
}

func (s *ServiceSuite) TestAssessCombinedRisk_UnknownLevel() {
	_, err := s.service.AssessCombinedRisk(domain.RiskLevel("extreme"), domain.RiskLow)
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

// =============================================================================
// Assessment lifecycle
// =============================================================================

func (s *ServiceSuite) TestAssess_CreatesVersionOne() {
	a := s.assess()

	assert.Equal(s.T(), 1, a.Version)
	assert.Equal(s.T(), risk.StateAssessed, a.State)
	assert.Equal(s.T(), domain.RiskHigh, a.Combined.RMM)
	assert.NotEqual(s.T(), a.VersionID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(s.T(), time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), a.CreatedAt)
}

func (s *ServiceSuite) TestAssess_DuplicateChainConflicts() {
	s.assess()

	_, err := s.service.Assess(s.ctx, risk.AssessRequest{
		Key:          s.key,
		AccountType:  domain.AccountReceivables,
		InherentRisk: domain.RiskLow,
		ControlRisk:  domain.RiskLow,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestRevise_AppendsSupersedingVersion() {
	s.assess()

	revised, err := s.service.Revise(s.ctx, risk.ReviseRequest{
		Key:          s.key,
		InherentRisk: domain.RiskSignificant,
		ControlRisk:  domain.RiskHigh,
	})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 2, revised.Version)
	assert.Equal(s.T(), risk.StateRevised, revised.State)
	assert.Equal(s.T(), domain.RiskSignificant, revised.Combined.RMM)
	// Account type carries over from the assessed version.
	assert.Equal(s.T(), domain.AccountReceivables, revised.AccountType)

	history, err := s.service.History(s.ctx, s.key)
	require.NoError(s.T(), err)
	require.Len(s.T(), history, 2)
	assert.Equal(s.T(), risk.StateAssessed, history[0].State, "prior version stays archived")
}

func (s *ServiceSuite) TestRevise_UnknownChain() {
	_, err := s.service.Revise(s.ctx, risk.ReviseRequest{
		Key:          s.key,
		InherentRisk: domain.RiskLow,
		ControlRisk:  domain.RiskLow,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestFinalize_LocksChain() {
	s.assess()

	final, err := s.service.Finalize(s.ctx, s.key)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, final.Version)
	assert.Equal(s.T(), risk.StateFinalized, final.State)

	_, err = s.service.Revise(s.ctx, risk.ReviseRequest{
		Key:          s.key,
		InherentRisk: domain.RiskLow,
		ControlRisk:  domain.RiskLow,
	})
	require.Error(s.T(), err)
	assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *ServiceSuite) TestHistory_OldestFirst() {
	s.assess()
	_, err := s.service.Revise(s.ctx, risk.ReviseRequest{
		Key:          s.key,
		InherentRisk: domain.RiskModerate,
		ControlRisk:  domain.RiskModerate,
	})
	require.NoError(s.T(), err)

	history, err := s.service.History(s.ctx, s.key)
	require.NoError(s.T(), err)
	require.Len(s.T(), history, 2)
	assert.Equal(s.T(), 1, history[0].Version)
	assert.Equal(s.T(), 2, history[1].Version)
}
