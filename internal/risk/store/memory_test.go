package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"veritas/internal/domain"
	"veritas/internal/risk"
	"veritas/pkg/platform/sentinel"
)

// StoreSuite provides shared test setup for the in-memory assessment store.
type StoreSuite struct {
	suite.Suite
	store *InMemoryAssessmentStore
	ctx   context.Context
	key   risk.Key
}

func (s *StoreSuite) SetupTest() {
	s.store = NewInMemoryAssessmentStore()
	s.ctx = context.Background()
	s.key = risk.Key{
		EngagementID: "ENG-1",
		AccountName:  "Inventory",
		Assertion:    domain.AssertionValuation,
	}
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) version(n int, state risk.State) risk.Assessment {
	return risk.Assessment{
		Version:      n,
		Key:          s.key,
		AccountType:  domain.AccountInventory,
		InherentRisk: domain.RiskModerate,
		ControlRisk:  domain.RiskModerate,
		State:        state,
	}
}

// =============================================================================
// Append semantics
// =============================================================================

func (s *StoreSuite) TestAppend_SequentialVersions() {
	require.NoError(s.T(), s.store.Append(s.ctx, s.version(1, risk.StateAssessed)))
	require.NoError(s.T(), s.store.Append(s.ctx, s.version(2, risk.StateRevised)))

	latest, err := s.store.Latest(s.ctx, s.key)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, latest.Version)
}

func (s *StoreSuite) TestAppend_VersionGapConflicts() {
	require.NoError(s.T(), s.store.Append(s.ctx, s.version(1, risk.StateAssessed)))

	err := s.store.Append(s.ctx, s.version(3, risk.StateRevised))
	assert.ErrorIs(s.T(), err, sentinel.ErrConflict)
}

func (s *StoreSuite) TestAppend_StaleVersionConflicts() {
	require.NoError(s.T(), s.store.Append(s.ctx, s.version(1, risk.StateAssessed)))

	err := s.store.Append(s.ctx, s.version(1, risk.StateRevised))
	assert.ErrorIs(s.T(), err, sentinel.ErrConflict)
}

func (s *StoreSuite) TestAppend_FinalizedChainRejectsAll() {
	require.NoError(s.T(), s.store.Append(s.ctx, s.version(1, risk.StateAssessed)))
	require.NoError(s.T(), s.store.Append(s.ctx, s.version(2, risk.StateFinalized)))

	err := s.store.Append(s.ctx, s.version(3, risk.StateRevised))
	assert.ErrorIs(s.T(), err, sentinel.ErrInvalidState)
}

// =============================================================================
// Reads
// =============================================================================

func (s *StoreSuite) TestLatest_UnknownKey() {
	_, err := s.store.Latest(s.ctx, s.key)
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *StoreSuite) TestHistory_ReturnsCopy() {
	require.NoError(s.T(), s.store.Append(s.ctx, s.version(1, risk.StateAssessed)))

	history, err := s.store.History(s.ctx, s.key)
	require.NoError(s.T(), err)
	history[0].Version = 99

	fresh, err := s.store.History(s.ctx, s.key)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, fresh[0].Version, "mutating the returned slice must not affect the store")
}

// =============================================================================
// Concurrency
// =============================================================================

func (s *StoreSuite) TestAppend_ConcurrentSameVersion() {
	require.NoError(s.T(), s.store.Append(s.ctx, s.version(1, risk.StateAssessed)))

	const writers = 16
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.store.Append(s.ctx, s.version(2, risk.StateRevised))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(s.T(), err, sentinel.ErrConflict)
		}
	}
	assert.Equal(s.T(), 1, succeeded, "exactly one optimistic append may win")
}
