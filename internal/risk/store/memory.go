// Package store provides the in-memory assessment store. It keeps the
// engine free of persistence concerns (the calling layer owns durable
// storage) while preserving the append-only version semantics services
// rely on.
package store

import (
	"context"
	"sync"

	"veritas/internal/risk"
	"veritas/pkg/platform/sentinel"
)

// InMemoryAssessmentStore keeps one append-only version chain per
// (engagement, account, assertion) key. Appends use optimistic version
// checks, so concurrent revisions of the same key serialize safely without
// a global lock.
type InMemoryAssessmentStore struct {
	mu     sync.RWMutex
	chains map[risk.Key][]risk.Assessment
}

// NewInMemoryAssessmentStore constructs an empty store.
func NewInMemoryAssessmentStore() *InMemoryAssessmentStore {
	return &InMemoryAssessmentStore{chains: make(map[risk.Key][]risk.Assessment)}
}

// Append adds a new version to the chain. The assessment's Version must be
// exactly one past the current chain head (optimistic concurrency), and
// finalized chains reject all further appends.
func (s *InMemoryAssessmentStore) Append(_ context.Context, a risk.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain := s.chains[a.Key]
	if len(chain) > 0 && chain[len(chain)-1].State == risk.StateFinalized {
		return sentinel.ErrInvalidState
	}
	if a.Version != len(chain)+1 {
		return sentinel.ErrConflict
	}
	s.chains[a.Key] = append(chain, a)
	return nil
}

// Latest returns the newest version of a chain.
func (s *InMemoryAssessmentStore) Latest(_ context.Context, key risk.Key) (risk.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := s.chains[key]
	if len(chain) == 0 {
		return risk.Assessment{}, sentinel.ErrNotFound
	}
	return chain[len(chain)-1], nil
}

// History returns the full version chain, oldest first. The slice is a
// copy; callers cannot mutate stored versions.
func (s *InMemoryAssessmentStore) History(_ context.Context, key risk.Key) ([]risk.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := s.chains[key]
	if len(chain) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return append([]risk.Assessment{}, chain...), nil
}
