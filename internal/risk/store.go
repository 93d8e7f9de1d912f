package risk

import "context"

// Store persists assessment version chains. Implementations must enforce
// optimistic concurrency: Append fails with sentinel.ErrConflict when the
// version does not extend the chain, and sentinel.ErrInvalidState when the
// chain is finalized. Swap with concrete storage without touching the
// service.
type Store interface {
	Append(ctx context.Context, a Assessment) error
	Latest(ctx context.Context, key Key) (Assessment, error)
	History(ctx context.Context, key Key) ([]Assessment, error)
}
