package cache

import "context"

// UnreadCache caches per-user unread notification counts for the polling
// badge endpoint. All methods are best-effort: callers fall back to the
// store when the cache errors.
type UnreadCache interface {
	// Get returns the cached count and whether the key was present.
	Get(ctx context.Context, userID string) (int64, bool, error)
	Set(ctx context.Context, userID string, count int64) error
	// Invalidate drops the cached count after any write that changes it.
	Invalidate(ctx context.Context, userID string) error
	Close() error
}
