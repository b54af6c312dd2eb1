package ports

import (
	"context"
	"time"

	"splitmark/internal/domain"
)

// VolumeCache keeps the last good volume listing per collection.
// Listings are always resolved live; a saved one is read only when the collection is unreachable.
type VolumeCache interface {
	// Lifecycle
	Open(path string) error
	Close() error

	// Get returns the cached listing if it is younger than maxAge.
	// The bool is false on a miss or when the entry is stale.
	Get(ctx context.Context, collection string, maxAge time.Duration) ([]domain.VolumeEntry, bool, error)

	// Put replaces the listing for a collection atomically
	Put(ctx context.Context, collection string, entries []domain.VolumeEntry) error

	// Clear drops one collection, or every collection when collection is empty
	Clear(ctx context.Context, collection string) error
}
