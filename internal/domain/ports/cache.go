package ports

import (
	"context"

	"currency-rate-service/internal/domain/model"
)

// SnapshotCache is the single shared rate snapshot slot.
type SnapshotCache interface {
	// Get reads the slot under a shared lock.
	Get(ctx context.Context) (*model.Snapshot, bool)
	// Update runs fn under the exclusive lock. A non-nil return value replaces the slot.
	Update(ctx context.Context, fn func(current *model.Snapshot) *model.Snapshot)
	Set(ctx context.Context, snapshot *model.Snapshot)
	Clear(ctx context.Context)
}
