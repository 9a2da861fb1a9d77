package cache

import (
	"context"
	"sync"

	"currency-rate-service/internal/domain/model"
	"currency-rate-service/pkg/logger"
)

// SnapshotSlot holds at most one rate snapshot. Readers share the lock,
// anything that may replace the snapshot holds it exclusively.
type SnapshotSlot struct {
	snapshot *model.Snapshot
	mutex    sync.RWMutex
	log      *logger.Logger
}

func NewSnapshotSlot(log *logger.Logger) *SnapshotSlot {
	return &SnapshotSlot{log: log}
}

func (c *SnapshotSlot) Get(ctx context.Context) (*model.Snapshot, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.snapshot == nil {
		c.log.Debug("Cache miss")
		return nil, false
	}
	return c.snapshot, true
}

func (c *SnapshotSlot) Update(ctx context.Context, fn func(current *model.Snapshot) *model.Snapshot) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if next := fn(c.snapshot); next != nil {
		c.snapshot = next
		c.log.Debug("Cache set", "source", next.Source, "as_of", next.AsOf)
	}
}

func (c *SnapshotSlot) Set(ctx context.Context, snapshot *model.Snapshot) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.snapshot = snapshot
	c.log.Debug("Cache set", "source", snapshot.Source, "as_of", snapshot.AsOf)
}

func (c *SnapshotSlot) Clear(ctx context.Context) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.snapshot = nil
	c.log.Info("Cleared rate cache")
}
