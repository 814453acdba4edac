package domain

import "context"

// SnapshotPort is what API modules read. Current never blocks.
type SnapshotPort interface {
	Current() Snapshot
}

// RefresherPort triggers and inspects loads
type RefresherPort interface {
	Refresh(ctx context.Context, manual bool) (RefreshResult, error)
	Status() Status
}

// StorageRepo persists snapshots. Typical impl: Postgres, bound to a tx so
// Replace is all or nothing.
type StorageRepo interface {
	// Replace drops every stored snapshot and writes s
	Replace(ctx context.Context, s Snapshot) error

	// Latest loads the newest stored snapshot; ok is false when there is none
	Latest(ctx context.Context) (s Snapshot, ok bool, err error)
}

// Mirror copies a published snapshot into the analytics store
type Mirror interface {
	Mirror(ctx context.Context, s Snapshot) error
}

// RunnerPort drives the background loop from the composition root
type RunnerPort interface {
	// Warm prepares the stores and publishes the last persisted snapshot
	Warm(ctx context.Context) error

	// Run polls the source until ctx is done
	Run(ctx context.Context) error
}
