package snapshotv1

import "context"

// Store defines the interface for storing and loading history snapshots.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=snapshotv1_mock
type Store interface {
	Store(ctx context.Context, snapshot *Snapshot) error
	// LoadStore returns nil, nil when no snapshot exists.
	LoadStore(ctx context.Context) (*Snapshot, error)
}
